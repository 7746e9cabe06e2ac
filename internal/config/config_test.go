package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-optimizer-go/pkg/models"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "coordinates.db", cfg.Database.DSN())
	assert.Equal(t, models.DefaultVehicleProfile, cfg.Vehicle)
	assert.Equal(t, 1000, cfg.Optimizer.MaxPasses)
	assert.Equal(t, 10*time.Second, cfg.RouteAPI.Timeout)
	assert.False(t, cfg.IsProduction())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "routes")
	t.Setenv("VEHICLE_AVG_SPEED_KMH", "80")
	t.Setenv("VEHICLE_FUEL_L_PER_100KM", "12.5")
	t.Setenv("OPTIMIZER_MAX_PASSES", "50")
	t.Setenv("ROUTE_API_TIMEOUT_SECONDS", "3")

	cfg := LoadConfig()

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Contains(t, cfg.Database.DSN(), "host=db")
	assert.Contains(t, cfg.Database.DSN(), "dbname=routes")
	assert.Equal(t, models.VehicleProfile{AvgSpeedKmh: 80, FuelLPer100Km: 12.5}, cfg.Vehicle)
	assert.Equal(t, 50, cfg.Optimizer.MaxPasses)
	assert.Equal(t, 3*time.Second, cfg.RouteAPI.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("VEHICLE_AVG_SPEED_KMH", "fast")

	cfg := LoadConfig()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, models.DefaultVehicleProfile.AvgSpeedKmh, cfg.Vehicle.AvgSpeedKmh)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("VEHICLE_AVG_SPEED_KMH", "0")
	assert.Error(t, LoadConfig().Validate())

	t.Setenv("VEHICLE_AVG_SPEED_KMH", "60")
	t.Setenv("OPTIMIZER_MAX_PASSES", "0")
	assert.Error(t, LoadConfig().Validate())

	t.Setenv("OPTIMIZER_MAX_PASSES", "10")
	t.Setenv("DB_DRIVER", "mysql")
	assert.Error(t, LoadConfig().Validate())
}
