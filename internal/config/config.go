package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"route-optimizer-go/pkg/models"
)

// Поддерживаемые драйверы базы данных
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config структура конфигурации приложения
type Config struct {
	Server struct {
		Port        int
		Host        string
		Environment string
	}
	GRPC struct {
		Port int
	}
	Database DatabaseConfig
	Vehicle  models.VehicleProfile

	Optimizer struct {
		MaxPasses int
	}
	RouteAPI struct {
		BaseURL string
		Timeout time.Duration
	}
	Logging struct {
		Level string
	}
}

// DatabaseConfig конфигурация базы данных
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Database   string
	Username   string
	Password   string
	SSLMode    string
	SQLitePath string
}

// DSN строка подключения для выбранного драйвера
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode,
	)
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Файл .env, если он есть, читается заранее и не перекрывает уже заданные переменные.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// Конфигурация сервера
	cfg.Server.Port = getEnvInt("SERVER_PORT", 8000)
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Environment = getEnv("ENVIRONMENT", "development")
	cfg.GRPC.Port = getEnvInt("GRPC_PORT", 9090)

	// Конфигурация базы данных
	cfg.Database = DatabaseConfig{
		Driver:     getEnv("DB_DRIVER", DriverSQLite),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       getEnv("DB_PORT", "5432"),
		Database:   getEnv("DB_NAME", "route_optimizer"),
		Username:   getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", "postgres"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("DB_SQLITE_PATH", "coordinates.db"),
	}

	// Профиль транспорта
	cfg.Vehicle = models.VehicleProfile{
		AvgSpeedKmh:   getEnvFloat("VEHICLE_AVG_SPEED_KMH", models.DefaultVehicleProfile.AvgSpeedKmh),
		FuelLPer100Km: getEnvFloat("VEHICLE_FUEL_L_PER_100KM", models.DefaultVehicleProfile.FuelLPer100Km),
	}

	cfg.Optimizer.MaxPasses = getEnvInt("OPTIMIZER_MAX_PASSES", 1000)

	// Конфигурация клиента API маршрутов
	cfg.RouteAPI.BaseURL = getEnv("ROUTE_API_BASE_URL", "http://localhost:8000")
	cfg.RouteAPI.Timeout = time.Duration(getEnvInt("ROUTE_API_TIMEOUT_SECONDS", 10)) * time.Second

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	return cfg
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if err := c.Vehicle.Validate(); err != nil {
		return fmt.Errorf("invalid vehicle profile: %w", err)
	}
	if c.Optimizer.MaxPasses <= 0 {
		return fmt.Errorf("optimizer max passes must be positive, got %d", c.Optimizer.MaxPasses)
	}
	if c.RouteAPI.Timeout <= 0 {
		return fmt.Errorf("route api timeout must be positive, got %s", c.RouteAPI.Timeout)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// IsProduction true для production окружения
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает float значение переменной окружения или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
