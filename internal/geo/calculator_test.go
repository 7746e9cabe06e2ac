package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-optimizer-go/pkg/models"
)

func newTestCalculator() *Calculator {
	return NewCalculator(models.DefaultVehicleProfile)
}

func TestDistanceKmSymmetricAndZero(t *testing.T) {
	calc := newTestCalculator()

	points := []models.Waypoint{
		{Lat: 0, Lng: 0},
		{Lat: 10, Lng: 10},
		{Lat: -12.0464, Lng: -77.0428},
		{Lat: 90, Lng: 0},
		{Lat: -90, Lng: 45},
		{Lat: 0, Lng: 179.9},
		{Lat: 0, Lng: -179.9},
	}

	for _, a := range points {
		assert.Equal(t, 0.0, calc.DistanceKm(a, a), "distance to itself for %+v", a)
		for _, b := range points {
			assert.InDelta(t, calc.DistanceKm(a, b), calc.DistanceKm(b, a), 1e-9, "symmetry for %+v %+v", a, b)
		}
	}
}

func TestDistanceKmKnownValues(t *testing.T) {
	calc := newTestCalculator()

	// Один градус по экватору
	assert.InDelta(t, 111.195, calc.DistanceKm(models.Waypoint{}, models.Waypoint{Lng: 1}), 0.01)

	// Переход через антимеридиан дает короткое расстояние
	across := calc.DistanceKm(models.Waypoint{Lat: 0, Lng: 179.5}, models.Waypoint{Lat: 0, Lng: -179.5})
	assert.InDelta(t, 111.195, across, 0.01)

	// Полюса: все долготы сходятся в одной точке
	assert.InDelta(t, 0, calc.DistanceKm(models.Waypoint{Lat: 90, Lng: 0}, models.Waypoint{Lat: 90, Lng: 120}), 1e-6)

	// Антиподы дают половину окружности без NaN
	half := calc.DistanceKm(models.Waypoint{Lat: 0, Lng: 0}, models.Waypoint{Lat: 0, Lng: 180})
	assert.InDelta(t, 20015.087, half, 0.01)
}

func TestTimeAndFuelAreLinear(t *testing.T) {
	calc := newTestCalculator()

	assert.Equal(t, 60, calc.TimeMinutes(60))
	assert.Equal(t, 2*calc.TimeMinutes(100), calc.TimeMinutes(200))
	assert.InDelta(t, 30, calc.FuelLiters(100), 1e-9)
	assert.InDelta(t, 2*calc.FuelLiters(100), calc.FuelLiters(200), 1e-9)
	assert.Equal(t, 0, calc.TimeMinutes(0))
	assert.Equal(t, 0.0, calc.FuelLiters(0))
}

func TestTimeMinutesRounding(t *testing.T) {
	calc := newTestCalculator()

	assert.Equal(t, 1, calc.TimeMinutes(1.4))
	assert.Equal(t, 2, calc.TimeMinutes(1.6))
}

func TestCustomProfile(t *testing.T) {
	calc := NewCalculator(models.VehicleProfile{AvgSpeedKmh: 90, FuelLPer100Km: 12})

	assert.Equal(t, 40, calc.TimeMinutes(60))
	assert.InDelta(t, 6, calc.FuelLiters(50), 1e-9)
}

func TestCoincidentPointsSegment(t *testing.T) {
	calc := newTestCalculator()

	segments := calc.CalculateSegments([]models.Waypoint{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 0}})
	require.Len(t, segments, 1)
	assert.Equal(t, 0.0, segments[0].DistanceKm)
	assert.Equal(t, 0, segments[0].TimeMin)
	assert.Equal(t, 0.0, segments[0].FuelL)
}

func TestCalculateSummary(t *testing.T) {
	calc := newTestCalculator()
	route := []models.Waypoint{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}

	summary := calc.CalculateSummary(route)

	assert.Equal(t, 3, summary.Points)
	require.Len(t, summary.Segments, 2)
	assert.Equal(t, 0, summary.Segments[0].FromIndex)
	assert.Equal(t, 2, summary.Segments[1].ToIndex)
	assert.InDelta(t, calc.TotalDistanceKm(route), summary.TotalDistanceKm, 1e-9)
	assert.InDelta(t, calc.FuelLiters(summary.TotalDistanceKm), summary.TotalFuelL, 1e-9)
	assert.Equal(t, models.DefaultVehicleProfile, summary.Vehicle)

	empty := calc.CalculateSummary(nil)
	assert.Equal(t, 0, empty.Points)
	assert.Empty(t, empty.Segments)
	assert.Equal(t, 0.0, empty.TotalDistanceKm)
}
