package geo

import (
	"math"

	"route-optimizer-go/pkg/models"
)

// EarthRadiusKm средний радиус Земли в километрах
const EarthRadiusKm = 6371.0

// Calculator выполняет географические вычисления и оценки для профиля транспорта
type Calculator struct {
	profile models.VehicleProfile
}

// NewCalculator создает новый калькулятор для заданного профиля транспорта
func NewCalculator(profile models.VehicleProfile) *Calculator {
	return &Calculator{profile: profile}
}

// Profile возвращает профиль транспорта калькулятора
func (c *Calculator) Profile() models.VehicleProfile {
	return c.profile
}

// DistanceKm вычисляет расстояние между двумя точками в километрах.
// Использует формулу гаверсинуса
func (c *Calculator) DistanceKm(a, b models.Waypoint) float64 {
	return HaversineKm(a, b)
}

// HaversineKm расстояние по большому кругу между двумя точками в километрах
func HaversineKm(a, b models.Waypoint) float64 {
	// Преобразуем градусы в радианы
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lng - a.Lng) * math.Pi / 180

	// Формула гаверсинуса
	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	// Ошибка округления не должна выводить h за пределы [0, 1]
	h = math.Min(1, math.Max(0, h))

	chord := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * chord
}

// TimeMinutes оценивает время в пути, округленное до целых минут
func (c *Calculator) TimeMinutes(km float64) int {
	return int(math.Round(km / c.profile.AvgSpeedKmh * 60))
}

// FuelLiters оценивает расход топлива в литрах
func (c *Calculator) FuelLiters(km float64) float64 {
	return (km / 100) * c.profile.FuelLPer100Km
}

// TotalDistanceKm сумма расстояний по всем последовательным участкам маршрута
func (c *Calculator) TotalDistanceKm(route []models.Waypoint) float64 {
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		total += c.DistanceKm(route[i], route[i+1])
	}
	return total
}

// Segment вычисляет оценку участка между двумя точками
func (c *Calculator) Segment(a, b models.Waypoint) models.SegmentEstimate {
	km := c.DistanceKm(a, b)
	return models.SegmentEstimate{
		From:       a,
		To:         b,
		DistanceKm: km,
		TimeMin:    c.TimeMinutes(km),
		FuelL:      c.FuelLiters(km),
	}
}

// CalculateSegments разбивает маршрут на участки между соседними точками
func (c *Calculator) CalculateSegments(route []models.Waypoint) []models.SegmentEstimate {
	if len(route) < 2 {
		return []models.SegmentEstimate{}
	}

	segments := make([]models.SegmentEstimate, 0, len(route)-1)
	for i := 0; i+1 < len(route); i++ {
		seg := c.Segment(route[i], route[i+1])
		seg.FromIndex = i
		seg.ToIndex = i + 1
		segments = append(segments, seg)
	}

	return segments
}

// CalculateSummary вычисляет общую статистику маршрута
func (c *Calculator) CalculateSummary(route []models.Waypoint) models.RouteSummary {
	segments := c.CalculateSegments(route)

	totalKm := 0.0
	for _, seg := range segments {
		totalKm += seg.DistanceKm
	}

	return models.RouteSummary{
		Points:          len(route),
		Segments:        segments,
		TotalDistanceKm: totalKm,
		TotalTimeMin:    c.TimeMinutes(totalKm),
		TotalFuelL:      c.FuelLiters(totalKm),
		Vehicle:         c.profile,
	}
}
