package models

import (
	"fmt"
	"math"
)

// Waypoint представляет точку маршрута
type Waypoint struct {
	Lat float64 `json:"lat"` // Широта
	Lng float64 `json:"lng"` // Долгота
}

// WaypointInput точка маршрута в том виде, в котором она приходит от клиента.
// Указатели позволяют отличить отсутствующее поле от нулевой координаты.
type WaypointInput struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// ToWaypoint проверяет входные данные и возвращает точку маршрута
func (in WaypointInput) ToWaypoint() (Waypoint, error) {
	if in.Lat == nil {
		return Waypoint{}, &ValidationError{Field: "lat", Reason: "is required"}
	}
	if in.Lng == nil {
		return Waypoint{}, &ValidationError{Field: "lng", Reason: "is required"}
	}

	wp := Waypoint{Lat: *in.Lat, Lng: *in.Lng}
	if err := ValidateWaypoint(wp); err != nil {
		return Waypoint{}, err
	}
	return wp, nil
}

// ValidateWaypoint проверяет, что координаты лежат в допустимом диапазоне
func ValidateWaypoint(wp Waypoint) error {
	if math.IsNaN(wp.Lat) || math.IsInf(wp.Lat, 0) {
		return &ValidationError{Field: "lat", Value: wp.Lat, Reason: "must be a finite number"}
	}
	if math.IsNaN(wp.Lng) || math.IsInf(wp.Lng, 0) {
		return &ValidationError{Field: "lng", Value: wp.Lng, Reason: "must be a finite number"}
	}
	if wp.Lat < -90 || wp.Lat > 90 {
		return &ValidationError{Field: "lat", Value: wp.Lat, Reason: "must be between -90 and 90"}
	}
	if wp.Lng < -180 || wp.Lng > 180 {
		return &ValidationError{Field: "lng", Value: wp.Lng, Reason: "must be between -180 and 180"}
	}
	return nil
}

// ValidateWaypoints проверяет все точки маршрута и сообщает индекс первой ошибочной
func ValidateWaypoints(wps []Waypoint) error {
	for i, wp := range wps {
		if err := ValidateWaypoint(wp); err != nil {
			return fmt.Errorf("point %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidationError ошибка проверки входных координат или индексов
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s (got %v)", e.Field, e.Reason, e.Value)
}

// VehicleProfile параметры транспортного средства для оценки времени и расхода
type VehicleProfile struct {
	AvgSpeedKmh   float64 `json:"avg_speed_kmh"`    // Средняя скорость, км/ч
	FuelLPer100Km float64 `json:"fuel_l_per_100km"` // Расход топлива, л/100 км
}

// DefaultVehicleProfile грузовик MAN TGM
var DefaultVehicleProfile = VehicleProfile{
	AvgSpeedKmh:   60,
	FuelLPer100Km: 30,
}

// Validate проверяет параметры профиля
func (p VehicleProfile) Validate() error {
	if !(p.AvgSpeedKmh > 0) || math.IsInf(p.AvgSpeedKmh, 0) {
		return fmt.Errorf("vehicle avg speed must be positive, got %v", p.AvgSpeedKmh)
	}
	if !(p.FuelLPer100Km >= 0) || math.IsInf(p.FuelLPer100Km, 0) {
		return fmt.Errorf("vehicle fuel consumption must be non-negative, got %v", p.FuelLPer100Km)
	}
	return nil
}

// SegmentEstimate оценка участка между двумя соседними точками
type SegmentEstimate struct {
	FromIndex  int      `json:"from_index"`  // Индекс начальной точки
	ToIndex    int      `json:"to_index"`    // Индекс конечной точки
	From       Waypoint `json:"from"`        // Начальная точка
	To         Waypoint `json:"to"`          // Конечная точка
	DistanceKm float64  `json:"distance_km"` // Расстояние, км
	TimeMin    int      `json:"time_min"`    // Время в пути, мин
	FuelL      float64  `json:"fuel_l"`      // Расход топлива, л
}

// RouteSummary сводка по всему маршруту
type RouteSummary struct {
	Points          int               `json:"points"`            // Количество точек
	Segments        []SegmentEstimate `json:"segments"`          // Участки маршрута
	TotalDistanceKm float64           `json:"total_distance_km"` // Общее расстояние, км
	TotalTimeMin    int               `json:"total_time_min"`    // Общее время, мин
	TotalFuelL      float64           `json:"total_fuel_l"`      // Общий расход, л
	Vehicle         VehicleProfile    `json:"vehicle"`           // Профиль транспорта
}

// MessageResponse успешный ответ API
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse ответ API с описанием ошибки
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// AddPointResponse ответ на добавление одной точки
type AddPointResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// OptimizeResponse ответ удаленной оптимизации маршрута
type OptimizeResponse struct {
	Message           string     `json:"message"`
	OptimizedRoute    []Waypoint `json:"optimized_route"`
	Passes            int        `json:"passes"`
	Swaps             int        `json:"swaps"`
	Converged         bool       `json:"converged"`
	InitialDistanceKm float64    `json:"initial_distance_km"`
	FinalDistanceKm   float64    `json:"final_distance_km"`
}

// HealthResponse представляет ответ проверки здоровья сервиса
type HealthResponse struct {
	Status  string `json:"status"`  // Статус сервиса (healthy/unhealthy)
	Version string `json:"version"` // Версия сервиса
}
