package model

import (
	"time"

	"route-optimizer-go/pkg/models"
)

// Coordinate представляет сохраненную точку маршрута.
// Порядок точек маршрута определяется возрастанием ID.
type Coordinate struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Lat       float64   `gorm:"not null" json:"lat"`
	Lng       float64   `gorm:"not null" json:"lng"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName указывает имя таблицы для Coordinate
func (Coordinate) TableName() string {
	return "coordinates"
}

// Waypoint преобразует запись в точку маршрута
func (c Coordinate) Waypoint() models.Waypoint {
	return models.Waypoint{Lat: c.Lat, Lng: c.Lng}
}

// FromWaypoint создает запись из точки маршрута
func FromWaypoint(wp models.Waypoint) Coordinate {
	return Coordinate{Lat: wp.Lat, Lng: wp.Lng}
}
