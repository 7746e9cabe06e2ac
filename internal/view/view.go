// Package view строит представление маршрута для слоя отображения.
package view

import (
	"time"

	"route-optimizer-go/internal/geo"
	"route-optimizer-go/pkg/models"
)

// DefaultDismissAfter время, через которое уведомление исчезает
const DefaultDismissAfter = 5 * time.Second

// Leg оценка участка до следующей точки
type Leg struct {
	ToNumber   int     `json:"to_number"`
	DistanceKm float64 `json:"distance_km"`
	TimeMin    int     `json:"time_min"`
	FuelL      float64 `json:"fuel_l"`
}

// Marker нумерованный маркер точки маршрута
type Marker struct {
	Number int             `json:"number"`
	Point  models.Waypoint `json:"point"`
	Next   *Leg            `json:"next,omitempty"`
	IsLast bool            `json:"is_last"`
}

// RouteView снимок маршрута для отрисовки. Строится заново при каждой
// отрисовке и не зависит от предыдущих снимков.
type RouteView struct {
	Markers         []Marker          `json:"markers"`
	Path            []models.Waypoint `json:"path"`
	TotalDistanceKm float64           `json:"total_distance_km"`
	TotalTimeMin    int               `json:"total_time_min"`
	TotalFuelL      float64           `json:"total_fuel_l"`
}

// Empty маршрут без точек
func (v RouteView) Empty() bool {
	return len(v.Markers) == 0
}

// Build строит представление из текущих точек маршрута
func Build(points []models.Waypoint, calc *geo.Calculator) RouteView {
	v := RouteView{
		Markers: make([]Marker, 0, len(points)),
		Path:    make([]models.Waypoint, len(points)),
	}
	copy(v.Path, points)

	totalKm := 0.0
	for i, p := range points {
		m := Marker{Number: i + 1, Point: p}
		if i+1 < len(points) {
			seg := calc.Segment(p, points[i+1])
			m.Next = &Leg{
				ToNumber:   i + 2,
				DistanceKm: seg.DistanceKm,
				TimeMin:    seg.TimeMin,
				FuelL:      seg.FuelL,
			}
			totalKm += seg.DistanceKm
		} else {
			m.IsLast = true
		}
		v.Markers = append(v.Markers, m)
	}

	v.TotalDistanceKm = totalKm
	v.TotalTimeMin = calc.TimeMinutes(totalKm)
	v.TotalFuelL = calc.FuelLiters(totalKm)
	return v
}

// NoticeKind тип уведомления
type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice временное уведомление для пользователя
type Notice struct {
	Text         string
	Kind         NoticeKind
	DismissAfter time.Duration
}

// Info информационное уведомление
func Info(text string) Notice {
	return Notice{Text: text, Kind: NoticeInfo, DismissAfter: DefaultDismissAfter}
}

// Error уведомление об ошибке
func Error(text string) Notice {
	return Notice{Text: text, Kind: NoticeError, DismissAfter: DefaultDismissAfter}
}

// Presenter слой отображения маршрута
type Presenter interface {
	Render(v RouteView)
	Notify(n Notice)
}
