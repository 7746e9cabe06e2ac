// Package route хранит упорядоченный список точек маршрута одной сессии.
package route

import (
	"fmt"
	"sync"

	"route-optimizer-go/pkg/models"
)

// State состояние маршрута
type State int

const (
	// Empty маршрут без точек
	Empty State = iota
	// Populated маршрут содержит хотя бы одну точку
	Populated
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Route упорядоченная последовательность точек. Порядок обхода совпадает
// с порядком отображения и хранения. Все операции атомарны по отношению
// к конкурентному чтению.
type Route struct {
	mu     sync.RWMutex
	points []models.Waypoint
}

// New создает маршрут из копии переданных точек
func New(points []models.Waypoint) *Route {
	return &Route{points: clone(points)}
}

// Add добавляет точку в конец маршрута
func (r *Route) Add(wp models.Waypoint) error {
	if err := models.ValidateWaypoint(wp); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.points = append(r.points, wp)
	return nil
}

// Remove удаляет точку по индексу
func (r *Route) Remove(index int) (models.Waypoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.points) == 0 {
		return models.Waypoint{}, &models.ValidationError{
			Field:  "index",
			Value:  index,
			Reason: "cannot be removed: route is empty",
		}
	}
	if index < 0 || index >= len(r.points) {
		return models.Waypoint{}, &models.ValidationError{
			Field:  "index",
			Value:  index,
			Reason: fmt.Sprintf("must be between 0 and %d", len(r.points)-1),
		}
	}

	removed := r.points[index]
	r.points = append(r.points[:index:index], r.points[index+1:]...)
	return removed, nil
}

// Replace целиком заменяет содержимое маршрута
func (r *Route) Replace(points []models.Waypoint) error {
	if err := models.ValidateWaypoints(points); err != nil {
		return err
	}

	next := clone(points)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.points = next
	return nil
}

// Clear удаляет все точки маршрута
func (r *Route) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.points = nil
}

// Points возвращает копию точек маршрута
func (r *Route) Points() []models.Waypoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return clone(r.points)
}

// Len количество точек маршрута
func (r *Route) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.points)
}

// State текущее состояние маршрута
func (r *Route) State() State {
	if r.Len() == 0 {
		return Empty
	}
	return Populated
}

func clone(points []models.Waypoint) []models.Waypoint {
	out := make([]models.Waypoint, len(points))
	copy(out, points)
	return out
}
