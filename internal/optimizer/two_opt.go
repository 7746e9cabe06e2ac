// Package optimizer переупорядочивает точки маршрута эвристикой 2-opt.
//
// Один просмотр перебирает все пары ребер в порядке возрастания (i, j) и
// сразу применяет каждый улучшающий обмен, продолжая перебор по уже
// измененному порядку. Обмен применяется только при строгом уменьшении
// длины (больше чем на Epsilon км). Просмотр без обменов означает
// локальный оптимум. Первая и последняя точки маршрута не перемещаются.
package optimizer

import (
	"route-optimizer-go/pkg/models"
)

const (
	// DefaultMaxPasses предел числа просмотров по умолчанию
	DefaultMaxPasses = 1000

	// Epsilon минимальное улучшение в километрах, при котором обмен применяется
	Epsilon = 1e-9
)

// DistanceFunc расстояние между двумя точками в километрах
type DistanceFunc func(a, b models.Waypoint) float64

// Result результат оптимизации
type Result struct {
	Waypoints []models.Waypoint // Новый порядок точек
	Passes    int               // Выполнено просмотров
	Swaps     int               // Применено обменов
	Converged bool              // Достигнут локальный оптимум
	InitialKm float64           // Длина маршрута до оптимизации
	FinalKm   float64           // Длина маршрута после оптимизации
}

// Optimizer выполняет локальный поиск 2-opt
type Optimizer struct {
	distance  DistanceFunc
	maxPasses int
}

// New создает оптимизатор. maxPasses <= 0 означает DefaultMaxPasses
func New(distance DistanceFunc, maxPasses int) *Optimizer {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	return &Optimizer{
		distance:  distance,
		maxPasses: maxPasses,
	}
}

// MaxPasses предел числа просмотров
func (o *Optimizer) MaxPasses() int {
	return o.maxPasses
}

// Optimize возвращает новый порядок точек. Входной срез не изменяется,
// результат не сохраняется: это задача вызывающей стороны.
func (o *Optimizer) Optimize(route []models.Waypoint) Result {
	order := make([]models.Waypoint, len(route))
	copy(order, route)

	initial := o.length(order)
	res := Result{
		Waypoints: order,
		InitialKm: initial,
		FinalKm:   initial,
	}

	// Маршрут из трех точек и меньше не имеет допустимых обменов
	n := len(order)
	if n < 4 {
		res.Converged = true
		return res
	}

	for res.Passes < o.maxPasses {
		res.Passes++

		swaps := o.sweep(order)
		res.Swaps += swaps
		if swaps == 0 {
			res.Converged = true
			break
		}
	}

	res.FinalKm = o.length(order)
	return res
}

// sweep выполняет один полный просмотр пар ребер (i, i+1) и (j, j+1)
// и возвращает число примененных разворотов
func (o *Optimizer) sweep(order []models.Waypoint) int {
	n := len(order)
	swaps := 0
	for i := 0; i < n-3; i++ {
		for j := i + 2; j < n-1; j++ {
			a, b := order[i], order[i+1]
			c, d := order[j], order[j+1]
			delta := o.distance(a, c) + o.distance(b, d) - o.distance(a, b) - o.distance(c, d)
			if delta < -Epsilon {
				reverse(order, i+1, j)
				swaps++
			}
		}
	}
	return swaps
}

func (o *Optimizer) length(order []models.Waypoint) float64 {
	total := 0.0
	for i := 0; i+1 < len(order); i++ {
		total += o.distance(order[i], order[i+1])
	}
	return total
}

// reverse разворачивает order[from..to] включительно
func reverse(order []models.Waypoint, from, to int) {
	for from < to {
		order[from], order[to] = order[to], order[from]
		from++
		to--
	}
}
