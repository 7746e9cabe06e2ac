package optimizer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-optimizer-go/internal/geo"
	"route-optimizer-go/pkg/models"
)

func newTestOptimizer(maxPasses int) *Optimizer {
	return New(geo.HaversineKm, maxPasses)
}

func routeLength(route []models.Waypoint) float64 {
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		total += geo.HaversineKm(route[i], route[i+1])
	}
	return total
}

func randomRoute(rng *rand.Rand, n int) []models.Waypoint {
	route := make([]models.Waypoint, n)
	for i := range route {
		route[i] = models.Waypoint{Lat: rng.Float64()*10 - 5, Lng: rng.Float64()*10 - 5}
	}
	return route
}

// isLocalOptimum true, если ни один разворот не укорачивает маршрут
func isLocalOptimum(route []models.Waypoint) bool {
	n := len(route)
	for i := 0; i < n-3; i++ {
		for j := i + 2; j < n-1; j++ {
			delta := geo.HaversineKm(route[i], route[j]) + geo.HaversineKm(route[i+1], route[j+1]) -
				geo.HaversineKm(route[i], route[i+1]) - geo.HaversineKm(route[j], route[j+1])
			if delta < -Epsilon {
				return false
			}
		}
	}
	return true
}

func TestOptimizeDegenerateRoutesUnchanged(t *testing.T) {
	opt := newTestOptimizer(0)

	routes := [][]models.Waypoint{
		{},
		{{Lat: 1, Lng: 1}},
		{{Lat: 1, Lng: 1}, {Lat: 5, Lng: 5}},
		{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 10}, {Lat: 0, Lng: 10}},
	}

	for _, r := range routes {
		res := opt.Optimize(r)
		assert.Equal(t, r, res.Waypoints)
		assert.True(t, res.Converged)
		assert.Equal(t, 0, res.Swaps)
		assert.Equal(t, 0, res.Passes)
	}
}

func TestOptimizeRemovesCrossingInSquare(t *testing.T) {
	opt := newTestOptimizer(0)
	crossed := []models.Waypoint{
		{Lat: 0, Lng: 0},
		{Lat: 10, Lng: 10},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 0},
	}

	res := opt.Optimize(crossed)

	require.Len(t, res.Waypoints, 4)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Swaps)
	assert.Less(t, res.FinalKm, routeLength(crossed))
	assert.InDelta(t, routeLength(res.Waypoints), res.FinalKm, 1e-9)
	assert.Equal(t, []models.Waypoint{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 0},
	}, res.Waypoints)
}

func TestOptimizeDoesNotMutateInput(t *testing.T) {
	opt := newTestOptimizer(0)
	input := []models.Waypoint{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 10}, {Lat: 0, Lng: 10}, {Lat: 10, Lng: 0}}
	snapshot := append([]models.Waypoint(nil), input...)

	_ = opt.Optimize(input)

	assert.Equal(t, snapshot, input)
}

func TestOptimizeMonotonicAndPermutation(t *testing.T) {
	opt := newTestOptimizer(0)
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 4 + rng.Intn(20)
		route := randomRoute(rng, n)

		res := opt.Optimize(route)

		assert.LessOrEqual(t, routeLength(res.Waypoints), routeLength(route)+1e-9)
		assert.ElementsMatch(t, route, res.Waypoints)
		assert.Equal(t, route[0], res.Waypoints[0], "first point is fixed")
		assert.Equal(t, route[n-1], res.Waypoints[n-1], "last point is fixed")

		if res.Converged {
			assert.True(t, isLocalOptimum(res.Waypoints), "converged route must be a local optimum")
		}
	}
}

func TestOptimizeStopsAtPassCap(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	route := make([]models.Waypoint, 30)
	for i := range route {
		route[i] = models.Waypoint{Lat: rng.Float64() * 20, Lng: rng.Float64() * 20}
	}

	full := newTestOptimizer(0).Optimize(route)
	require.Greater(t, full.Swaps, 1)

	capped := newTestOptimizer(1).Optimize(route)

	assert.Equal(t, 1, capped.Passes)
	assert.GreaterOrEqual(t, capped.Swaps, 1)
	assert.False(t, capped.Converged)
	assert.Less(t, capped.FinalKm, capped.InitialKm)
	assert.ElementsMatch(t, route, capped.Waypoints)
}

func TestOptimizeLargeRouteConvergesWithDefaultCap(t *testing.T) {
	rng := rand.New(rand.NewSource(300))

	for _, n := range []int{200, 300} {
		route := randomRoute(rng, n)

		res := newTestOptimizer(0).Optimize(route)

		assert.True(t, res.Converged, "n=%d passes=%d swaps=%d", n, res.Passes, res.Swaps)
		assert.Less(t, res.Passes, DefaultMaxPasses)
		assert.True(t, isLocalOptimum(res.Waypoints), "n=%d", n)
		assert.Less(t, res.FinalKm, res.InitialKm)
	}
}

func TestOptimizeIgnoresZeroGainSwaps(t *testing.T) {
	opt := newTestOptimizer(0)
	same := []models.Waypoint{{Lat: 1, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 1}}

	res := opt.Optimize(same)

	assert.True(t, res.Converged)
	assert.Equal(t, 0, res.Swaps)
	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, 0.0, res.FinalKm)
}

func TestNewDefaultsPassCap(t *testing.T) {
	assert.Equal(t, DefaultMaxPasses, New(geo.HaversineKm, 0).MaxPasses())
	assert.Equal(t, DefaultMaxPasses, New(geo.HaversineKm, -3).MaxPasses())
	assert.Equal(t, 25, New(geo.HaversineKm, 25).MaxPasses())
}
