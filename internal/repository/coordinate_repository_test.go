package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-optimizer-go/internal/testutil"
	"route-optimizer-go/pkg/models"
)

func TestCoordinateRepositoryReplaceAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewCoordinateRepository(testutil.NewTestDB(t))

	first := []models.Waypoint{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}}
	require.NoError(t, repo.ReplaceAll(ctx, first))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	second := []models.Waypoint{{Lat: 3, Lng: 3}, {Lat: 1, Lng: 1}}
	require.NoError(t, repo.ReplaceAll(ctx, second))
	require.NoError(t, repo.ReplaceAll(ctx, second))

	got, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestCoordinateRepositoryAppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewCoordinateRepository(testutil.NewTestDB(t))

	id1, err := repo.Append(ctx, models.Waypoint{Lat: 10, Lng: 20})
	require.NoError(t, err)
	id2, err := repo.Append(ctx, models.Waypoint{Lat: -10, Lng: -20})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Waypoint{{Lat: 10, Lng: 20}, {Lat: -10, Lng: -20}}, got)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCoordinateRepositoryDeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := NewCoordinateRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.ReplaceAll(ctx, []models.Waypoint{{Lat: 1, Lng: 1}}))
	require.NoError(t, repo.DeleteAll(ctx))
	require.NoError(t, repo.DeleteAll(ctx))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCoordinateRepositoryCanceledContext(t *testing.T) {
	repo := NewCoordinateRepository(testutil.NewTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, repo.ReplaceAll(ctx, []models.Waypoint{{Lat: 1, Lng: 1}}))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
