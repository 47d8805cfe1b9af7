package system

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPauseRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	status, err := store.Status(ctx)
	require.NoError(t, err)
	require.False(t, status.Paused)

	require.NoError(t, store.SetPaused(ctx, true))
	status, err = store.Status(ctx)
	require.NoError(t, err)
	require.True(t, status.Paused)

	require.NoError(t, store.SetPaused(ctx, false))
	status, err = store.Status(ctx)
	require.NoError(t, err)
	require.False(t, status.Paused)
}

func TestCensusCounters(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.IncrEntities(ctx))
	require.NoError(t, store.IncrOracles(ctx))
	require.NoError(t, store.IncrOracles(ctx))
	require.NoError(t, store.DecrOracles(ctx))

	status, err := store.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), status.TotalEntities)
	require.Equal(t, uint64(1), status.OracleCount)
}
