package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vigil/pkg/platform/audit"
)

func TestWorkerPersistsInboxEvents(t *testing.T) {
	store := audit.NewMemoryStore()
	inbox := make(chan audit.Event, 4)
	w := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	publisher := audit.NewChannelPublisher(inbox)
	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: audit.ActionSystemPaused, Actor: "admin"}))
	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: audit.ActionSystemUnpaused, Actor: "admin"}))

	require.Eventually(t, func() bool {
		events, err := store.List(ctx)
		require.NoError(t, err)
		return len(events) == 2
	}, time.Second, 5*time.Millisecond)

	events, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, audit.ActionSystemPaused, events[0].Action)
	require.NotEmpty(t, events[0].ID, "events are stamped before persisting")

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	inbox := make(chan audit.Event, 1)
	publisher := audit.NewChannelPublisher(inbox)

	require.NoError(t, publisher.Emit(context.Background(), audit.Event{Action: audit.ActionSystemPaused}))
	require.Error(t, publisher.Emit(context.Background(), audit.Event{Action: audit.ActionSystemPaused}))
}
