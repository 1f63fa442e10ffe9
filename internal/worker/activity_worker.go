// Package worker turns consumed trip events into activity feed entries.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tripsplit/internal/events"
	"tripsplit/internal/storage"
)

// ActivityWorker appends consumed trip events to the per-trip activity
// feed. Events for trips that no longer exist are dropped instead of
// requeued, so a deleted trip cannot wedge the queue.
type ActivityWorker struct {
	store storage.Store
}

func NewActivityWorker(store storage.Store) *ActivityWorker {
	return &ActivityWorker{store: store}
}

// HandleEvent processes a single trip event. The returned error drives
// the consumer's ack/nack decision.
func (w *ActivityWorker) HandleEvent(ctx context.Context, event *events.TripEvent) error {
	slog.InfoContext(ctx, "Processing trip event",
		"event_id", event.ID,
		"event_kind", event.Kind,
		"trip_id", event.TripID)

	if _, err := w.store.GetTrip(ctx, event.TripID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Dropping event for unknown trip",
				"event_id", event.ID, "trip_id", event.TripID)
			return nil
		}
		return fmt.Errorf("check trip: %w", err)
	}

	entry := &storage.ActivityEntry{
		ID:         event.ID,
		TripID:     event.TripID,
		Kind:       event.Kind,
		Message:    event.Message,
		OccurredAt: event.OccurredAt,
	}
	if err := w.store.AppendActivity(ctx, entry); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}

	return nil
}
