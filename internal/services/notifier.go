package services

import (
	"context"
	"log"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
)

// NotificationIndex is a set of (title, message) pairs used to avoid
// re-emitting the same expiry alert.
type NotificationIndex map[string]struct{}

func NewNotificationIndex(notifications []models.AppNotification) NotificationIndex {
	idx := make(NotificationIndex, len(notifications))
	for i := range notifications {
		idx.Add(notifications[i])
	}
	return idx
}

func (idx NotificationIndex) Add(n models.AppNotification) {
	idx[n.DedupKey()] = struct{}{}
}

func (idx NotificationIndex) Contains(title, message string) bool {
	_, ok := idx[models.NotificationKey(title, message)]
	return ok
}

// Sink receives notifications after they were persisted.
type Sink interface {
	Deliver(ctx context.Context, notifications []models.AppNotification) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, notifications []models.AppNotification) error

func (f SinkFunc) Deliver(ctx context.Context, notifications []models.AppNotification) error {
	return f(ctx, notifications)
}

// Fanout delivers to every sink; a failing sink is logged and does not stop the others.
type Fanout []Sink

func (f Fanout) Deliver(ctx context.Context, notifications []models.AppNotification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, sink := range f {
		if err := sink.Deliver(ctx, notifications); err != nil {
			log.Printf("Failed to deliver %d notifications: %v", len(notifications), err)
		}
	}
	return nil
}

// Async hands every batch to sink on a new goroutine. The request context is
// detached so delivery survives the end of the request.
func Async(sink Sink) Sink {
	return SinkFunc(func(ctx context.Context, notifications []models.AppNotification) error {
		if len(notifications) == 0 {
			return nil
		}
		ctx = context.WithoutCancel(ctx)
		go func() {
			if err := sink.Deliver(ctx, notifications); err != nil {
				log.Printf("Async notification delivery failed: %v", err)
			}
		}()
		return nil
	})
}
