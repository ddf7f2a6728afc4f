package notification

import (
	"context"
)

// Service dispatches attendance events without blocking the action that produced them.
type Service interface {
	// Notify queues an event for delivery. It never waits on the destination.
	Notify(ctx context.Context, event Event) error

	// Subscribe streams events for one employee until ctx ends or the cleanup func is called.
	Subscribe(ctx context.Context, employeeName string) (<-chan SSEEvent, func())

	// Stop drains the queue and waits for in-flight deliveries.
	Stop()
}
