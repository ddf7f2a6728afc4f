package notification

import (
	"context"
	"errors"
)

// Sink delivers one event to an external destination. Delivery is best effort.
type Sink interface {
	Send(ctx context.Context, event Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Send(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Sinks fans an event out to every sink and joins their errors.
type Sinks []Sink

func (s Sinks) Send(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range s {
		if err := sink.Send(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
