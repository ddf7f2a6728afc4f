package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount int           // default: 1
	QueueSize   int           // default: 100
	SendTimeout time.Duration // default: 5 seconds
}

type service struct {
	sink   notification.Sink
	hub    *sse.Hub
	config Config

	queue   chan notification.Event
	wg      sync.WaitGroup
	stopCh  chan struct{}
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationService creates a new notification service with background workers.
// sink may be nil, in which case events only reach live subscribers.
func NewNotificationService(sink notification.Sink, hub *sse.Hub, cfg Config) notification.Service {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}

	s := &service{
		sink:   sink,
		hub:    hub,
		config: cfg,
		queue:  make(chan notification.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize, "sink", sink != nil)

	return s
}

// worker delivers queued events until stopped, then drains what is left.
func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case ev := <-s.queue:
			s.deliver(id, ev)
		case <-s.stopCh:
			for {
				select {
				case ev := <-s.queue:
					s.deliver(id, ev)
				default:
					return
				}
			}
		}
	}
}

func (s *service) deliver(workerID int, ev notification.Event) {
	if s.hub != nil {
		s.hub.Publish(ev.EmployeeName, sse.Event{
			Event: "attendance",
			Data:  notification.NewEventResponse(ev),
		})
	}

	if s.sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.SendTimeout)
	defer cancel()

	if err := s.sink.Send(ctx, ev); err != nil {
		slog.Warn("Failed to deliver notification",
			"worker", workerID,
			"event_id", ev.ID,
			"employee_name", ev.EmployeeName,
			"type", ev.Type,
			"error", err,
		)
		return
	}
	slog.Debug("Notification delivered", "worker", workerID, "event_id", ev.ID, "type", ev.Type)
}

// Notify queues an event. A full queue drops the event rather than delaying the caller.
func (s *service) Notify(ctx context.Context, event notification.Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return notification.ErrServiceStopped
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	select {
	case s.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		slog.Warn("Notification queue full, dropping event", "employee_name", event.EmployeeName, "type", event.Type)
		return notification.ErrQueueFull
	}
}

// Subscribe creates an SSE subscription for an employee
func (s *service) Subscribe(ctx context.Context, employeeName string) (<-chan notification.SSEEvent, func()) {
	out := make(chan notification.SSEEvent, 10)
	if s.hub == nil {
		close(out)
		return out, func() {}
	}

	ch, cleanup := s.hub.Subscribe(employeeName)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.EventResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("Notification service stopped")
}
