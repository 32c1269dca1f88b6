// Package events turns the domain events returned by lifecycle operations into
// persisted activities and notifications, then fans them out to external sinks.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

// Message is one applied event ready for delivery outside the database.
// Notification and Recipient are set for each user a NotificationRequested reached.
type Message struct {
	Event        domain.Event
	Notification *domain.Notification
	Recipient    *domain.User
}

// Sink delivers the messages of one committed operation as a batch.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, msgs []Message) error
}

const deliverTimeout = 30 * time.Second

// Dispatcher delivers on the caller's goroutine until Start moves delivery to
// a buffered queue drained by background workers.
type Dispatcher struct {
	sinks []Sink

	mu     sync.RWMutex
	queue  chan []Message
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// Start launches workers that drain a queue of queueSize batches. Call it
// once, before the first Publish.
func (d *Dispatcher) Start(workers, queueSize int) {
	if workers < 1 {
		workers = 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.queue != nil || d.closed {
		return
	}
	d.queue = make(chan []Message, queueSize)
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	logger.Debug("Event worker started", "worker", id)
	for msgs := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		d.deliver(ctx, msgs)
		cancel()
	}
	logger.Debug("Event worker stopped", "worker", id)
}

// Apply persists activities and notifications through repos, which are
// normally bound to the caller's transaction. Any error aborts the operation.
func (d *Dispatcher) Apply(ctx context.Context, repos *repository.Repositories, evts []domain.Event) ([]Message, error) {
	var out []Message
	for _, evt := range evts {
		switch e := evt.(type) {
		case domain.ActivityRecorded:
			a := e.Activity
			if err := repos.Activities.Create(ctx, &a); err != nil {
				return nil, fmt.Errorf("record activity: %w", err)
			}
			out = append(out, Message{Event: domain.ActivityRecorded{Activity: a}})

		case domain.NotificationRequested:
			recipients, err := resolveRecipients(ctx, repos.Users, e)
			if err != nil {
				return nil, fmt.Errorf("resolve notification recipients: %w", err)
			}
			for i := range recipients {
				n := &domain.Notification{
					UserID:    recipients[i].ID,
					Title:     e.Title,
					Message:   e.Message,
					Type:      e.Type,
					CreatedAt: e.At,
				}
				if err := repos.Notifications.Create(ctx, n); err != nil {
					return nil, fmt.Errorf("create notification: %w", err)
				}
				out = append(out, Message{Event: e, Notification: n, Recipient: &recipients[i]})
			}

		default:
			out = append(out, Message{Event: evt})
		}
	}
	return out, nil
}

func resolveRecipients(ctx context.Context, users repository.UserRepository, e domain.NotificationRequested) ([]domain.User, error) {
	if len(e.Roles) > 0 {
		return users.ListByRoles(ctx, e.Roles)
	}
	u, err := users.GetByID(ctx, e.UserID)
	if err != nil {
		return nil, err
	}
	return []domain.User{*u}, nil
}

// Publish hands the messages of one operation to every sink. Failures are
// logged and never returned: the originating operation has already committed.
// With workers running, a full queue falls back to delivering inline.
func (d *Dispatcher) Publish(ctx context.Context, msgs []Message) {
	if len(msgs) == 0 || len(d.sinks) == 0 {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.queue == nil || d.closed {
		d.deliver(ctx, msgs)
		return
	}
	select {
	case d.queue <- msgs:
	default:
		logger.Warn("Event queue is full, delivering inline", "messages", len(msgs))
		d.deliver(ctx, msgs)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msgs []Message) {
	for _, sink := range d.sinks {
		err := sink.Deliver(ctx, msgs)
		logger.ExternalServiceResult(sink.Name(), "publish", err, "messages", len(msgs))
	}
}

// Close drains the queue, waits for the workers and then releases sinks
// that hold connections.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.queue != nil && !d.closed {
		close(d.queue)
	}
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()

	var firstErr error
	for _, sink := range d.sinks {
		if c, ok := sink.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
