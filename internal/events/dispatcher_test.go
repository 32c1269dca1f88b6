package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository/mocks"
)

var at = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

type recordingSink struct {
	name    string
	err     error
	mu      sync.Mutex
	got     []Message
	batches int
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(ctx context.Context, msgs []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, msgs...)
	s.batches++
	return s.err
}

func TestDispatcher_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("Fans role notification out to each user", func(t *testing.T) {
		store := mocks.NewStore()
		staff := []domain.User{{ID: 1, Role: domain.RoleAdmin}, {ID: 2, Role: domain.RoleStaff}}
		store.Activities.On("Create", ctx, mock.AnythingOfType("*domain.Activity")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Activity).ID = 10 }).
			Return(nil)
		store.Users.On("ListByRoles", ctx, domain.ElevatedRoles).Return(staff, nil)
		store.Notifications.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil).Twice()

		evts := []domain.Event{
			domain.ActivityRecorded{Activity: domain.Activity{UserID: 7, Action: domain.ActionCreated, Entity: domain.EntityBooking, EntityID: "42"}},
			domain.NotificationRequested{Roles: domain.ElevatedRoles, Title: "New Booking Request", Type: domain.NotificationInfo, At: at},
			domain.BookingChanged{Booking: domain.Booking{ID: 42}, To: domain.BookingStatusPending, At: at},
		}

		msgs, err := NewDispatcher().Apply(ctx, store.Repositories(), evts)
		require.NoError(t, err)
		require.Len(t, msgs, 4)
		assert.Equal(t, int64(10), msgs[0].Event.(domain.ActivityRecorded).Activity.ID)
		assert.Equal(t, int64(1), msgs[1].Notification.UserID)
		assert.Equal(t, int64(2), msgs[2].Recipient.ID)
		assert.Equal(t, "booking.created", msgs[3].Event.EventName())
		store.Notifications.AssertExpectations(t)
	})

	t.Run("Single user notification", func(t *testing.T) {
		store := mocks.NewStore()
		store.Users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Email: "jane@example.com"}, nil)
		store.Notifications.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == 7 && n.Type == domain.NotificationSuccess
		})).Return(nil)

		msgs, err := NewDispatcher().Apply(ctx, store.Repositories(), []domain.Event{
			domain.NotificationRequested{UserID: 7, Title: "Booking Status Updated", Type: domain.NotificationSuccess, At: at},
		})
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "jane@example.com", msgs[0].Recipient.Email)
	})

	t.Run("Repository failure aborts", func(t *testing.T) {
		store := mocks.NewStore()
		store.Activities.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := NewDispatcher().Apply(ctx, store.Repositories(), []domain.Event{domain.ActivityRecorded{}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "record activity")
	})
}

func TestDispatcher_PublishSwallowsSinkErrors(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("broker unavailable")}
	ok := &recordingSink{name: "ok"}
	msgs := []Message{{Event: domain.BookingChanged{Booking: domain.Booking{ID: 1}}}}

	NewDispatcher(failing, ok).Publish(context.Background(), msgs)

	assert.Len(t, failing.got, 1)
	assert.Len(t, ok.got, 1)
}

func TestDispatcher_StartDeliversInBackground(t *testing.T) {
	sink := &recordingSink{name: "ok"}
	d := NewDispatcher(sink)
	d.Start(2, 8)

	for i := 1; i <= 5; i++ {
		d.Publish(context.Background(), []Message{
			{Event: domain.BookingChanged{Booking: domain.Booking{ID: int64(i)}}},
			{Event: domain.ActivityRecorded{}},
		})
	}
	require.NoError(t, d.Close())

	assert.Equal(t, 5, sink.batches)
	assert.Len(t, sink.got, 10)

	// After Close, publishing falls back to inline delivery.
	d.Publish(context.Background(), []Message{{Event: domain.ActivityRecorded{}}})
	assert.Equal(t, 6, sink.batches)
}

func TestDispatcher_PublishSkipsEmptyBatches(t *testing.T) {
	sink := &recordingSink{name: "ok"}
	NewDispatcher(sink).Publish(context.Background(), nil)
	assert.Equal(t, 0, sink.batches)
}

type fakeWriter struct {
	msgs  []kafka.Message
	calls int
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	w.calls++
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaSink_Deliver(t *testing.T) {
	w := &fakeWriter{}
	sink := &KafkaSink{writer: w, topicPrefix: "rental."}

	evt := domain.BookingChanged{Booking: domain.Booking{ID: 42}, From: domain.BookingStatusPending, To: domain.BookingStatusApproved, At: at}
	activity := domain.ActivityRecorded{Activity: domain.Activity{Entity: domain.EntityBooking, EntityID: "42", Timestamp: at}}
	require.NoError(t, sink.Deliver(context.Background(), []Message{{Event: evt}, {Event: activity}}))

	assert.Equal(t, 1, w.calls)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "rental.booking.status_changed", w.msgs[0].Topic)
	assert.Equal(t, "42", string(w.msgs[0].Key))
	assert.Equal(t, "booking:42", string(w.msgs[1].Key))

	var env map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &env))
	assert.Equal(t, "booking.status_changed", env["event"])

	require.NoError(t, sink.Deliver(context.Background(), nil))
	assert.Equal(t, 1, w.calls)
}

func TestNewKafkaSink_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaSink(nil, "")
	assert.Error(t, err)
}

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestEmailSink_Deliver(t *testing.T) {
	t.Run("Sends notification", func(t *testing.T) {
		d := &fakeDialer{}
		sink := &EmailSink{dialer: d, from: "noreply@rental.test"}
		msg := Message{
			Event:        domain.NotificationRequested{},
			Notification: &domain.Notification{Title: "Booking Status Updated", Message: "Your booking has been approved"},
			Recipient:    &domain.User{Name: "Jane", Email: "jane@example.com"},
		}

		second := msg
		second.Recipient = &domain.User{Name: "Sam", Email: "sam@example.com"}
		require.NoError(t, sink.Deliver(context.Background(), []Message{msg, second, {Event: domain.ActivityRecorded{}}}))
		require.Len(t, d.sent, 2)
		assert.Equal(t, []string{"sam@example.com"}, d.sent[1].GetHeader("To"))
		assert.Equal(t, []string{"jane@example.com"}, d.sent[0].GetHeader("To"))
		assert.Equal(t, []string{"Booking Status Updated"}, d.sent[0].GetHeader("Subject"))
	})

	t.Run("Skips non-notification events", func(t *testing.T) {
		d := &fakeDialer{}
		sink := &EmailSink{dialer: d}
		require.NoError(t, sink.Deliver(context.Background(), []Message{{Event: domain.ActivityRecorded{}}}))
		assert.Empty(t, d.sent)
	})

	t.Run("Wraps dial errors", func(t *testing.T) {
		d := &fakeDialer{err: errors.New("connection refused")}
		sink := &EmailSink{dialer: d}
		msg := Message{Notification: &domain.Notification{}, Recipient: &domain.User{Email: "a@b.c"}}
		err := sink.Deliver(context.Background(), []Message{msg})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "gomail")
	})
}
