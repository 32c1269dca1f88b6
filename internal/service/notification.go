package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/security"
)

type SendNotificationInput struct {
	UserID  int64
	Title   string
	Message string
	Type    domain.NotificationType
}

type notificationService struct {
	Deps
}

func NewNotificationService(deps Deps) NotificationService {
	return &notificationService{Deps: deps}
}

func (s *notificationService) List(ctx context.Context, userID int64, filter domain.NotificationFilter, page domain.Page) (domain.PageResult[domain.Notification], error) {
	notes, total, err := s.Repos.Notifications.List(ctx, userID, filter, page)
	if err != nil {
		return domain.PageResult[domain.Notification]{}, err
	}
	return domain.NewPageResult(notes, total, page), nil
}

func (s *notificationService) Get(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	return s.Repos.Notifications.GetByID(ctx, id, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	if err := s.Repos.Notifications.MarkAsRead(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.Repos.Notifications.GetByID(ctx, id, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.Repos.Notifications.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.Repos.Notifications.UnreadCount(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID, id int64) error {
	return s.Repos.Notifications.Delete(ctx, id, userID)
}

// Send notifies one user on behalf of staff. The notification goes through the
// dispatcher so the e-mail and broker sinks see it too.
func (s *notificationService) Send(ctx context.Context, actor *domain.User, in SendNotificationInput) (*domain.Notification, error) {
	if err := s.Policy.Authorize(actor, security.CapSendNotifications); err != nil {
		return nil, err
	}
	if !in.Type.IsValid() {
		return nil, domain.NewValidationError("type", "The selected type is invalid.")
	}

	msgs, err := s.inTxMessages(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		if _, err := repos.Users.GetByID(ctx, in.UserID); err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				return nil, domain.NewValidationError("user_id", "The selected user id is invalid.")
			}
			return nil, err
		}
		return []domain.Event{domain.NotificationRequested{
			UserID:  in.UserID,
			Title:   strings.TrimSpace(in.Title),
			Message: strings.TrimSpace(in.Message),
			Type:    in.Type,
			At:      s.now(),
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		if m.Notification != nil {
			return m.Notification, nil
		}
	}
	return nil, fmt.Errorf("notification for user %d was not created", in.UserID)
}
