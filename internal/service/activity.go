package service

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/security"
)

// recentActivityDays bounds activity listings that carry no date filter.
const recentActivityDays = 30

type activityService struct {
	Deps
}

func NewActivityService(deps Deps) ActivityService {
	return &activityService{Deps: deps}
}

// List pages activities, newest first. Users without the view-all capability
// only see their own. Without a date filter only the last 30 days are shown.
func (s *activityService) List(ctx context.Context, actor *domain.User, filter domain.ActivityFilter, page domain.Page) (domain.PageResult[domain.Activity], error) {
	if !s.Policy.Can(actor, security.CapViewAllActivities) {
		filter.UserID = actor.ID
	}
	if filter.From == nil && filter.To == nil {
		since := s.now().AddDate(0, 0, -recentActivityDays)
		filter.From = &since
	}
	return s.list(ctx, filter, page)
}

func (s *activityService) list(ctx context.Context, filter domain.ActivityFilter, page domain.Page) (domain.PageResult[domain.Activity], error) {
	activities, total, err := s.Repos.Activities.List(ctx, filter, page)
	if err != nil {
		return domain.PageResult[domain.Activity]{}, err
	}
	return domain.NewPageResult(activities, total, page), nil
}

func (s *activityService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Activity, error) {
	a, err := s.Repos.Activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Policy.CanAccessOwned(actor, a.UserID, security.CapViewAllActivities) {
		return nil, domain.ErrUnauthorized
	}
	return a, nil
}

// ByEntity is the audit trail of one record. Users without the view-all
// capability see only their own entries in it.
func (s *activityService) ByEntity(ctx context.Context, actor *domain.User, entity, entityID string, page domain.Page) (domain.PageResult[domain.Activity], error) {
	filter := domain.ActivityFilter{Entity: entity, EntityID: entityID}
	if !s.Policy.Can(actor, security.CapViewAllActivities) {
		filter.UserID = actor.ID
	}
	return s.list(ctx, filter, page)
}

func (s *activityService) ByUser(ctx context.Context, actor *domain.User, userID int64, page domain.Page) (domain.PageResult[domain.Activity], error) {
	if !s.Policy.CanAccessOwned(actor, userID, security.CapViewAllActivities) {
		return domain.PageResult[domain.Activity]{}, domain.ErrUnauthorized
	}
	return s.list(ctx, domain.ActivityFilter{UserID: userID}, page)
}
