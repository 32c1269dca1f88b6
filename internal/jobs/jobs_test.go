package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository/mocks"
	"vehicle-rental-backend/internal/service"
)

var jobNow = time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)

type fakeReports struct {
	service.ReportService
	owner int64
	day   time.Time
	err   error
	calls int
}

func (f *fakeReports) Snapshot(ctx context.Context, ownerID int64, day time.Time) (*domain.Report, error) {
	f.calls++
	f.owner, f.day = ownerID, day
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Report{ID: 3}, nil
}

func newRunner(store *mocks.Store, reports service.ReportService, cfg *config.Config) *JobRunner {
	jr := NewJobRunner(store.Repositories(), reports, cfg)
	jr.now = func() time.Time { return jobNow }
	return jr
}

func testConfig() *config.Config {
	return &config.Config{
		Retention: config.RetentionConfig{ActivityDays: 365, NotificationDays: 90},
		Scheduler: config.SchedulerConfig{SnapshotOwnerUserID: 1},
	}
}

func TestPurgeActivities(t *testing.T) {
	store := mocks.NewStore()
	store.Activities.On("PurgeBefore", mock.Anything, jobNow.AddDate(0, 0, -365)).Return(int64(12), nil)

	newRunner(store, &fakeReports{}, testConfig()).PurgeActivities()
	store.Activities.AssertExpectations(t)
}

func TestPurgeNotifications(t *testing.T) {
	store := mocks.NewStore()
	store.Notifications.On("PurgeReadBefore", mock.Anything, jobNow.AddDate(0, 0, -90)).Return(int64(0), errors.New("db down"))

	// Failures are logged, never propagated.
	assert.NotPanics(t, newRunner(store, &fakeReports{}, testConfig()).PurgeNotifications)
	store.Notifications.AssertExpectations(t)
}

func TestSnapshotDailyRevenue(t *testing.T) {
	t.Run("Snapshots yesterday", func(t *testing.T) {
		reports := &fakeReports{}
		newRunner(mocks.NewStore(), reports, testConfig()).SnapshotDailyRevenue()

		assert.Equal(t, 1, reports.calls)
		assert.Equal(t, int64(1), reports.owner)
		assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), reports.day)
	})

	t.Run("Skipped without owner", func(t *testing.T) {
		cfg := testConfig()
		cfg.Scheduler.SnapshotOwnerUserID = 0
		reports := &fakeReports{}
		newRunner(mocks.NewStore(), reports, cfg).SnapshotDailyRevenue()
		assert.Zero(t, reports.calls)
	})

	t.Run("Errors are contained", func(t *testing.T) {
		reports := &fakeReports{err: errors.New("boom")}
		assert.NotPanics(t, newRunner(mocks.NewStore(), reports, testConfig()).SnapshotDailyRevenue)
	})
}

func TestRunWithRecovery(t *testing.T) {
	jr := newRunner(mocks.NewStore(), &fakeReports{}, testConfig())
	assert.NotPanics(t, func() {
		jr.runWithRecovery("explodes", func() { panic("kaboom") })
	})
}
