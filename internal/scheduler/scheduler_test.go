package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/jobs"
	"vehicle-rental-backend/internal/repository/mocks"
)

func schedulerConfig() *config.Config {
	return &config.Config{Scheduler: config.SchedulerConfig{
		PurgeActivities:      "0 0 2 * * *",
		PurgeNotifications:   "0 30 2 * * *",
		DailyRevenueSnapshot: "0 0 1 * * *",
	}}
}

func TestNewScheduler(t *testing.T) {
	runner := jobs.NewJobRunner(mocks.NewStore().Repositories(), nil, schedulerConfig())
	s, err := NewScheduler(runner)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Entries())
}

func TestNewScheduler_BadSpec(t *testing.T) {
	cfg := schedulerConfig()
	cfg.Scheduler.PurgeActivities = "every night"

	_, err := NewScheduler(jobs.NewJobRunner(mocks.NewStore().Repositories(), nil, cfg))
	assert.Error(t, err)
}
