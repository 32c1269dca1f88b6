package jobs

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/logger"
)

const jobTimeout = 5 * time.Minute

// PurgeActivities deletes audit entries older than the activity retention window
func (jr *JobRunner) PurgeActivities() {
	jr.runWithRecovery("PurgeActivities", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		cutoff := jr.now().UTC().AddDate(0, 0, -jr.config.Retention.ActivityDays)
		n, err := jr.repos.Activities.PurgeBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to purge activities", "cutoff", cutoff, "error", err)
			return
		}
		logger.Info("Purged activities", "cutoff", cutoff, "count", n)
	})
}

// PurgeNotifications deletes read notifications older than the notification
// retention window. Unread ones are kept regardless of age.
func (jr *JobRunner) PurgeNotifications() {
	jr.runWithRecovery("PurgeNotifications", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		cutoff := jr.now().UTC().AddDate(0, 0, -jr.config.Retention.NotificationDays)
		n, err := jr.repos.Notifications.PurgeReadBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to purge notifications", "cutoff", cutoff, "error", err)
			return
		}
		logger.Info("Purged read notifications", "cutoff", cutoff, "count", n)
	})
}
