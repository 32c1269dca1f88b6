package jobs

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
)

// SnapshotDailyRevenue stores yesterday's revenue report on behalf of the
// configured owner. It is skipped when no owner is configured.
func (jr *JobRunner) SnapshotDailyRevenue() {
	jr.runWithRecovery("SnapshotDailyRevenue", func() {
		ownerID := jr.config.Scheduler.SnapshotOwnerUserID
		if ownerID == 0 {
			logger.Warn("Skipping revenue snapshot, no snapshot owner configured")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		yesterday := domain.Day(jr.now()).AddDate(0, 0, -1)
		rp, err := jr.reports.Snapshot(ctx, ownerID, yesterday)
		if err != nil {
			logger.Error("Failed to store revenue snapshot", "day", yesterday.Format(domain.DateLayout), "error", err)
			return
		}
		logger.Info("Stored revenue snapshot", "report_id", rp.ID, "day", yesterday.Format(domain.DateLayout))
	})
}
