package tasks

import (
	"context"
	"fmt"
	"time"
)

// newCleanupTask creates the scheduled task that prunes chat messages
// older than the configured retention window. Profiles survive cleanup:
// they are cumulative and do not depend on the raw log except for
// rebuilds.
func newCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "cleanup")

	return func(ctx context.Context) error {
		retention := time.Duration(deps.Config.Profile.RetentionDays) * 24 * time.Hour
		cutoff := time.Now().UTC().Add(-retention)

		log.InfoContext(ctx, "Starting message cleanup task...", "cutoff", cutoff)

		deleted, err := deps.Store.DeleteOldMessages(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Message cleanup task failed", "error", err)
			return fmt.Errorf("message cleanup failed: %w", err)
		}

		log.InfoContext(ctx, "Message cleanup task completed", "deleted", deleted)
		return nil
	}
}
