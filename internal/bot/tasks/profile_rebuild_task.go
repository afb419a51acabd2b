package tasks

import (
	"context"
	"fmt"
)

// newProfileRebuildTask creates the scheduled task that replays every
// chat's message log through the profile pipeline. Normally disabled in
// config; enabled after lexicon upgrades so old messages are rescored.
func newProfileRebuildTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "profile_rebuild")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting full profile rebuild task...")

		stats, err := deps.Rebuilder.RebuildAll(ctx, deps.Config.Profile.RebuildPerUserLimit)
		if err != nil {
			log.ErrorContext(ctx, "Profile rebuild task failed", "error", err)
			return fmt.Errorf("profile rebuild failed: %w", err)
		}

		log.InfoContext(ctx, "Profile rebuild task completed",
			"users", stats.UsersProcessed,
			"profiles", stats.ProfilesCreated,
			"messages", stats.MessagesAnalyzed,
			"errors", len(stats.Errors))
		return nil
	}
}
