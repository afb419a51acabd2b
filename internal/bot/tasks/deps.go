// Package tasks implements the scheduled background tasks of the guild
// bot: database maintenance, message retention cleanup, and nightly
// profile rebuilds.
package tasks

import (
	"log/slog"

	"github.com/renatkhugaev-eng/guildbot/internal/config"
	"github.com/renatkhugaev-eng/guildbot/internal/database"
	"github.com/renatkhugaev-eng/guildbot/internal/profile"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger    *slog.Logger
	Store     database.Store
	Rebuilder *profile.Rebuilder
	Config    *config.Config
}
