package handlers

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/renatkhugaev-eng/guildbot/internal/config"
	"github.com/renatkhugaev-eng/guildbot/internal/database"
	"github.com/renatkhugaev-eng/guildbot/internal/game"
	"github.com/renatkhugaev-eng/guildbot/internal/gemini"
	"github.com/renatkhugaev-eng/guildbot/internal/profile"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	GeminiClient gemini.Client
	Profiles     *profile.Service
	Rebuilder    *profile.Rebuilder
	Formatter    *profile.Formatter
	Cooldowns    game.Cooldowns
}

// newRNG returns a fresh rand source for one command invocation. Handlers
// run concurrently, so a shared *rand.Rand would need locking.
func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
