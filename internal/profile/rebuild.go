package profile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
)

// RebuildStats summarizes one rebuild run. Errors holds one entry per
// failed unit (message, user, or chat); a failed unit never aborts the run.
type RebuildStats struct {
	UsersProcessed   int
	ProfilesCreated  int
	MessagesAnalyzed int
	Errors           []string
}

// Rebuilder reconstructs per-chat profiles by replaying the raw message log
// through the profile service. Because the service path is used, replay
// shares the same per-key serialization as live updates and may run
// alongside them.
type Rebuilder struct {
	store   database.Store
	service *Service
	logger  *slog.Logger
}

// NewRebuilder creates a rebuilder over the given store and service.
func NewRebuilder(store database.Store, service *Service, logger *slog.Logger) *Rebuilder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Rebuilder{
		store:   store,
		service: service,
		logger:  logger.With("component", "profile_rebuilder"),
	}
}

// RebuildChat resets and replays the profiles of every user who has posted
// text in the chat. Up to perUserLimit of each user's most recent messages
// are fetched, then replayed in ascending timestamp order: the cumulative
// means assume chronological replay, so the fetch order is sorted before
// feeding the aggregator.
func (r *Rebuilder) RebuildChat(ctx context.Context, chatID int64, perUserLimit int) (RebuildStats, error) {
	stats := RebuildStats{}
	if chatID == 0 {
		return stats, fmt.Errorf("chat_id cannot be zero")
	}

	r.logger.InfoContext(ctx, "Starting profile rebuild", "chat_id", chatID, "per_user_limit", perUserLimit)

	// Reset-and-replay: a partial replay over surviving state would corrupt
	// the cumulative means.
	if err := r.store.DeleteChatProfileData(ctx, chatID); err != nil {
		return stats, fmt.Errorf("failed to reset profile data for chat %d: %w", chatID, err)
	}

	userIDs, err := r.store.GetChatUserIDs(ctx, chatID)
	if err != nil {
		return stats, fmt.Errorf("failed to list users for chat %d: %w", chatID, err)
	}

	for _, userID := range userIDs {
		analyzed, created, userErrs := r.rebuildUser(ctx, chatID, userID, perUserLimit)
		stats.UsersProcessed++
		stats.MessagesAnalyzed += analyzed
		if created {
			stats.ProfilesCreated++
		}
		stats.Errors = append(stats.Errors, userErrs...)
	}

	r.logger.InfoContext(ctx, "Profile rebuild finished",
		"chat_id", chatID,
		"users", stats.UsersProcessed,
		"profiles", stats.ProfilesCreated,
		"messages", stats.MessagesAnalyzed,
		"errors", len(stats.Errors))
	return stats, nil
}

// rebuildUser replays one user's history. Per-message failures are counted
// and skipped so one bad message cannot sink the rest of the user's history.
func (r *Rebuilder) rebuildUser(ctx context.Context, chatID, userID int64, limit int) (analyzed int, created bool, errs []string) {
	messages, err := r.store.GetUserMessages(ctx, chatID, userID, limit)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to fetch user messages for rebuild",
			"chat_id", chatID, "user_id", userID, "error", err)
		return 0, false, []string{fmt.Sprintf("user %d: fetch failed: %v", userID, err)}
	}

	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	for _, msg := range messages {
		if err := r.service.HandleMessage(ctx, msg); err != nil {
			r.logger.WarnContext(ctx, "Failed to replay message",
				"chat_id", chatID, "user_id", userID, "message_id", msg.ID, "error", err)
			errs = append(errs, fmt.Sprintf("user %d message %d: %v", userID, msg.ID, err))
			continue
		}
		analyzed++
	}

	return analyzed, analyzed > 0, errs
}

// RebuildAll replays every chat present in the message log, accumulating
// global totals. A chat-level failure is recorded and skipped.
func (r *Rebuilder) RebuildAll(ctx context.Context, perUserLimit int) (RebuildStats, error) {
	total := RebuildStats{}

	chatIDs, err := r.store.GetChatIDs(ctx)
	if err != nil {
		return total, fmt.Errorf("failed to list chats: %w", err)
	}

	for _, chatID := range chatIDs {
		stats, err := r.RebuildChat(ctx, chatID, perUserLimit)
		if err != nil {
			r.logger.ErrorContext(ctx, "Chat rebuild failed, skipping", "chat_id", chatID, "error", err)
			total.Errors = append(total.Errors, fmt.Sprintf("chat %d: %v", chatID, err))
			continue
		}
		total.UsersProcessed += stats.UsersProcessed
		total.ProfilesCreated += stats.ProfilesCreated
		total.MessagesAnalyzed += stats.MessagesAnalyzed
		total.Errors = append(total.Errors, stats.Errors...)
	}

	r.logger.InfoContext(ctx, "Full rebuild finished",
		"chats", len(chatIDs),
		"users", total.UsersProcessed,
		"profiles", total.ProfilesCreated,
		"messages", total.MessagesAnalyzed,
		"errors", len(total.Errors))
	return total, nil
}
