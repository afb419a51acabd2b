package handlers

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewRebuildHandler returns the admin-only /rebuild command that resets and
// replays every profile in the current chat from the stored message log.
func NewRebuildHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return rebuildHandler{deps}.Handle
}

type rebuildHandler struct {
	deps HandlerDeps
}

func (h rebuildHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "rebuild")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	sendText(ctx, h.deps, b, msg.Chat.ID, "🔄 Пересобираю досье всего чата...")

	stats, err := h.deps.Rebuilder.RebuildChat(ctx, msg.Chat.ID, h.deps.Config.Profile.RebuildPerUserLimit)
	if err != nil {
		log.ErrorContext(ctx, "Chat rebuild failed", "error", err, "chat_id", msg.Chat.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	sendText(ctx, h.deps, b, msg.Chat.ID, fmt.Sprintf(
		"✅ Готово: %d участников, %d досье, %d сообщений, %d ошибок.",
		stats.UsersProcessed, stats.ProfilesCreated, stats.MessagesAnalyzed, len(stats.Errors)))
}
