package handlers

import (
	"context"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSummaryHandler returns the /summary handler producing an AI digest of
// the recent chat history.
func NewSummaryHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return summaryHandler{deps}.Handle
}

type summaryHandler struct {
	deps HandlerDeps
}

func (h summaryHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "summary")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	ttl := time.Duration(h.deps.Config.Game.RoastCooldownSeconds) * time.Second
	if !checkGameCooldown(ctx, h.deps, b, msg, "summary", ttl) {
		return
	}

	history, err := h.deps.Store.GetRecentMessagesInChat(ctx, msg.Chat.ID, h.deps.Config.Profile.SummaryMessageLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load chat history", "error", err, "chat_id", msg.Chat.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}
	if len(history) == 0 {
		sendText(ctx, h.deps, b, msg.Chat.ID, "📭 Тут ещё нечего пересказывать.")
		return
	}

	summary, err := h.deps.GeminiClient.GenerateSummary(ctx, chronological(history))
	if err != nil {
		log.ErrorContext(ctx, "Summary generation failed", "error", err, "chat_id", msg.Chat.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	sendText(ctx, h.deps, b, msg.Chat.ID, "📰 Сводка с района:\n\n"+summary)
}
