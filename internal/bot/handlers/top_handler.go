package handlers

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/renatkhugaev-eng/guildbot/internal/game"
)

const topPlayersLimit = 10

// NewTopHandler returns the /top handler showing the chat leaderboard.
func NewTopHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return topHandler{deps}.Handle
}

type topHandler struct {
	deps HandlerDeps
}

func (h topHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "top")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	players, err := h.deps.Store.GetTopPlayers(ctx, msg.Chat.ID, topPlayersLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load top players", "error", err, "chat_id", msg.Chat.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	text := game.FormatTopPlayers(players)

	treasury, err := h.deps.Store.GetTreasury(ctx, msg.Chat.ID)
	if err != nil {
		log.WarnContext(ctx, "Failed to load treasury", "error", err, "chat_id", msg.Chat.ID)
	} else if treasury > 0 {
		text += fmt.Sprintf("\n\n🏦 Общак района: %d лавэ", treasury)
	}

	sendText(ctx, h.deps, b, msg.Chat.ID, text)
}
