package handlers

import (
	"context"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/renatkhugaev-eng/guildbot/internal/game"
)

// NewProfileHandler returns the /profile handler: the criminal dossier card
// plus the behavioral description built from the stored profile.
func NewProfileHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return profileHandler{deps}.Handle
}

type profileHandler struct {
	deps HandlerDeps
}

func (h profileHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "profile")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	// A reply targets the replied-to user, otherwise the sender.
	target := msg.From
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil && !msg.ReplyToMessage.From.IsBot {
		target = msg.ReplyToMessage.From
	}

	player, err := h.deps.Store.GetOrCreatePlayer(ctx, target.ID, msg.Chat.ID, target.Username, target.FirstName)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load player", "error", err, "user_id", target.ID, "chat_id", msg.Chat.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	text := game.FormatPlayerCard(player, time.Now())

	prof, err := h.deps.Store.GetProfile(ctx, target.ID, msg.Chat.ID)
	if err != nil {
		log.WarnContext(ctx, "Failed to load behavioral profile", "error", err, "user_id", target.ID)
	} else if prof != nil {
		interests, err := h.deps.Store.GetInterests(ctx, target.ID, msg.Chat.ID)
		if err != nil {
			log.WarnContext(ctx, "Failed to load interests", "error", err, "user_id", target.ID)
		}
		dossier := h.deps.Formatter.Format(prof, interests)
		text += "\n\n🔍 Наблюдения:\n" + dossier.Description
	}

	sendText(ctx, h.deps, b, msg.Chat.ID, text)
}
