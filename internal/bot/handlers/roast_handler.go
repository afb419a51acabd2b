package handlers

import (
	"context"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewRoastHandler returns the /roast handler: an AI roast built from the
// target's behavioral dossier. Reply to roast someone else, bare command to
// roast yourself.
func NewRoastHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return roastHandler{deps}.Handle
}

type roastHandler struct {
	deps HandlerDeps
}

func (h roastHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "roast")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	target := msg.From
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil && !msg.ReplyToMessage.From.IsBot {
		target = msg.ReplyToMessage.From
	}

	ttl := time.Duration(h.deps.Config.Game.RoastCooldownSeconds) * time.Second
	if !checkGameCooldown(ctx, h.deps, b, msg, "roast", ttl) {
		return
	}

	prof, err := h.deps.Store.GetProfile(ctx, target.ID, msg.Chat.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load profile", "error", err, "user_id", target.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}
	if prof == nil {
		sendText(ctx, h.deps, b, msg.Chat.ID, "🤷 Про этого кадра ещё ничего не известно. Пусть сначала попишет.")
		return
	}

	interests, err := h.deps.Store.GetInterests(ctx, target.ID, msg.Chat.ID)
	if err != nil {
		log.WarnContext(ctx, "Failed to load interests", "error", err, "user_id", target.ID)
	}

	dossier := h.deps.Formatter.Format(prof, interests)
	roast, err := h.deps.GeminiClient.GenerateRoast(ctx, dossier.Description)
	if err != nil {
		log.ErrorContext(ctx, "Roast generation failed", "error", err, "user_id", target.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	sendText(ctx, h.deps, b, msg.Chat.ID, "🔥 "+roast)
}
