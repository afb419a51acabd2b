package handlers

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
	"github.com/renatkhugaev-eng/guildbot/internal/game"
)

// NewAttackHandler returns the /attack handler. The command must be sent as
// a reply to the victim's message.
func NewAttackHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return attackHandler{deps}.Handle
}

type attackHandler struct {
	deps HandlerDeps
}

func (h attackHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "attack")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil || msg.ReplyToMessage.From.IsBot {
		sendText(ctx, h.deps, b, msg.Chat.ID, "⚔️ Наезд делается реплаем на сообщение жертвы!")
		return
	}
	victim := msg.ReplyToMessage.From
	if victim.ID == msg.From.ID {
		sendText(ctx, h.deps, b, msg.Chat.ID, "🤡 Наехать на самого себя? Сильно.")
		return
	}

	attacker, err := h.deps.Store.GetOrCreatePlayer(ctx, msg.From.ID, msg.Chat.ID, msg.From.Username, msg.From.FirstName)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load attacker", "error", err, "user_id", msg.From.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}
	if inJail(ctx, h.deps, b, msg, attacker) {
		return
	}

	victimPlayer, err := h.deps.Store.GetOrCreatePlayer(ctx, victim.ID, msg.Chat.ID, victim.Username, victim.FirstName)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load victim", "error", err, "user_id", victim.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	ttl := time.Duration(h.deps.Config.Game.AttackCooldownSeconds) * time.Second
	if !checkGameCooldown(ctx, h.deps, b, msg, "attack", ttl) {
		return
	}

	attackerName := displayName(msg.From.FirstName)
	victimName := displayName(victim.FirstName)

	rng := newRNG()
	if !game.AttackSucceeds(rng, attacker.Experience, victimPlayer.Experience) {
		deltas := []database.PlayerDelta{
			{Field: database.PlayerExperience, Op: database.DeltaAdd, Value: game.ExpAttackLose},
		}
		if err := h.deps.Store.ApplyPlayerDeltas(ctx, msg.From.ID, msg.Chat.ID, deltas); err != nil {
			log.ErrorContext(ctx, "Failed to apply attack loss", "error", err, "user_id", msg.From.ID)
		}
		sendText(ctx, h.deps, b, msg.Chat.ID,
			fmt.Sprintf(game.AttackMessage(rng, false, true), attackerName, victimName))
		return
	}

	stolen := game.StealAmount(rng, victimPlayer.Balance)
	if stolen == 0 {
		sendText(ctx, h.deps, b, msg.Chat.ID,
			fmt.Sprintf(game.AttackMessage(rng, true, false), attackerName, victimName))
		return
	}

	winDeltas := []database.PlayerDelta{
		{Field: database.PlayerBalance, Op: database.DeltaAdd, Value: stolen},
		{Field: database.PlayerExperience, Op: database.DeltaAdd, Value: game.ExpAttackWin},
	}
	if err := h.deps.Store.ApplyPlayerDeltas(ctx, msg.From.ID, msg.Chat.ID, winDeltas); err != nil {
		log.ErrorContext(ctx, "Failed to credit attacker", "error", err, "user_id", msg.From.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}
	loseDeltas := []database.PlayerDelta{
		{Field: database.PlayerBalance, Op: database.DeltaAdd, Value: -stolen},
	}
	if err := h.deps.Store.ApplyPlayerDeltas(ctx, victim.ID, msg.Chat.ID, loseDeltas); err != nil {
		log.ErrorContext(ctx, "Failed to debit victim", "error", err, "user_id", victim.ID)
	}

	sendText(ctx, h.deps, b, msg.Chat.ID,
		fmt.Sprintf(game.AttackMessage(rng, true, true), attackerName, victimName, stolen))
}

func displayName(firstName string) string {
	if firstName == "" {
		return "Аноним"
	}
	return firstName
}
