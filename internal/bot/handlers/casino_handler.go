package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
	"github.com/renatkhugaev-eng/guildbot/internal/game"
)

const (
	minStake = 10
	maxStake = 1000
)

// NewCasinoHandler returns the /casino handler: a slot machine spin with a
// stake from the player's balance. Lost stakes go to the chat treasury.
func NewCasinoHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return casinoHandler{deps}.Handle
}

type casinoHandler struct {
	deps HandlerDeps
}

func (h casinoHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "casino")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	fields := strings.Fields(msg.Text)
	if len(fields) < 2 {
		sendText(ctx, h.deps, b, msg.Chat.ID,
			fmt.Sprintf("🎰 Ставка: /casino <сумма> (от %d до %d)", minStake, maxStake))
		return
	}
	stake, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || stake < minStake || stake > maxStake {
		sendText(ctx, h.deps, b, msg.Chat.ID,
			fmt.Sprintf("Ставка от %d до %d лавэ.", minStake, maxStake))
		return
	}

	player, err := h.deps.Store.GetOrCreatePlayer(ctx, msg.From.ID, msg.Chat.ID, msg.From.Username, msg.From.FirstName)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load player", "error", err, "user_id", msg.From.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}
	if inJail(ctx, h.deps, b, msg, player) {
		return
	}
	if player.Balance < stake {
		sendText(ctx, h.deps, b, msg.Chat.ID, "💸 Не хватает лавэ на такую ставку!")
		return
	}

	ttl := time.Duration(h.deps.Config.Game.CasinoCooldownSeconds) * time.Second
	if !checkGameCooldown(ctx, h.deps, b, msg, "casino", ttl) {
		return
	}

	rng := newRNG()
	spin := game.Spin(rng)
	payout := game.Payout(stake, spin)

	deltas := []database.PlayerDelta{
		{Field: database.PlayerBalance, Op: database.DeltaAdd, Value: payout},
	}
	if err := h.deps.Store.ApplyPlayerDeltas(ctx, msg.From.ID, msg.Chat.ID, deltas); err != nil {
		log.ErrorContext(ctx, "Failed to apply casino payout", "error", err, "user_id", msg.From.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	text := fmt.Sprintf("🎰 %s %s %s\n", spin.Symbols[0], spin.Symbols[1], spin.Symbols[2])
	switch {
	case spin.Jackpot:
		text += fmt.Sprintf("💥 ДЖЕКПОТ! +%d лавэ!", payout)
	case payout > 0:
		text += fmt.Sprintf("🎉 Выигрыш! +%d лавэ!", payout)
	default:
		text += fmt.Sprintf("💀 Мимо. -%d лавэ.", stake)
		if err := h.deps.Store.AddToTreasury(ctx, msg.Chat.ID, stake); err != nil {
			log.WarnContext(ctx, "Failed to add stake to treasury", "error", err, "chat_id", msg.Chat.ID)
		}
	}
	sendText(ctx, h.deps, b, msg.Chat.ID, text)
}
