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

// treasuryCutPercent of every crime reward goes to the chat treasury.
const treasuryCutPercent = 10

// NewCrimeHandler returns the /crime handler. Without an argument it lists
// the crime catalog; with a 1-based index it attempts that crime.
func NewCrimeHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return crimeHandler{deps}.Handle
}

type crimeHandler struct {
	deps HandlerDeps
}

func (h crimeHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "crime")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	fields := strings.Fields(msg.Text)
	if len(fields) < 2 {
		sendText(ctx, h.deps, b, msg.Chat.ID, crimeCatalog())
		return
	}

	index, err := strconv.Atoi(fields[1])
	crime := game.CrimeByIndex(index - 1)
	if err != nil || crime == nil {
		sendText(ctx, h.deps, b, msg.Chat.ID, "Нет такого дела. Смотри список: /crime")
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

	action := fmt.Sprintf("crime_%d", index-1)
	if !checkGameCooldown(ctx, h.deps, b, msg, action, time.Duration(crime.CooldownSeconds)*time.Second) {
		return
	}

	rng := newRNG()
	if game.CrimeSucceeds(rng, crime, player.Experience) {
		reward := game.CrimeReward(rng, crime, player.Experience)
		cut := reward * treasuryCutPercent / 100

		deltas := []database.PlayerDelta{
			{Field: database.PlayerBalance, Op: database.DeltaAdd, Value: reward - cut},
			{Field: database.PlayerExperience, Op: database.DeltaAdd, Value: crime.ExpSuccess},
			{Field: database.PlayerCrimesSuccess, Op: database.DeltaAdd, Value: 1},
		}
		if err := h.deps.Store.ApplyPlayerDeltas(ctx, msg.From.ID, msg.Chat.ID, deltas); err != nil {
			log.ErrorContext(ctx, "Failed to apply crime reward", "error", err, "user_id", msg.From.ID)
			sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
			return
		}
		if err := h.deps.Store.AddToTreasury(ctx, msg.Chat.ID, cut); err != nil {
			log.WarnContext(ctx, "Failed to add treasury cut", "error", err, "chat_id", msg.Chat.ID)
		}

		text := fmt.Sprintf(game.CrimeMessage(rng, crime, true), reward-cut)
		text += fmt.Sprintf("\n⭐ +%d опыта | 🏦 %d в общак", crime.ExpSuccess, cut)
		sendText(ctx, h.deps, b, msg.Chat.ID, text)
		return
	}

	jailUntil := time.Now().Add(time.Duration(h.deps.Config.Game.JailSeconds) * time.Second).Unix()
	deltas := []database.PlayerDelta{
		{Field: database.PlayerExperience, Op: database.DeltaAdd, Value: crime.ExpFail},
		{Field: database.PlayerCrimesFailed, Op: database.DeltaAdd, Value: 1},
		{Field: database.PlayerJailUntil, Op: database.DeltaSet, Value: jailUntil},
	}
	if err := h.deps.Store.ApplyPlayerDeltas(ctx, msg.From.ID, msg.Chat.ID, deltas); err != nil {
		log.ErrorContext(ctx, "Failed to apply crime failure", "error", err, "user_id", msg.From.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	text := game.CrimeMessage(rng, crime, false)
	text += fmt.Sprintf("\n⛓️ Тюрьма на %d сек | ⭐ +%d опыта за попытку", h.deps.Config.Game.JailSeconds, crime.ExpFail)
	sendText(ctx, h.deps, b, msg.Chat.ID, text)
}

func crimeCatalog() string {
	var sb strings.Builder
	sb.WriteString("🔫 Выбирай дело: /crime <номер>\n\n")
	for i, c := range game.Crimes() {
		fmt.Fprintf(&sb, "%d. %s %s\n💰 %d-%d | 🎯 %d%% | ⏰ КД %dс\n\n",
			i+1, c.Emoji, c.Name, c.MinReward, c.MaxReward, c.SuccessRate, c.CooldownSeconds)
	}
	return strings.TrimRight(sb.String(), "\n")
}
