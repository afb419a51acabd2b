package handlers

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
)

// sendText sends a plain text message, logging the failure instead of
// propagating it. Chat handlers never fail the update over a send error.
func sendText(ctx context.Context, deps HandlerDeps, b *tgbot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// checkGameCooldown tests and arms the cooldown for one game action. When
// the action is still cooling down it notifies the user and returns false.
func checkGameCooldown(ctx context.Context, deps HandlerDeps, b *tgbot.Bot, msg *models.Message, action string, ttl time.Duration) bool {
	ok, remaining, err := deps.Cooldowns.Check(ctx, msg.From.ID, msg.Chat.ID, action, ttl)
	if err != nil {
		deps.Logger.ErrorContext(ctx, "Cooldown check failed", "action", action, "error", err)
		sendText(ctx, deps, b, msg.Chat.ID, deps.Config.Messages.GeneralError)
		return false
	}
	if !ok {
		sendText(ctx, deps, b, msg.Chat.ID, fmt.Sprintf(deps.Config.Messages.CooldownMsg, int(remaining.Seconds())+1))
		return false
	}
	return true
}

// inJail notifies the user and returns true when the player is locked up.
func inJail(ctx context.Context, deps HandlerDeps, b *tgbot.Bot, msg *models.Message, player *database.Player) bool {
	now := time.Now().Unix()
	if player.JailUntil <= now {
		return false
	}
	sendText(ctx, deps, b, msg.Chat.ID, fmt.Sprintf(deps.Config.Messages.JailMsg, player.JailUntil-now))
	return true
}

// messageRecord maps a Telegram message onto the stored message row.
func messageRecord(msg *models.Message) *database.Message {
	record := &database.Message{
		ChatID:      msg.Chat.ID,
		UserID:      msg.From.ID,
		Username:    msg.From.Username,
		FirstName:   msg.From.FirstName,
		Content:     msg.Text,
		MessageType: messageType(msg),
		CreatedAt:   time.Unix(int64(msg.Date), 0).UTC(),
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		record.ReplyToUserID = msg.ReplyToMessage.From.ID
	}
	return record
}

// chronological reverses a newest-first message slice in place so prompts
// read top to bottom in arrival order.
func chronological(messages []*database.Message) []*database.Message {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages
}

func messageType(msg *models.Message) string {
	switch {
	case msg.Voice != nil:
		return "voice"
	case msg.Sticker != nil:
		return "sticker"
	case len(msg.Photo) > 0:
		return "photo"
	case msg.Video != nil:
		return "video"
	default:
		return "text"
	}
}
