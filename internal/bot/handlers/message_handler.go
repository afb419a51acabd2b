package handlers

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// recentReplyContext caps how much history is handed to reply generation.
const recentReplyContext = 50

// NewMessageHandler returns the default handler that runs for every
// non-command message: it persists the message, folds it into the sender's
// behavioral profile, and answers when the bot is addressed directly.
func NewMessageHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	record := messageRecord(msg)
	if err := h.deps.Store.SaveMessage(ctx, record); err != nil {
		log.ErrorContext(ctx, "Failed to save message", "error", err, "chat_id", record.ChatID)
	}

	// Profiling failures degrade to a log line; the chat is never blocked.
	if err := h.deps.Profiles.HandleMessage(ctx, record); err != nil {
		log.WarnContext(ctx, "Profile update failed", "error", err,
			"chat_id", record.ChatID, "user_id", record.UserID)
	}

	if h.isAddressedToBot(msg) {
		h.reply(ctx, b, msg)
	}
}

// isAddressedToBot reports whether the message mentions the bot by username
// or replies to one of its messages.
func (h messageHandler) isAddressedToBot(msg *models.Message) bool {
	info := h.deps.Config.Telegram.BotInfo
	if info == nil {
		return false
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil && msg.ReplyToMessage.From.ID == info.ID {
		return true
	}
	return info.Username != "" && strings.Contains(strings.ToLower(msg.Text), "@"+strings.ToLower(info.Username))
}

func (h messageHandler) reply(ctx context.Context, b *tgbot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "message")
	info := h.deps.Config.Telegram.BotInfo

	history, err := h.deps.Store.GetRecentMessagesInChat(ctx, msg.Chat.ID, recentReplyContext)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load chat history for reply", "error", err, "chat_id", msg.Chat.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	reply, err := h.deps.GeminiClient.GenerateReply(ctx, chronological(history), info.ID, info.Username, info.FirstName)
	if err != nil {
		log.ErrorContext(ctx, "Reply generation failed", "error", err, "chat_id", msg.Chat.ID)
		sendText(ctx, h.deps, b, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	_, err = b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            reply,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", msg.Chat.ID)
	}
}
