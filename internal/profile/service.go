package profile

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"sync"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
)

// Interest score added per topic mention.
const interestScoreStep = 0.1

// lockStripes sizes the striped mutex pool guarding read-modify-write
// cycles per (user, chat) key.
const lockStripes = 64

// Service drives the profile write path: extract signals, classify gender,
// fold the message into the stored profile, and record the interest and
// interaction side effects. Updates to the same (user, chat) key are
// serialized; different keys proceed concurrently.
type Service struct {
	store     database.Store
	extractor *Extractor
	gender    *GenderClassifier
	logger    *slog.Logger
	locks     [lockStripes]sync.Mutex
}

// NewService builds a profile service over the given store and lexicon.
func NewService(store database.Store, lex *Lexicon, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Service{
		store:     store,
		extractor: NewExtractor(lex),
		gender:    NewGenderClassifier(lex),
		logger:    logger.With("component", "profile_service"),
	}
}

// HandleMessage folds one message into the sender's profile for the chat it
// was posted in. A profile is created lazily on the first text message; a
// non-text message from a user with no profile yet is skipped.
//
// Failures here must never block chat handling: callers are expected to log
// the returned error and move on.
func (s *Service) HandleMessage(ctx context.Context, msg *database.Message) error {
	if msg == nil {
		return fmt.Errorf("cannot process nil message")
	}
	if msg.UserID == 0 || msg.ChatID == 0 {
		return fmt.Errorf("message must have non-zero user_id and chat_id")
	}

	lock := &s.locks[stripeFor(msg.UserID, msg.ChatID)]
	lock.Lock()

	prior, err := s.store.GetProfile(ctx, msg.UserID, msg.ChatID)
	if err != nil {
		lock.Unlock()
		return fmt.Errorf("failed to load prior profile: %w", err)
	}
	if prior == nil && msg.Content == "" {
		lock.Unlock()
		s.logger.DebugContext(ctx, "Skipping non-text message for unknown user",
			"user_id", msg.UserID, "chat_id", msg.ChatID, "message_type", msg.MessageType)
		return nil
	}

	sig := s.extractor.Extract(msg.Content)

	var priorFemale, priorMale float64
	if prior != nil {
		priorFemale, priorMale = prior.FemaleScore, prior.MaleScore
	}
	gres := s.gender.Classify(msg.Content, priorFemale, priorMale, msg.FirstName, GenderThresholdIncremental)

	next := Apply(prior, UpdateInput{
		UserID:        msg.UserID,
		ChatID:        msg.ChatID,
		FirstName:     msg.FirstName,
		Username:      msg.Username,
		Signals:       sig,
		Gender:        gres,
		Timestamp:     msg.CreatedAt,
		MessageType:   msg.MessageType,
		ReplyToUserID: msg.ReplyToUserID,
	})

	if err := s.store.SaveProfile(ctx, next); err != nil {
		lock.Unlock()
		return fmt.Errorf("failed to save profile: %w", err)
	}
	lock.Unlock()

	s.recordSideEffects(ctx, msg, sig)

	s.logger.DebugContext(ctx, "Profile updated",
		"user_id", msg.UserID, "chat_id", msg.ChatID,
		"total_messages", next.TotalMessages, "sentiment", sig.SentimentLabel)
	return nil
}

// recordSideEffects upserts the interest rows for detected topics and the
// directed reply interaction. These sit outside the pure aggregation core
// and degrade to a log line on failure.
func (s *Service) recordSideEffects(ctx context.Context, msg *database.Message, sig SignalBundle) {
	for _, topic := range sig.Topics {
		if err := s.store.UpsertInterest(ctx, msg.UserID, msg.ChatID, topic, interestScoreStep); err != nil {
			s.logger.WarnContext(ctx, "Failed to upsert interest",
				"user_id", msg.UserID, "chat_id", msg.ChatID, "topic", topic, "error", err)
		}
	}

	if msg.ReplyToUserID != 0 && msg.ReplyToUserID != msg.UserID {
		if err := s.store.UpsertInteraction(ctx, msg.ChatID, msg.UserID, msg.ReplyToUserID, "reply", sig.Sentiment); err != nil {
			s.logger.WarnContext(ctx, "Failed to upsert interaction",
				"user_id", msg.UserID, "chat_id", msg.ChatID, "target_user_id", msg.ReplyToUserID, "error", err)
		}
	}
}

// AnalyzeGender runs the standalone gender analysis over a single text with
// the stricter analysis threshold and no accumulated scores.
func (s *Service) AnalyzeGender(text, name string) GenderResult {
	return s.gender.Classify(text, 0, 0, name, GenderThresholdAnalysis)
}

func stripeFor(userID, chatID int64) uint64 {
	h := fnv.New64a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(userID >> (8 * i))
		buf[8+i] = byte(chatID >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64() % lockStripes
}
