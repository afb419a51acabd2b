package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// PlayerField enumerates the player columns that may be changed through
// ApplyPlayerDeltas. Keeping this a closed set means stat updates never
// build SQL from caller-supplied field names.
type PlayerField string

const (
	PlayerBalance       PlayerField = "balance"
	PlayerExperience    PlayerField = "experience"
	PlayerCrimesSuccess PlayerField = "crimes_success"
	PlayerCrimesFailed  PlayerField = "crimes_failed"
	PlayerJailUntil     PlayerField = "jail_until"
)

// DeltaOp selects how a PlayerDelta is applied.
type DeltaOp int

const (
	DeltaAdd DeltaOp = iota
	DeltaSet
)

// PlayerDelta is one typed stat change for a player row.
type PlayerDelta struct {
	Field PlayerField
	Op    DeltaOp
	Value int64
}

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveMessage inserts a new message record.
	SaveMessage(ctx context.Context, message *Message) error

	// GetRecentMessagesInChat retrieves the most recent 'limit' messages for
	// a chat, newest first.
	GetRecentMessagesInChat(ctx context.Context, chatID int64, limit int) ([]*Message, error)

	// GetUserMessages retrieves up to 'limit' text messages of one user in a
	// chat, newest first. Used by the profile rebuilder.
	GetUserMessages(ctx context.Context, chatID, userID int64, limit int) ([]*Message, error)

	// GetChatUserIDs returns the distinct user IDs that have posted text
	// messages in a chat.
	GetChatUserIDs(ctx context.Context, chatID int64) ([]int64, error)

	// GetChatIDs returns every distinct chat ID present in the message log.
	GetChatIDs(ctx context.Context) ([]int64, error)

	// DeleteOldMessages removes messages created before the cutoff and
	// returns the number of rows deleted.
	DeleteOldMessages(ctx context.Context, before time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error

	// GetProfile retrieves the profile for a (user, chat) pair.
	// Returns nil, nil if not found.
	GetProfile(ctx context.Context, userID, chatID int64) (*Profile, error)

	// SaveProfile inserts or updates a profile, keyed by (user_id, chat_id).
	// The write runs in a transaction so the read-modify-write cycle of the
	// profile service is never interleaved with a concurrent writer.
	SaveProfile(ctx context.Context, profile *Profile) error

	// DeleteChatProfileData removes all profiles, interests, and interactions
	// for a chat. Used by the rebuilder's reset-and-replay pass.
	DeleteChatProfileData(ctx context.Context, chatID int64) error

	// GetInterests returns a user's interests in a chat, strongest first.
	GetInterests(ctx context.Context, userID, chatID int64) ([]*Interest, error)

	// UpsertInterest bumps a topic's score by scoreDelta and its message
	// count by one, creating the row when absent.
	UpsertInterest(ctx context.Context, userID, chatID int64, topic string, scoreDelta float64) error

	// UpsertInteraction increments the directed reply counter and folds the
	// message sentiment into the running sentiment_avg.
	UpsertInteraction(ctx context.Context, chatID, userID, targetUserID int64, interactionType string, sentiment float64) error

	// GetOrCreatePlayer fetches a player row, creating it with starting
	// balance when missing.
	GetOrCreatePlayer(ctx context.Context, userID, chatID int64, username, firstName string) (*Player, error)

	// ApplyPlayerDeltas applies typed stat changes to a player row.
	ApplyPlayerDeltas(ctx context.Context, userID, chatID int64, deltas []PlayerDelta) error

	// GetTopPlayers returns up to 'limit' players in a chat ordered by
	// experience.
	GetTopPlayers(ctx context.Context, chatID int64, limit int) ([]*Player, error)

	// AddToTreasury adds an amount to the chat treasury.
	AddToTreasury(ctx context.Context, chatID int64, amount int64) error

	// GetTreasury returns the chat treasury balance.
	GetTreasury(ctx context.Context, chatID int64) (int64, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.ChatID == 0 {
		return fmt.Errorf("message must have a non-zero chat_id")
	}
	if message.UserID == 0 {
		return fmt.Errorf("message must have a non-zero user_id")
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	if message.MessageType == "" {
		message.MessageType = "text"
	}

	query := `
        INSERT INTO chat_messages (chat_id, user_id, username, first_name, content, message_type, reply_to_user_id, created_at)
        VALUES (:chat_id, :user_id, :username, :first_name, :content, :message_type, :reply_to_user_id, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "chat_id", message.ChatID, "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to save message (chat %d, user %d): %w", message.ChatID, message.UserID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		message.ID = uint(id)
	}

	s.logger.DebugContext(ctx, "Message saved", "chat_id", message.ChatID, "user_id", message.UserID, "message_id", message.ID)
	return nil
}

func (s *sqlxStore) GetRecentMessagesInChat(ctx context.Context, chatID int64, limit int) ([]*Message, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if limit <= 0 {
		limit = 100
	}

	var messages []*Message
	query := `
        SELECT id, chat_id, user_id, username, first_name, content, message_type, reply_to_user_id, created_at
        FROM chat_messages
        WHERE chat_id = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &messages, query, chatID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent messages", "chat_id", chatID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent messages for chat %d: %w", chatID, err)
	}
	return messages, nil
}

func (s *sqlxStore) GetUserMessages(ctx context.Context, chatID, userID int64, limit int) ([]*Message, error) {
	if chatID == 0 || userID == 0 {
		return nil, fmt.Errorf("chat_id and user_id cannot be zero")
	}
	if limit <= 0 {
		limit = 1000
	}

	var messages []*Message
	query := `
        SELECT id, chat_id, user_id, username, first_name, content, message_type, reply_to_user_id, created_at
        FROM chat_messages
        WHERE chat_id = ? AND user_id = ? AND content != ''
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &messages, query, chatID, userID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting user messages", "chat_id", chatID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get messages for user %d in chat %d: %w", userID, chatID, err)
	}
	return messages, nil
}

func (s *sqlxStore) GetChatUserIDs(ctx context.Context, chatID int64) ([]int64, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}

	var ids []int64
	query := `SELECT DISTINCT user_id FROM chat_messages WHERE chat_id = ? AND content != ''`
	if err := s.db.SelectContext(ctx, &ids, query, chatID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting chat user IDs", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get user IDs for chat %d: %w", chatID, err)
	}
	return ids, nil
}

func (s *sqlxStore) GetChatIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	query := `SELECT DISTINCT chat_id FROM chat_messages`
	if err := s.db.SelectContext(ctx, &ids, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting chat IDs", "error", err)
		return nil, fmt.Errorf("failed to get chat IDs: %w", err)
	}
	return ids, nil
}

func (s *sqlxStore) DeleteOldMessages(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE created_at < ?`, before)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting old messages", "error", err)
		return 0, fmt.Errorf("failed to delete old messages: %w", err)
	}
	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted old messages", "count", count, "before", before)
	return count, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}
	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

// profileRow mirrors the user_profiles table: scalar columns plus TEXT JSON
// columns for the aggregate fields. Conversion to the structured Profile
// happens here and nowhere else.
type profileRow struct {
	Profile
	ActiveHoursJSON     string `db:"active_hours"`
	MoodByDayJSON       string `db:"mood_by_day"`
	MoodByHourJSON      string `db:"mood_by_hour"`
	FavoritePhrasesJSON string `db:"favorite_phrases"`
	FavoriteEmojisJSON  string `db:"favorite_emojis"`
	TriggerTopicsJSON   string `db:"trigger_topics"`
}

func (r *profileRow) toProfile() (*Profile, error) {
	p := r.Profile.Clone()
	if err := json.Unmarshal([]byte(orDefault(r.ActiveHoursJSON, "{}")), &p.ActiveHours); err != nil {
		return nil, fmt.Errorf("failed to decode active_hours: %w", err)
	}
	if err := json.Unmarshal([]byte(orDefault(r.MoodByDayJSON, "{}")), &p.MoodByDay); err != nil {
		return nil, fmt.Errorf("failed to decode mood_by_day: %w", err)
	}
	if err := json.Unmarshal([]byte(orDefault(r.MoodByHourJSON, "{}")), &p.MoodByHour); err != nil {
		return nil, fmt.Errorf("failed to decode mood_by_hour: %w", err)
	}
	if err := json.Unmarshal([]byte(orDefault(r.FavoritePhrasesJSON, "[]")), &p.FavoritePhrases); err != nil {
		return nil, fmt.Errorf("failed to decode favorite_phrases: %w", err)
	}
	if err := json.Unmarshal([]byte(orDefault(r.FavoriteEmojisJSON, "[]")), &p.FavoriteEmojis); err != nil {
		return nil, fmt.Errorf("failed to decode favorite_emojis: %w", err)
	}
	if err := json.Unmarshal([]byte(orDefault(r.TriggerTopicsJSON, "[]")), &p.TriggerTopics); err != nil {
		return nil, fmt.Errorf("failed to decode trigger_topics: %w", err)
	}
	return p, nil
}

func newProfileRow(p *Profile) (*profileRow, error) {
	row := &profileRow{Profile: *p}
	for _, f := range []struct {
		name string
		v    any
		dst  *string
	}{
		{"active_hours", p.ActiveHours, &row.ActiveHoursJSON},
		{"mood_by_day", p.MoodByDay, &row.MoodByDayJSON},
		{"mood_by_hour", p.MoodByHour, &row.MoodByHourJSON},
		{"favorite_phrases", p.FavoritePhrases, &row.FavoritePhrasesJSON},
		{"favorite_emojis", p.FavoriteEmojis, &row.FavoriteEmojisJSON},
		{"trigger_topics", p.TriggerTopics, &row.TriggerTopicsJSON},
	} {
		data, err := json.Marshal(f.v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", f.name, err)
		}
		*f.dst = string(data)
	}
	return row, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

const profileColumns = `id, user_id, chat_id, first_name, username, created_at, updated_at,
	total_messages, messages_as_reply, positive_messages, negative_messages, neutral_messages,
	sentiment_score, toxicity_score, humor_score, avg_message_length, emoji_usage_rate,
	caps_rate, mat_rate, slang_rate, typo_rate, question_rate, exclamation_rate,
	voice_rate, photo_rate, sticker_rate, video_rate, vocabulary_richness,
	female_score, male_score, detected_gender, gender_confidence,
	active_hours, mood_by_day, mood_by_hour, peak_hour,
	best_mood_day, worst_mood_day, best_mood_hour, worst_mood_hour, is_night_owl, is_early_bird,
	favorite_phrases, favorite_emojis, trigger_topics, activity_level, communication_style`

func (s *sqlxStore) GetProfile(ctx context.Context, userID, chatID int64) (*Profile, error) {
	if userID == 0 || chatID == 0 {
		return nil, fmt.Errorf("user_id and chat_id cannot be zero")
	}

	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = ? AND chat_id = ?`
	err := s.db.GetContext(ctx, &row, query, userID, chatID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting profile", "user_id", userID, "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get profile for user %d in chat %d: %w", userID, chatID, err)
	}
	return row.toProfile()
}

func (s *sqlxStore) SaveProfile(ctx context.Context, profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("cannot save nil profile")
	}
	if profile.UserID == 0 || profile.ChatID == 0 {
		return fmt.Errorf("profile must have non-zero user_id and chat_id")
	}

	now := time.Now().UTC()
	profile.UpdatedAt = now
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}

	row, err := newProfileRow(profile)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
		INSERT INTO user_profiles (
			user_id, chat_id, first_name, username, created_at, updated_at,
			total_messages, messages_as_reply, positive_messages, negative_messages, neutral_messages,
			sentiment_score, toxicity_score, humor_score, avg_message_length, emoji_usage_rate,
			caps_rate, mat_rate, slang_rate, typo_rate, question_rate, exclamation_rate,
			voice_rate, photo_rate, sticker_rate, video_rate, vocabulary_richness,
			female_score, male_score, detected_gender, gender_confidence,
			active_hours, mood_by_day, mood_by_hour, peak_hour,
			best_mood_day, worst_mood_day, best_mood_hour, worst_mood_hour, is_night_owl, is_early_bird,
			favorite_phrases, favorite_emojis, trigger_topics, activity_level, communication_style
		) VALUES (
			:user_id, :chat_id, :first_name, :username, :created_at, :updated_at,
			:total_messages, :messages_as_reply, :positive_messages, :negative_messages, :neutral_messages,
			:sentiment_score, :toxicity_score, :humor_score, :avg_message_length, :emoji_usage_rate,
			:caps_rate, :mat_rate, :slang_rate, :typo_rate, :question_rate, :exclamation_rate,
			:voice_rate, :photo_rate, :sticker_rate, :video_rate, :vocabulary_richness,
			:female_score, :male_score, :detected_gender, :gender_confidence,
			:active_hours, :mood_by_day, :mood_by_hour, :peak_hour,
			:best_mood_day, :worst_mood_day, :best_mood_hour, :worst_mood_hour, :is_night_owl, :is_early_bird,
			:favorite_phrases, :favorite_emojis, :trigger_topics, :activity_level, :communication_style
		)
		ON CONFLICT(user_id, chat_id) DO UPDATE SET
			first_name = excluded.first_name,
			username = excluded.username,
			updated_at = excluded.updated_at,
			total_messages = excluded.total_messages,
			messages_as_reply = excluded.messages_as_reply,
			positive_messages = excluded.positive_messages,
			negative_messages = excluded.negative_messages,
			neutral_messages = excluded.neutral_messages,
			sentiment_score = excluded.sentiment_score,
			toxicity_score = excluded.toxicity_score,
			humor_score = excluded.humor_score,
			avg_message_length = excluded.avg_message_length,
			emoji_usage_rate = excluded.emoji_usage_rate,
			caps_rate = excluded.caps_rate,
			mat_rate = excluded.mat_rate,
			slang_rate = excluded.slang_rate,
			typo_rate = excluded.typo_rate,
			question_rate = excluded.question_rate,
			exclamation_rate = excluded.exclamation_rate,
			voice_rate = excluded.voice_rate,
			photo_rate = excluded.photo_rate,
			sticker_rate = excluded.sticker_rate,
			video_rate = excluded.video_rate,
			vocabulary_richness = excluded.vocabulary_richness,
			female_score = excluded.female_score,
			male_score = excluded.male_score,
			detected_gender = excluded.detected_gender,
			gender_confidence = excluded.gender_confidence,
			active_hours = excluded.active_hours,
			mood_by_day = excluded.mood_by_day,
			mood_by_hour = excluded.mood_by_hour,
			peak_hour = excluded.peak_hour,
			best_mood_day = excluded.best_mood_day,
			worst_mood_day = excluded.worst_mood_day,
			best_mood_hour = excluded.best_mood_hour,
			worst_mood_hour = excluded.worst_mood_hour,
			is_night_owl = excluded.is_night_owl,
			is_early_bird = excluded.is_early_bird,
			favorite_phrases = excluded.favorite_phrases,
			favorite_emojis = excluded.favorite_emojis,
			trigger_topics = excluded.trigger_topics,
			activity_level = excluded.activity_level,
			communication_style = excluded.communication_style;
	`
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		s.logger.ErrorContext(ctx, "Error saving profile", "user_id", profile.UserID, "chat_id", profile.ChatID, "error", err)
		return fmt.Errorf("failed to save profile for user %d in chat %d: %w", profile.UserID, profile.ChatID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Profile saved", "user_id", profile.UserID, "chat_id", profile.ChatID, "total_messages", profile.TotalMessages)
	return nil
}

func (s *sqlxStore) DeleteChatProfileData(ctx context.Context, chatID int64) error {
	if chatID == 0 {
		return fmt.Errorf("chat_id cannot be zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	for _, query := range []string{
		`DELETE FROM user_profiles WHERE chat_id = ?`,
		`DELETE FROM user_interests WHERE chat_id = ?`,
		`DELETE FROM user_interactions WHERE chat_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, query, chatID); err != nil {
			s.logger.ErrorContext(ctx, "Error deleting chat profile data", "chat_id", chatID, "error", err)
			return fmt.Errorf("failed to delete profile data for chat %d: %w", chatID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Deleted chat profile data", "chat_id", chatID)
	return nil
}

func (s *sqlxStore) GetInterests(ctx context.Context, userID, chatID int64) ([]*Interest, error) {
	var interests []*Interest
	query := `
        SELECT id, user_id, chat_id, topic, score, message_count, updated_at
        FROM user_interests
        WHERE user_id = ? AND chat_id = ?
        ORDER BY score DESC, message_count DESC;
    `
	if err := s.db.SelectContext(ctx, &interests, query, userID, chatID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting interests", "user_id", userID, "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get interests for user %d in chat %d: %w", userID, chatID, err)
	}
	return interests, nil
}

func (s *sqlxStore) UpsertInterest(ctx context.Context, userID, chatID int64, topic string, scoreDelta float64) error {
	if topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}

	query := `
        INSERT INTO user_interests (user_id, chat_id, topic, score, message_count, updated_at)
        VALUES (?, ?, ?, ?, 1, ?)
        ON CONFLICT(user_id, chat_id, topic) DO UPDATE SET
            score = score + excluded.score,
            message_count = message_count + 1,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, query, userID, chatID, topic, scoreDelta, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting interest", "user_id", userID, "chat_id", chatID, "topic", topic, "error", err)
		return fmt.Errorf("failed to upsert interest %q for user %d in chat %d: %w", topic, userID, chatID, err)
	}
	return nil
}

func (s *sqlxStore) UpsertInteraction(ctx context.Context, chatID, userID, targetUserID int64, interactionType string, sentiment float64) error {
	if interactionType == "" {
		interactionType = "reply"
	}

	// The running mean is recomputed in SQL: column references on the right
	// side of DO UPDATE see the pre-update row values.
	query := `
        INSERT INTO user_interactions (chat_id, user_id, target_user_id, interaction_type, interaction_count, sentiment_avg, updated_at)
        VALUES (?, ?, ?, ?, 1, ?, ?)
        ON CONFLICT(chat_id, user_id, target_user_id, interaction_type) DO UPDATE SET
            sentiment_avg = (sentiment_avg * interaction_count + excluded.sentiment_avg) / (interaction_count + 1),
            interaction_count = interaction_count + 1,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, query, chatID, userID, targetUserID, interactionType, sentiment, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting interaction", "chat_id", chatID, "user_id", userID, "target_user_id", targetUserID, "error", err)
		return fmt.Errorf("failed to upsert interaction for user %d -> %d in chat %d: %w", userID, targetUserID, chatID, err)
	}
	return nil
}

func (s *sqlxStore) GetOrCreatePlayer(ctx context.Context, userID, chatID int64, username, firstName string) (*Player, error) {
	if userID == 0 || chatID == 0 {
		return nil, fmt.Errorf("user_id and chat_id cannot be zero")
	}

	now := time.Now().UTC()
	insert := `
        INSERT INTO players (user_id, chat_id, username, first_name, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(user_id, chat_id) DO UPDATE SET
            username = excluded.username,
            first_name = excluded.first_name,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, insert, userID, chatID, username, firstName, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error creating player", "user_id", userID, "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to create player %d in chat %d: %w", userID, chatID, err)
	}

	var player Player
	query := `
        SELECT id, user_id, chat_id, username, first_name, balance, experience,
               crimes_success, crimes_failed, jail_until, created_at, updated_at
        FROM players WHERE user_id = ? AND chat_id = ?;
    `
	if err := s.db.GetContext(ctx, &player, query, userID, chatID); err != nil {
		return nil, fmt.Errorf("failed to get player %d in chat %d: %w", userID, chatID, err)
	}
	return &player, nil
}

func (s *sqlxStore) ApplyPlayerDeltas(ctx context.Context, userID, chatID int64, deltas []PlayerDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	now := time.Now().UTC()
	for _, d := range deltas {
		var query string
		switch d.Field {
		case PlayerBalance, PlayerExperience, PlayerCrimesSuccess, PlayerCrimesFailed, PlayerJailUntil:
		default:
			return fmt.Errorf("unknown player field %q", d.Field)
		}
		switch d.Op {
		case DeltaAdd:
			query = fmt.Sprintf(`UPDATE players SET %s = %s + ?, updated_at = ? WHERE user_id = ? AND chat_id = ?`, d.Field, d.Field)
		case DeltaSet:
			query = fmt.Sprintf(`UPDATE players SET %s = ?, updated_at = ? WHERE user_id = ? AND chat_id = ?`, d.Field)
		default:
			return fmt.Errorf("unknown delta op %d", d.Op)
		}
		if _, err := tx.ExecContext(ctx, query, d.Value, now, userID, chatID); err != nil {
			s.logger.ErrorContext(ctx, "Error applying player delta", "user_id", userID, "chat_id", chatID, "field", d.Field, "error", err)
			return fmt.Errorf("failed to apply %s delta for player %d in chat %d: %w", d.Field, userID, chatID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil
	return nil
}

func (s *sqlxStore) GetTopPlayers(ctx context.Context, chatID int64, limit int) ([]*Player, error) {
	if limit <= 0 {
		limit = 10
	}

	var players []*Player
	query := `
        SELECT id, user_id, chat_id, username, first_name, balance, experience,
               crimes_success, crimes_failed, jail_until, created_at, updated_at
        FROM players
        WHERE chat_id = ?
        ORDER BY experience DESC, balance DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &players, query, chatID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting top players", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get top players for chat %d: %w", chatID, err)
	}
	return players, nil
}

func (s *sqlxStore) AddToTreasury(ctx context.Context, chatID int64, amount int64) error {
	query := `
        INSERT INTO treasury (chat_id, balance, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(chat_id) DO UPDATE SET
            balance = balance + excluded.balance,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, query, chatID, amount, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error adding to treasury", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to add to treasury for chat %d: %w", chatID, err)
	}
	return nil
}

func (s *sqlxStore) GetTreasury(ctx context.Context, chatID int64) (int64, error) {
	var balance int64
	err := s.db.GetContext(ctx, &balance, `SELECT balance FROM treasury WHERE chat_id = ?`, chatID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to get treasury for chat %d: %w", chatID, err)
	}
	return balance, nil
}
