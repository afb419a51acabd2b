package database

import "time"

// Message represents a single message recorded from a Telegram group chat.
// It is the raw input of the profiling pipeline and the replay source for
// profile rebuilds.
type Message struct {
	ID            uint      `db:"id"`
	ChatID        int64     `db:"chat_id"`
	UserID        int64     `db:"user_id"`
	Username      string    `db:"username"`
	FirstName     string    `db:"first_name"`
	Content       string    `db:"content"`
	MessageType   string    `db:"message_type"`
	ReplyToUserID int64     `db:"reply_to_user_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// Profile is the accumulated behavioral profile of one user in one chat.
// The (UserID, ChatID) pair is the primary identity: the same person has
// fully independent profiles in different chats.
//
// All *Score and *Rate fields are cumulative means over the message stream,
// recomputed on every update with TotalMessages as the denominator. The
// temporal maps and rolling lists are structured values here and serialized
// to JSON only at the storage boundary.
type Profile struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	ChatID    int64     `db:"chat_id"`
	FirstName string    `db:"first_name"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	TotalMessages    int `db:"total_messages"`
	MessagesAsReply  int `db:"messages_as_reply"`
	PositiveMessages int `db:"positive_messages"`
	NegativeMessages int `db:"negative_messages"`
	NeutralMessages  int `db:"neutral_messages"`

	SentimentScore     float64 `db:"sentiment_score"`
	ToxicityScore      float64 `db:"toxicity_score"`
	HumorScore         float64 `db:"humor_score"`
	AvgMessageLength   float64 `db:"avg_message_length"`
	EmojiUsageRate     float64 `db:"emoji_usage_rate"`
	CapsRate           float64 `db:"caps_rate"`
	MatRate            float64 `db:"mat_rate"`
	SlangRate          float64 `db:"slang_rate"`
	TypoRate           float64 `db:"typo_rate"`
	QuestionRate       float64 `db:"question_rate"`
	ExclamationRate    float64 `db:"exclamation_rate"`
	VoiceRate          float64 `db:"voice_rate"`
	PhotoRate          float64 `db:"photo_rate"`
	StickerRate        float64 `db:"sticker_rate"`
	VideoRate          float64 `db:"video_rate"`
	VocabularyRichness float64 `db:"vocabulary_richness"`

	FemaleScore      float64 `db:"female_score"`
	MaleScore        float64 `db:"male_score"`
	DetectedGender   string  `db:"detected_gender"`
	GenderConfidence float64 `db:"gender_confidence"`

	// ActiveHours maps hour-of-day ("0".."23") to message count.
	ActiveHours map[string]int `db:"-"`
	// MoodByDay and MoodByHour hold a running mean sentiment per bucket key
	// plus a parallel "<key>_count" entry carrying the n for that mean. The
	// flat shape is inherited from the original JSON columns.
	MoodByDay  map[string]float64 `db:"-"`
	MoodByHour map[string]float64 `db:"-"`

	PeakHour      int    `db:"peak_hour"`
	BestMoodDay   string `db:"best_mood_day"`
	WorstMoodDay  string `db:"worst_mood_day"`
	BestMoodHour  int    `db:"best_mood_hour"`
	WorstMoodHour int    `db:"worst_mood_hour"`
	IsNightOwl    bool   `db:"is_night_owl"`
	IsEarlyBird   bool   `db:"is_early_bird"`

	FavoritePhrases []string `db:"-"`
	FavoriteEmojis  []string `db:"-"`
	TriggerTopics   []string `db:"-"`

	ActivityLevel      string `db:"activity_level"`
	CommunicationStyle string `db:"communication_style"`
}

// Clone returns a deep copy of the profile. The aggregator treats profiles
// as immutable inputs, so callers that want to mutate must copy first.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.ActiveHours = make(map[string]int, len(p.ActiveHours))
	for k, v := range p.ActiveHours {
		c.ActiveHours[k] = v
	}
	c.MoodByDay = make(map[string]float64, len(p.MoodByDay))
	for k, v := range p.MoodByDay {
		c.MoodByDay[k] = v
	}
	c.MoodByHour = make(map[string]float64, len(p.MoodByHour))
	for k, v := range p.MoodByHour {
		c.MoodByHour[k] = v
	}
	c.FavoritePhrases = append([]string(nil), p.FavoritePhrases...)
	c.FavoriteEmojis = append([]string(nil), p.FavoriteEmojis...)
	c.TriggerTopics = append([]string(nil), p.TriggerTopics...)
	return &c
}

// Interest tracks how strongly a user in a chat engages with one topic.
// Score grows by 0.1 per mention.
type Interest struct {
	ID           uint      `db:"id"`
	UserID       int64     `db:"user_id"`
	ChatID       int64     `db:"chat_id"`
	Topic        string    `db:"topic"`
	Score        float64   `db:"score"`
	MessageCount int       `db:"message_count"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Interaction records directed reply activity between two users in a chat,
// with a running mean of the replier's sentiment toward the target.
type Interaction struct {
	ID               uint      `db:"id"`
	ChatID           int64     `db:"chat_id"`
	UserID           int64     `db:"user_id"`
	TargetUserID     int64     `db:"target_user_id"`
	InteractionType  string    `db:"interaction_type"`
	InteractionCount int       `db:"interaction_count"`
	SentimentAvg     float64   `db:"sentiment_avg"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Player holds the game-layer state of a chat member.
type Player struct {
	ID            uint      `db:"id"`
	UserID        int64     `db:"user_id"`
	ChatID        int64     `db:"chat_id"`
	Username      string    `db:"username"`
	FirstName     string    `db:"first_name"`
	Balance       int64     `db:"balance"`
	Experience    int64     `db:"experience"`
	CrimesSuccess int       `db:"crimes_success"`
	CrimesFailed  int       `db:"crimes_failed"`
	JailUntil     int64     `db:"jail_until"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
