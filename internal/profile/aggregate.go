package profile

import (
	"strconv"
	"strings"
	"time"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
)

// Rolling list capacities. New unique items are appended and the list is
// truncated from the front, keeping the most recent entries.
const (
	maxFavoritePhrases = 50
	maxFavoriteEmojis  = 30
	maxTriggerTopics   = 20
)

// Activity-level tier boundaries (total messages).
const (
	activityNormalAt     = 20
	activityActiveAt     = 100
	activityVeryActiveAt = 500
	activityHyperAt      = 1000
)

// Share of messages in the night (00-05) or morning (06-09) window that
// marks a user as a night owl or early bird.
const temporalHabitShare = 0.3

// UpdateInput is everything the aggregator needs to fold one message into a
// profile: the extracted signals, the gender deltas, and message metadata.
type UpdateInput struct {
	UserID        int64
	ChatID        int64
	FirstName     string
	Username      string
	Signals       SignalBundle
	Gender        GenderResult
	Timestamp     time.Time
	MessageType   string
	ReplyToUserID int64
}

// Apply folds one message into the prior profile and returns the new one.
// It is a pure function of (prior, input): the prior is never mutated, and
// no state outside the arguments is consulted. Each running-average field f
// is recomputed as (f_old*(n-1) + v)/n with n = total messages after the
// increment, which yields the exact arithmetic mean when the aggregator is
// invoked exactly once per message in arrival order.
func Apply(prior *database.Profile, in UpdateInput) *database.Profile {
	if prior == nil {
		return create(in)
	}

	p := prior.Clone()
	p.FirstName = in.FirstName
	p.Username = in.Username

	// Counters first: the post-increment total is the denominator for every
	// mean below. Reordering this breaks the cumulative-mean identity.
	p.TotalMessages++
	n := float64(p.TotalMessages)
	if in.ReplyToUserID != 0 {
		p.MessagesAsReply++
	}
	switch in.Signals.SentimentLabel {
	case "positive":
		p.PositiveMessages++
	case "negative":
		p.NegativeMessages++
	default:
		p.NeutralMessages++
	}

	v := messageValues(in)
	p.SentimentScore = blend(p.SentimentScore, v.sentiment, n)
	p.ToxicityScore = blend(p.ToxicityScore, v.toxicity, n)
	p.HumorScore = blend(p.HumorScore, v.humor, n)
	p.AvgMessageLength = blend(p.AvgMessageLength, v.length, n)
	p.EmojiUsageRate = blend(p.EmojiUsageRate, v.emoji, n)
	p.CapsRate = blend(p.CapsRate, v.caps, n)
	p.MatRate = blend(p.MatRate, v.mat, n)
	p.SlangRate = blend(p.SlangRate, v.slang, n)
	p.TypoRate = blend(p.TypoRate, v.typo, n)
	p.QuestionRate = blend(p.QuestionRate, v.question, n)
	p.ExclamationRate = blend(p.ExclamationRate, v.exclamation, n)
	p.VoiceRate = blend(p.VoiceRate, v.voice, n)
	p.PhotoRate = blend(p.PhotoRate, v.photo, n)
	p.StickerRate = blend(p.StickerRate, v.sticker, n)
	p.VideoRate = blend(p.VideoRate, v.video, n)
	p.VocabularyRichness = blend(p.VocabularyRichness, v.vocabulary, n)

	p.FemaleScore += in.Gender.FemaleDelta
	p.MaleScore += in.Gender.MaleDelta
	p.GenderConfidence = in.Gender.Confidence
	if in.Gender.Label != GenderUnknown {
		p.DetectedGender = in.Gender.Label
	}

	applyTemporal(p, in.Timestamp, in.Signals.Sentiment)

	p.FavoritePhrases = appendBounded(p.FavoritePhrases, in.Signals.Catchphrases, maxFavoritePhrases)
	p.FavoriteEmojis = appendBounded(p.FavoriteEmojis, in.Signals.Emojis, maxFavoriteEmojis)
	p.TriggerTopics = appendBounded(p.TriggerTopics, in.Signals.Triggers, maxTriggerTopics)

	p.ActivityLevel = activityLevel(p.TotalMessages)
	p.CommunicationStyle = communicationStyle(p)

	return p
}

// create initializes a profile from the first message. With n = 1 every
// running-average field is just the message value itself. The activity level
// is the literal "lurker" starting value.
func create(in UpdateInput) *database.Profile {
	p := &database.Profile{
		UserID:         in.UserID,
		ChatID:         in.ChatID,
		FirstName:      in.FirstName,
		Username:       in.Username,
		TotalMessages:  1,
		DetectedGender: GenderUnknown,
		ActiveHours:    map[string]int{},
		MoodByDay:      map[string]float64{},
		MoodByHour:     map[string]float64{},
		ActivityLevel:  "lurker",
	}
	if in.ReplyToUserID != 0 {
		p.MessagesAsReply = 1
	}
	switch in.Signals.SentimentLabel {
	case "positive":
		p.PositiveMessages = 1
	case "negative":
		p.NegativeMessages = 1
	default:
		p.NeutralMessages = 1
	}

	v := messageValues(in)
	p.SentimentScore = v.sentiment
	p.ToxicityScore = v.toxicity
	p.HumorScore = v.humor
	p.AvgMessageLength = v.length
	p.EmojiUsageRate = v.emoji
	p.CapsRate = v.caps
	p.MatRate = v.mat
	p.SlangRate = v.slang
	p.TypoRate = v.typo
	p.QuestionRate = v.question
	p.ExclamationRate = v.exclamation
	p.VoiceRate = v.voice
	p.PhotoRate = v.photo
	p.StickerRate = v.sticker
	p.VideoRate = v.video
	p.VocabularyRichness = v.vocabulary

	p.FemaleScore = in.Gender.FemaleDelta
	p.MaleScore = in.Gender.MaleDelta
	p.GenderConfidence = in.Gender.Confidence
	if in.Gender.Label != GenderUnknown {
		p.DetectedGender = in.Gender.Label
	}

	applyTemporal(p, in.Timestamp, in.Signals.Sentiment)

	p.FavoritePhrases = appendBounded(nil, in.Signals.Catchphrases, maxFavoritePhrases)
	p.FavoriteEmojis = appendBounded(nil, in.Signals.Emojis, maxFavoriteEmojis)
	p.TriggerTopics = appendBounded(nil, in.Signals.Triggers, maxTriggerTopics)

	p.CommunicationStyle = communicationStyle(p)

	return p
}

// messageValues maps one message's signals onto the per-field scalar that
// gets folded into each running mean. Presence-style rates contribute 0 or
// 1, ratio-style fields contribute the per-message ratio.
type values struct {
	sentiment, toxicity, humor, length            float64
	emoji, caps, mat, slang, typo                 float64
	question, exclamation                         float64
	voice, photo, sticker, video                  float64
	vocabulary                                    float64
}

func messageValues(in UpdateInput) values {
	s := in.Signals
	v := values{
		sentiment: s.Sentiment,
		toxicity:  clip(0.3*float64(s.ToxicHits), 0, 1),
		humor:     clip(0.3*float64(s.HumorHits), 0, 1),
		length:    float64(s.Style.Length),
		caps:      s.Style.CapsRatio,
		typo:      s.Style.TypoScore,
	}
	v.emoji = boolVal(s.EmojiCount > 0)
	v.mat = boolVal(s.Style.MatCount > 0)
	v.slang = boolVal(s.Style.SlangCount > 0)
	v.question = boolVal(s.Style.QuestionCount > 0)
	v.exclamation = boolVal(s.Style.ExclamationCount > 0)
	v.voice = boolVal(in.MessageType == "voice")
	v.photo = boolVal(in.MessageType == "photo")
	v.sticker = boolVal(in.MessageType == "sticker")
	v.video = boolVal(in.MessageType == "video")
	if s.Style.WordCount > 0 {
		v.vocabulary = float64(s.Style.UniqueWords) / float64(s.Style.WordCount)
	}
	return v
}

// applyTemporal updates the hour histogram and the per-day/per-hour mood
// means, then recomputes the derived temporal fields.
func applyTemporal(p *database.Profile, ts time.Time, sentiment float64) {
	hourKey := strconv.Itoa(ts.Hour())
	dayKey := strings.ToLower(ts.Weekday().String())

	p.ActiveHours[hourKey]++
	bumpMood(p.MoodByDay, dayKey, sentiment)
	bumpMood(p.MoodByHour, hourKey, sentiment)

	p.PeakHour = peakHour(p.ActiveHours)
	p.BestMoodDay, p.WorstMoodDay = moodExtremes(p.MoodByDay)
	bestHour, worstHour := moodExtremes(p.MoodByHour)
	p.BestMoodHour = atoiOrZero(bestHour)
	p.WorstMoodHour = atoiOrZero(worstHour)

	night := 0
	morning := 0
	total := 0
	for key, count := range p.ActiveHours {
		h := atoiOrZero(key)
		total += count
		if h <= 5 {
			night += count
		} else if h <= 9 {
			morning += count
		}
	}
	if total > 0 {
		p.IsNightOwl = float64(night)/float64(total) > temporalHabitShare
		p.IsEarlyBird = float64(morning)/float64(total) > temporalHabitShare
	}
}

// bumpMood folds a sentiment value into the running mean stored under key,
// with the parallel "<key>_count" entry carrying the per-bucket n.
func bumpMood(mood map[string]float64, key string, sentiment float64) {
	countKey := key + "_count"
	count := mood[countKey]
	mood[key] = (mood[key]*count + sentiment) / (count + 1)
	mood[countKey] = count + 1
}

func peakHour(hours map[string]int) int {
	best := 0
	bestCount := -1
	for key, count := range hours {
		h := atoiOrZero(key)
		if count > bestCount || (count == bestCount && h < best) {
			best = h
			bestCount = count
		}
	}
	return best
}

func moodExtremes(mood map[string]float64) (best, worst string) {
	bestVal := 0.0
	worstVal := 0.0
	first := true
	for key, val := range mood {
		if strings.HasSuffix(key, "_count") {
			continue
		}
		if first || val > bestVal {
			bestVal = val
			best = key
		}
		if first || val < worstVal {
			worstVal = val
			worst = key
		}
		first = false
	}
	return best, worst
}

// appendBounded appends items not already present and keeps the most recent
// max entries, evicting from the front.
func appendBounded(list, items []string, max int) []string {
	for _, item := range items {
		if item == "" || contains(list, item) {
			continue
		}
		list = append(list, item)
	}
	if len(list) > max {
		list = append([]string(nil), list[len(list)-max:]...)
	}
	return list
}

func activityLevel(total int) string {
	switch {
	case total < activityNormalAt:
		return "lurker"
	case total < activityActiveAt:
		return "normal"
	case total < activityVeryActiveAt:
		return "active"
	case total < activityHyperAt:
		return "very_active"
	default:
		return "hyperactive"
	}
}

// communicationStyle assigns the dominant style label. Order matters: the
// first threshold crossed wins.
func communicationStyle(p *database.Profile) string {
	switch {
	case p.MatRate > 0.3:
		return "матершинник"
	case p.ToxicityScore > 0.3:
		return "токсик"
	case p.HumorScore > 0.3:
		return "шутник"
	case p.CapsRate > 0.3:
		return "крикун"
	case p.SlangRate > 0.3:
		return "молодёжный"
	case p.SentimentScore > 0.3:
		return "позитивный"
	case p.SentimentScore < -0.3:
		return "негативный"
	default:
		return "нейтральный"
	}
}

func blend(old, v, n float64) float64 {
	return (old*(n-1) + v) / n
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
