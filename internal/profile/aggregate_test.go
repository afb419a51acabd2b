package profile_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
	"github.com/renatkhugaev-eng/guildbot/internal/profile"
)

func textInput(userID, chatID int64, sig profile.SignalBundle, ts time.Time) profile.UpdateInput {
	return profile.UpdateInput{
		UserID:      userID,
		ChatID:      chatID,
		FirstName:   "Тест",
		Username:    "test",
		Signals:     sig,
		Timestamp:   ts,
		MessageType: "text",
	}
}

func TestApplyCumulativeSentimentMean(t *testing.T) {
	t.Parallel()

	sentiments := []float64{1, -1, 0.5, 0, -0.25, 1, 0.75, -0.5}
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var p *database.Profile
	var sum float64
	for i, s := range sentiments {
		sig := profile.SignalBundle{Sentiment: s, SentimentLabel: "neutral"}
		p = profile.Apply(p, textInput(1, 10, sig, ts.Add(time.Duration(i)*time.Minute)))
		sum += s
	}

	want := sum / float64(len(sentiments))
	if math.Abs(p.SentimentScore-want) > 1e-9 {
		t.Errorf("SentimentScore = %v, want %v", p.SentimentScore, want)
	}
	if p.TotalMessages != len(sentiments) {
		t.Errorf("TotalMessages = %d, want %d", p.TotalMessages, len(sentiments))
	}
}

func TestApplyRollingListBound(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var p *database.Profile
	for i := 0; i < 60; i++ {
		sig := profile.SignalBundle{
			SentimentLabel: "neutral",
			Catchphrases:   []string{fmt.Sprintf("фраза номер %d", i)},
		}
		p = profile.Apply(p, textInput(1, 10, sig, ts))
	}

	if len(p.FavoritePhrases) != 50 {
		t.Fatalf("len(FavoritePhrases) = %d, want 50", len(p.FavoritePhrases))
	}
	if got, want := p.FavoritePhrases[0], "фраза номер 10"; got != want {
		t.Errorf("oldest kept phrase = %q, want %q", got, want)
	}
	if got, want := p.FavoritePhrases[49], "фраза номер 59"; got != want {
		t.Errorf("newest phrase = %q, want %q", got, want)
	}
}

func TestApplyActivityLevelBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total int
		want  string
	}{
		{total: 1, want: "lurker"},
		{total: 19, want: "lurker"},
		{total: 20, want: "normal"},
		{total: 99, want: "normal"},
		{total: 100, want: "active"},
		{total: 500, want: "very_active"},
		{total: 1000, want: "hyperactive"},
	}

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.want+fmt.Sprintf("_%d", tt.total), func(t *testing.T) {
			t.Parallel()

			var p *database.Profile
			for i := 0; i < tt.total; i++ {
				p = profile.Apply(p, textInput(1, 10, profile.SignalBundle{SentimentLabel: "neutral"}, ts))
			}
			if p.ActivityLevel != tt.want {
				t.Errorf("ActivityLevel after %d messages = %q, want %q", tt.total, p.ActivityLevel, tt.want)
			}
		})
	}
}

func TestApplyFirstMessageIsLurker(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := profile.Apply(nil, textInput(1, 10, profile.SignalBundle{SentimentLabel: "negative", Sentiment: -1}, ts))

	if p.ActivityLevel != "lurker" {
		t.Errorf("ActivityLevel = %q, want lurker", p.ActivityLevel)
	}
	if p.TotalMessages != 1 {
		t.Errorf("TotalMessages = %d, want 1", p.TotalMessages)
	}
	if p.NegativeMessages != 1 {
		t.Errorf("NegativeMessages = %d, want 1", p.NegativeMessages)
	}
	if p.SentimentScore != -1 {
		t.Errorf("SentimentScore = %v, want -1", p.SentimentScore)
	}
}

func TestApplyDoesNotMutatePrior(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prior := profile.Apply(nil, textInput(1, 10, profile.SignalBundle{SentimentLabel: "neutral"}, ts))
	priorTotal := prior.TotalMessages
	priorHours := len(prior.ActiveHours)

	_ = profile.Apply(prior, textInput(1, 10, profile.SignalBundle{SentimentLabel: "positive", Sentiment: 1}, ts.Add(time.Hour)))

	if prior.TotalMessages != priorTotal {
		t.Errorf("prior TotalMessages mutated: %d", prior.TotalMessages)
	}
	if len(prior.ActiveHours) != priorHours {
		t.Errorf("prior ActiveHours mutated: %v", prior.ActiveHours)
	}
}

func TestApplyTemporalBuckets(t *testing.T) {
	t.Parallel()

	// Monday 23:00, then Tuesday 23:00: hour 23 dominates.
	mon := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	tue := mon.Add(24 * time.Hour)

	p := profile.Apply(nil, textInput(1, 10, profile.SignalBundle{SentimentLabel: "positive", Sentiment: 1}, mon))
	p = profile.Apply(p, textInput(1, 10, profile.SignalBundle{SentimentLabel: "negative", Sentiment: -1}, tue))

	if p.ActiveHours["23"] != 2 {
		t.Errorf(`ActiveHours["23"] = %d, want 2`, p.ActiveHours["23"])
	}
	if p.PeakHour != 23 {
		t.Errorf("PeakHour = %d, want 23", p.PeakHour)
	}
	if p.BestMoodDay != "monday" {
		t.Errorf("BestMoodDay = %q, want monday", p.BestMoodDay)
	}
	if p.WorstMoodDay != "tuesday" {
		t.Errorf("WorstMoodDay = %q, want tuesday", p.WorstMoodDay)
	}
	if p.MoodByDay["monday_count"] != 1 {
		t.Errorf(`MoodByDay["monday_count"] = %v, want 1`, p.MoodByDay["monday_count"])
	}
}

func TestApplyTemporalHabitShare(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	send := func(p *database.Profile, hour, count int) *database.Profile {
		for i := 0; i < count; i++ {
			p = profile.Apply(p, textInput(1, 10, profile.SignalBundle{SentimentLabel: "neutral"}, day.Add(time.Duration(hour)*time.Hour)))
		}
		return p
	}

	// 4 of 10 messages in the night window: share 0.4 crosses the strict
	// 0.3 bound.
	p := send(nil, 2, 4)
	p = send(p, 14, 6)
	if !p.IsNightOwl {
		t.Error("IsNightOwl = false, want true at 40% night share")
	}
	if p.IsEarlyBird {
		t.Error("IsEarlyBird = true, want false with no morning messages")
	}

	// Exactly 3 of 10: share 0.3 does not cross the strict bound.
	p = send(nil, 2, 3)
	p = send(p, 14, 7)
	if p.IsNightOwl {
		t.Error("IsNightOwl = true, want false at exactly 30% night share")
	}

	// Morning window 06-09 drives the early bird flag the same way.
	p = send(nil, 7, 4)
	p = send(p, 14, 6)
	if !p.IsEarlyBird {
		t.Error("IsEarlyBird = false, want true at 40% morning share")
	}
	if p.IsNightOwl {
		t.Error("IsNightOwl = true, want false with no night messages")
	}
}

func TestApplyCommunicationStylePriority(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Profanity beats toxicity in the style priority order.
	sig := profile.SignalBundle{
		SentimentLabel: "negative",
		Sentiment:      -1,
		ToxicHits:      5,
		Style:          profile.StyleSignals{MatCount: 2},
	}
	p := profile.Apply(nil, textInput(1, 10, sig, ts))
	if p.CommunicationStyle != "матершинник" {
		t.Errorf("CommunicationStyle = %q, want матершинник", p.CommunicationStyle)
	}

	// Toxic without profanity.
	sig = profile.SignalBundle{SentimentLabel: "negative", ToxicHits: 5}
	p = profile.Apply(nil, textInput(1, 10, sig, ts))
	if p.CommunicationStyle != "токсик" {
		t.Errorf("CommunicationStyle = %q, want токсик", p.CommunicationStyle)
	}

	// Nothing crosses a threshold.
	p = profile.Apply(nil, textInput(1, 10, profile.SignalBundle{SentimentLabel: "neutral"}, ts))
	if p.CommunicationStyle != "нейтральный" {
		t.Errorf("CommunicationStyle = %q, want нейтральный", p.CommunicationStyle)
	}
}

func TestPerChatProfilesStayIndependent(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	chatA := profile.Apply(nil, textInput(1, 10, profile.SignalBundle{SentimentLabel: "positive", Sentiment: 1}, ts))
	chatB := profile.Apply(nil, textInput(1, 20, profile.SignalBundle{SentimentLabel: "neutral"}, ts))

	chatA = profile.Apply(chatA, textInput(1, 10, profile.SignalBundle{SentimentLabel: "positive", Sentiment: 1}, ts))

	if chatA.TotalMessages != 2 {
		t.Errorf("chat A TotalMessages = %d, want 2", chatA.TotalMessages)
	}
	if chatB.TotalMessages != 1 {
		t.Errorf("chat B TotalMessages = %d, want 1", chatB.TotalMessages)
	}
	if chatB.SentimentScore != 0 {
		t.Errorf("chat B SentimentScore = %v, want 0", chatB.SentimentScore)
	}
}
