package profile_test

import (
	"testing"

	"github.com/renatkhugaev-eng/guildbot/internal/profile"
)

func TestExtractSentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantLabel string
		wantSign  int
	}{
		{
			name:      "negative rant",
			text:      "Ненавижу когда опаздывают, меня это бесит",
			wantLabel: "negative",
			wantSign:  -1,
		},
		{
			name:      "positive",
			text:      "Спасибо, это просто супер и класс",
			wantLabel: "positive",
			wantSign:  1,
		},
		{
			name:      "no lexicon hits",
			text:      "завтра встречаемся в семь",
			wantLabel: "neutral",
			wantSign:  0,
		},
		{
			name:      "too short",
			text:      "а",
			wantLabel: "neutral",
			wantSign:  0,
		},
	}

	ex := profile.NewExtractor(profile.DefaultLexicon())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ex.Extract(tt.text)
			if got.SentimentLabel != tt.wantLabel {
				t.Errorf("SentimentLabel = %q, want %q", got.SentimentLabel, tt.wantLabel)
			}
			switch {
			case tt.wantSign < 0 && got.Sentiment >= 0:
				t.Errorf("Sentiment = %v, want negative", got.Sentiment)
			case tt.wantSign > 0 && got.Sentiment <= 0:
				t.Errorf("Sentiment = %v, want positive", got.Sentiment)
			case tt.wantSign == 0 && got.Sentiment != 0:
				t.Errorf("Sentiment = %v, want zero", got.Sentiment)
			}
		})
	}
}

func TestExtractNegativeRantScenario(t *testing.T) {
	t.Parallel()

	ex := profile.NewExtractor(profile.DefaultLexicon())
	got := ex.Extract("Ненавижу когда опаздывают, меня это бесит")

	if got.SentimentLabel != "negative" {
		t.Errorf("SentimentLabel = %q, want negative", got.SentimentLabel)
	}
	if len(got.Topics) != 0 {
		t.Errorf("Topics = %v, want empty", got.Topics)
	}
	if len(got.Triggers) != 0 {
		t.Errorf("Triggers = %v, want empty", got.Triggers)
	}
}

func TestExtractStyle(t *testing.T) {
	t.Parallel()

	ex := profile.NewExtractor(profile.DefaultLexicon())

	t.Run("caps ratio", func(t *testing.T) {
		t.Parallel()
		got := ex.Extract("ДА ТЫ ЧЕГО")
		if got.Style.CapsRatio != 1.0 {
			t.Errorf("CapsRatio = %v, want 1.0", got.Style.CapsRatio)
		}
	})

	t.Run("questions and exclamations", func(t *testing.T) {
		t.Parallel()
		got := ex.Extract("Ты серьёзно?? Вот это да!")
		if got.Style.QuestionCount != 2 {
			t.Errorf("QuestionCount = %d, want 2", got.Style.QuestionCount)
		}
		if got.Style.ExclamationCount != 1 {
			t.Errorf("ExclamationCount = %d, want 1", got.Style.ExclamationCount)
		}
	})

	t.Run("repeated letters bump typo score", func(t *testing.T) {
		t.Parallel()
		got := ex.Extract("нууууу привееееет")
		if got.Style.TypoScore <= 0 {
			t.Errorf("TypoScore = %v, want > 0", got.Style.TypoScore)
		}
	})

	t.Run("word accounting", func(t *testing.T) {
		t.Parallel()
		got := ex.Extract("слово слово другое")
		if got.Style.WordCount != 3 {
			t.Errorf("WordCount = %d, want 3", got.Style.WordCount)
		}
		if got.Style.UniqueWords != 2 {
			t.Errorf("UniqueWords = %d, want 2", got.Style.UniqueWords)
		}
	})
}

func TestExtractEmojis(t *testing.T) {
	t.Parallel()

	ex := profile.NewExtractor(profile.DefaultLexicon())
	got := ex.Extract("привет 😀🔥")

	if got.EmojiCount != 2 {
		t.Errorf("EmojiCount = %d, want 2", got.EmojiCount)
	}
	if len(got.Emojis) != 2 {
		t.Errorf("Emojis = %v, want 2 entries", got.Emojis)
	}
}

func TestExtractTriggersNeedStrongSentiment(t *testing.T) {
	t.Parallel()

	ex := profile.NewExtractor(profile.DefaultLexicon())

	// Political keyword with hot sentiment triggers, without it stays quiet.
	hot := ex.Extract("Ненавижу эту политику, бесит")
	if len(hot.Triggers) == 0 {
		t.Error("expected triggers for emotionally charged political text")
	}

	flat := ex.Extract("обсудим политику на выходных")
	if len(flat.Triggers) != 0 {
		t.Errorf("Triggers = %v, want empty for neutral text", flat.Triggers)
	}
}
