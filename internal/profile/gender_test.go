package profile_test

import (
	"testing"

	"github.com/renatkhugaev-eng/guildbot/internal/profile"
)

func TestClassifyCumulativeThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		priorFemale    float64
		priorMale      float64
		wantLabel      string
		wantConfidence float64
	}{
		{
			name:        "dominant female clears threshold",
			priorFemale: 8, priorMale: 2,
			wantLabel:      profile.GenderFemale,
			wantConfidence: 0.8,
		},
		{
			name:        "near-even split stays unknown",
			priorFemale: 6, priorMale: 5,
			wantLabel:      profile.GenderUnknown,
			wantConfidence: 6.0 / 11.0,
		},
		{
			name:        "dominant male clears threshold",
			priorFemale: 1, priorMale: 9,
			wantLabel:      profile.GenderMale,
			wantConfidence: 0.9,
		},
	}

	c := profile.NewGenderClassifier(profile.DefaultLexicon())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Text without markers keeps the deltas at zero so the result
			// reflects the prior scores alone.
			got := c.Classify("завтра будет дождь", tt.priorFemale, tt.priorMale, "", profile.GenderThresholdIncremental)

			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			if diff := got.Confidence - tt.wantConfidence; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestClassifyLexicalMarkers(t *testing.T) {
	t.Parallel()

	c := profile.NewGenderClassifier(profile.DefaultLexicon())

	got := c.Classify("я сделала как договаривались", 0, 0, "", profile.GenderThresholdIncremental)
	if got.FemaleDelta <= 0 {
		t.Errorf("FemaleDelta = %v, want > 0 for female verb ending", got.FemaleDelta)
	}
	if got.Label != profile.GenderFemale {
		t.Errorf("Label = %q, want %q", got.Label, profile.GenderFemale)
	}
}

func TestAnalyzeGenderStandaloneThreshold(t *testing.T) {
	t.Parallel()

	svc := profile.NewService(newFakeStore(), profile.DefaultLexicon(), nil)

	// Female markers score 5 (verb + adjective), male markers 4 (two
	// adjectives): confidence 5/9 sits between the two thresholds, so the
	// incremental path labels it while the standalone analysis does not.
	text := "рада что сам готов, сделала всё"

	got := svc.AnalyzeGender(text, "")
	if got.Label != profile.GenderUnknown {
		t.Errorf("Label = %q, want %q below the analysis threshold", got.Label, profile.GenderUnknown)
	}
	if diff := got.Confidence - 5.0/9.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Confidence = %v, want %v", got.Confidence, 5.0/9.0)
	}

	c := profile.NewGenderClassifier(profile.DefaultLexicon())
	if inc := c.Classify(text, 0, 0, "", profile.GenderThresholdIncremental); inc.Label != profile.GenderFemale {
		t.Errorf("incremental Label = %q, want %q for the same text", inc.Label, profile.GenderFemale)
	}

	// Name fallback lands exactly on the analysis threshold.
	got = svc.AnalyzeGender("ок", "Мария")
	if got.Label != profile.GenderFemale {
		t.Errorf("Label = %q, want %q for known female name", got.Label, profile.GenderFemale)
	}
	if got.Confidence != 0.6 {
		t.Errorf("Confidence = %v, want 0.6", got.Confidence)
	}
}

func TestClassifyNameFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		firstName      string
		wantLabel      string
		wantConfidence float64
	}{
		{name: "known female name", firstName: "Мария", wantLabel: profile.GenderFemale, wantConfidence: 0.6},
		{name: "male name ending in a", firstName: "Никита", wantLabel: profile.GenderMale, wantConfidence: 0.6},
		{name: "generic a ending below threshold", firstName: "Снежана", wantLabel: profile.GenderUnknown, wantConfidence: 0.4},
		{name: "no signal at all", firstName: "Max", wantLabel: profile.GenderUnknown, wantConfidence: 0},
	}

	c := profile.NewGenderClassifier(profile.DefaultLexicon())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := c.Classify("ок", 0, 0, tt.firstName, profile.GenderThresholdIncremental)
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}
