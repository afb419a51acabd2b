package profile_test

import (
	"strings"
	"testing"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
	"github.com/renatkhugaev-eng/guildbot/internal/profile"
)

func TestFormatNilProfile(t *testing.T) {
	t.Parallel()

	f := profile.NewFormatter()
	got := f.Format(nil, nil)

	if got.Description == "" {
		t.Error("Description should not be empty for nil profile")
	}
	if len(got.Traits) != 0 {
		t.Errorf("Traits = %v, want empty", got.Traits)
	}
}

func TestFormatToxicityTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		toxicity  float64
		wantTrait string
	}{
		{name: "extreme", toxicity: 0.7, wantTrait: "крайне токсичен"},
		{name: "leaning", toxicity: 0.4, wantTrait: "склонен к токсичности"},
		{name: "below threshold", toxicity: 0.2, wantTrait: ""},
	}

	f := profile.NewFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &database.Profile{FirstName: "Вася", TotalMessages: 10, ToxicityScore: tt.toxicity}
			got := f.Format(p, nil)

			joined := strings.Join(got.Traits, "; ")
			if tt.wantTrait == "" {
				if strings.Contains(joined, "токсич") {
					t.Errorf("Traits = %v, want no toxicity trait", got.Traits)
				}
				return
			}
			if !strings.Contains(joined, tt.wantTrait) {
				t.Errorf("Traits = %v, want to contain %q", got.Traits, tt.wantTrait)
			}
		})
	}
}

func TestFormatIncludesInterestsAndPhrases(t *testing.T) {
	t.Parallel()

	p := &database.Profile{
		FirstName:     "Вася",
		TotalMessages: 50,
		FavoritePhrases: []string{
			"первая фраза", "вторая фраза", "третья фраза", "четвёртая фраза",
		},
	}
	interests := []*database.Interest{
		{Topic: "спорт", Score: 0.9},
		{Topic: "еда", Score: 0.5},
	}

	got := profile.NewFormatter().Format(p, interests)

	if !strings.Contains(got.Description, "спорт") {
		t.Errorf("Description missing top interest: %q", got.Description)
	}
	// Only the 3 most recent phrases make the dossier.
	if strings.Contains(got.Description, "первая фраза") {
		t.Errorf("Description contains evicted phrase: %q", got.Description)
	}
	if !strings.Contains(got.Description, "четвёртая фраза") {
		t.Errorf("Description missing latest phrase: %q", got.Description)
	}
}

func TestFormatCleansPunctuation(t *testing.T) {
	t.Parallel()

	p := &database.Profile{
		FirstName:       "Вася",
		TotalMessages:   5,
		FavoritePhrases: []string{"ну вот так вот..."},
	}

	got := profile.NewFormatter().Format(p, nil)

	if strings.Contains(got.Description, "..") {
		t.Errorf("Description has repeated periods: %q", got.Description)
	}
	if strings.Contains(got.Description, "  ") {
		t.Errorf("Description has repeated spaces: %q", got.Description)
	}
}

func TestFormatGenderTrait(t *testing.T) {
	t.Parallel()

	p := &database.Profile{
		FirstName:      "Маша",
		TotalMessages:  30,
		DetectedGender: profile.GenderFemale,
	}

	got := profile.NewFormatter().Format(p, nil)
	if !strings.Contains(strings.Join(got.Traits, " "), "женщина") {
		t.Errorf("Traits = %v, want gender trait", got.Traits)
	}
}
