package game_test

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
	"github.com/renatkhugaev-eng/guildbot/internal/game"
)

func TestRankLadder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		exp      int64
		wantName string
	}{
		{exp: 0, wantName: "🐀 Шестёрка"},
		{exp: 99, wantName: "🐀 Шестёрка"},
		{exp: 100, wantName: "🔪 Гопник"},
		{exp: 12000, wantName: "🌑 Теневой король"},
	}

	for _, tt := range tests {
		if got := game.RankFor(tt.exp); got.Name != tt.wantName {
			t.Errorf("RankFor(%d) = %q, want %q", tt.exp, got.Name, tt.wantName)
		}
	}

	if next := game.NextRank(12000); next != nil {
		t.Errorf("NextRank at top tier = %v, want nil", next)
	}
	if next := game.NextRank(0); next == nil || next.MinExp != 100 {
		t.Errorf("NextRank(0) = %v, want tier at 100", next)
	}
}

func TestExpProgress(t *testing.T) {
	t.Parallel()

	inRank, needed := game.ExpProgress(150)
	if inRank != 50 {
		t.Errorf("inRank = %d, want 50", inRank)
	}
	if needed != 200 {
		t.Errorf("needed = %d, want 200", needed)
	}

	_, needed = game.ExpProgress(20000)
	if needed != 0 {
		t.Errorf("needed at top tier = %d, want 0", needed)
	}
}

func TestStealAmountBounds(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))

	if got := game.StealAmount(rng, 0); got != 0 {
		t.Errorf("StealAmount(0) = %d, want 0", got)
	}
	if got := game.StealAmount(rng, -50); got != 0 {
		t.Errorf("StealAmount(-50) = %d, want 0", got)
	}

	// Tiny balance is taken whole.
	if got := game.StealAmount(rng, 20); got != 20 {
		t.Errorf("StealAmount(20) = %d, want 20", got)
	}

	for i := 0; i < 100; i++ {
		got := game.StealAmount(rng, 1000)
		if got < 100 || got > 300 {
			t.Fatalf("StealAmount(1000) = %d, want within [100, 300]", got)
		}
	}
}

func TestCrimeRewardWithinBand(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	crime := game.CrimeByIndex(0)
	if crime == nil {
		t.Fatal("crime catalog is empty")
	}

	for i := 0; i < 100; i++ {
		got := game.CrimeReward(rng, crime, 0)
		// Level 1 multiplier is 1.01.
		maxWant := int64(float64(crime.MaxReward) * 1.01)
		if got < crime.MinReward || got > maxWant {
			t.Fatalf("CrimeReward = %d, want within [%d, %d]", got, crime.MinReward, maxWant)
		}
	}
}

func TestCrimeByIndexOutOfRange(t *testing.T) {
	t.Parallel()

	if game.CrimeByIndex(-1) != nil {
		t.Error("CrimeByIndex(-1) should be nil")
	}
	if game.CrimeByIndex(len(game.Crimes())) != nil {
		t.Error("CrimeByIndex past end should be nil")
	}
}

func TestSpinPayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  game.SpinResult
		want int64
	}{
		{name: "loss", res: game.SpinResult{}, want: -100},
		{name: "pair", res: game.SpinResult{Multiplier: 2}, want: 100},
		{name: "jackpot", res: game.SpinResult{Multiplier: 50, Jackpot: true}, want: 4900},
	}
	for _, tt := range tests {
		if got := game.Payout(100, tt.res); got != tt.want {
			t.Errorf("%s: Payout = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestSpinMultiplierConsistency(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		res := game.Spin(rng)
		triple := res.Symbols[0] == res.Symbols[1] && res.Symbols[1] == res.Symbols[2]
		pair := res.Symbols[0] == res.Symbols[1] || res.Symbols[1] == res.Symbols[2] || res.Symbols[0] == res.Symbols[2]
		switch {
		case triple && res.Multiplier < 5:
			t.Fatalf("triple %v with multiplier %d", res.Symbols, res.Multiplier)
		case !triple && pair && res.Multiplier != 2:
			t.Fatalf("pair %v with multiplier %d", res.Symbols, res.Multiplier)
		case !pair && res.Multiplier != 0:
			t.Fatalf("no match %v with multiplier %d", res.Symbols, res.Multiplier)
		}
		if res.Jackpot && res.Symbols[0] != "7️⃣" {
			t.Fatalf("jackpot on %v", res.Symbols)
		}
	}
}

func TestFormatPlayerCard(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &database.Player{
		FirstName:     "Вася",
		Balance:       700,
		Experience:    150,
		CrimesSuccess: 3,
		CrimesFailed:  1,
	}

	card := game.FormatPlayerCard(p, now)
	if !strings.Contains(card, "Вася") {
		t.Errorf("card missing name: %q", card)
	}
	if !strings.Contains(card, "Гопник") {
		t.Errorf("card missing rank: %q", card)
	}
	if !strings.Contains(card, "75.0%") {
		t.Errorf("card missing winrate: %q", card)
	}
	if strings.Contains(card, "ТЮРЬМЕ") {
		t.Errorf("card shows jail for free player: %q", card)
	}

	p.JailUntil = now.Add(time.Minute).Unix()
	card = game.FormatPlayerCard(p, now)
	if !strings.Contains(card, "ТЮРЬМЕ") {
		t.Errorf("card missing jail status: %q", card)
	}
}

func TestFormatTopPlayersEmpty(t *testing.T) {
	t.Parallel()

	got := game.FormatTopPlayers(nil)
	if !strings.Contains(got, "нет криминала") {
		t.Errorf("empty leaderboard = %q", got)
	}
}
