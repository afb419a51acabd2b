package game

import "math/rand"

// SpinResult is the outcome of one slot machine spin.
type SpinResult struct {
	Symbols    [3]string
	Multiplier int64
	Jackpot    bool
}

var slotSymbols = []string{"🍒", "🍋", "🔔", "💎", "7️⃣"}

// Spin rolls three symbols. Three of a kind pays the symbol's multiplier,
// a pair pays 2x, anything else loses the stake.
func Spin(rng *rand.Rand) SpinResult {
	var res SpinResult
	for i := range res.Symbols {
		res.Symbols[i] = slotSymbols[rng.Intn(len(slotSymbols))]
	}

	switch {
	case res.Symbols[0] == res.Symbols[1] && res.Symbols[1] == res.Symbols[2]:
		res.Multiplier = tripleMultiplier(res.Symbols[0])
		res.Jackpot = res.Symbols[0] == "7️⃣"
	case res.Symbols[0] == res.Symbols[1] || res.Symbols[1] == res.Symbols[2] || res.Symbols[0] == res.Symbols[2]:
		res.Multiplier = 2
	}
	return res
}

func tripleMultiplier(symbol string) int64 {
	switch symbol {
	case "7️⃣":
		return 50
	case "💎":
		return 20
	case "🔔":
		return 10
	default:
		return 5
	}
}

// Payout converts a spin into a balance delta for the given stake. A losing
// spin returns the negated stake.
func Payout(stake int64, res SpinResult) int64 {
	if res.Multiplier == 0 {
		return -stake
	}
	return stake * (res.Multiplier - 1)
}
