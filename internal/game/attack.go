package game

import "math/rand"

// Attack outcome experience rewards.
const (
	ExpAttackWin  = 30
	ExpAttackLose = 5
)

var attackSuccessMessages = []string{
	"⚔️ Наезд удался! %s вытряс из %s %d лавэ!",
	"💪 %s прижал %s в тёмном переулке и забрал %d!",
	"🔥 %s провёл разборку по понятиям. %s отдал %d без разговоров!",
}

var attackFailMessages = []string{
	"💀 %s получил отпор от %s и уполз зализывать раны!",
	"🛡️ %s недооценил %s. Разборка закончилась позором!",
	"😵 %s наехал на %s и тут же пожалел об этом!",
}

var attackNoMoneyMessages = []string{
	"🏜️ %s наехал на %s, но у того в карманах только дырки!",
	"💸 %s вытряс %s до последней нитки. Нитка и досталась!",
}

// AttackSucceeds rolls the PvP check. Base 50% shifted by the level gap and
// the experience gap, clamped to [20,80] so the underdog always has a
// fighting chance.
func AttackSucceeds(rng *rand.Rand, attackerExp, victimExp int64) bool {
	levelEdge := float64(Level(attackerExp)) - float64(Level(victimExp))*0.7
	expEdge := float64(attackerExp-victimExp) / 100
	chance := clampFloat(50+levelEdge+expEdge, 20, 80)
	return float64(rng.Intn(100)+1) <= chance
}

// StealAmount rolls how much the winner takes: 10-30% of the victim's
// balance, or everything when the balance is pocket change.
func StealAmount(rng *rand.Rand, victimBalance int64) int64 {
	if victimBalance <= 0 {
		return 0
	}

	maxSteal := victimBalance * 30 / 100
	minSteal := victimBalance * 10 / 100
	if maxSteal < 10 {
		return victimBalance
	}
	if minSteal < 1 {
		minSteal = 1
	}
	if maxSteal < minSteal {
		maxSteal = minSteal
	}
	return minSteal + rng.Int63n(maxSteal-minSteal+1)
}

// AttackMessage picks a flavor line for the attack outcome. Success lines
// take (attacker, victim, amount); fail and no-money lines take (attacker,
// victim).
func AttackMessage(rng *rand.Rand, success, hasMoney bool) string {
	var pool []string
	switch {
	case success && !hasMoney:
		pool = attackNoMoneyMessages
	case success:
		pool = attackSuccessMessages
	default:
		pool = attackFailMessages
	}
	return pool[rng.Intn(len(pool))]
}
