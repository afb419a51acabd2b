package game

// Rank is one tier of the experience ladder.
type Rank struct {
	Name   string
	MinExp int64
}

// ranks is ordered by MinExp ascending. RankFor walks it front to back.
var ranks = []Rank{
	{Name: "🐀 Шестёрка", MinExp: 0},
	{Name: "🔪 Гопник", MinExp: 100},
	{Name: "💼 Барыга", MinExp: 300},
	{Name: "🔫 Братан", MinExp: 700},
	{Name: "👊 Смотрящий", MinExp: 1500},
	{Name: "💰 Авторитет", MinExp: 3000},
	{Name: "👑 Вор в законе", MinExp: 6000},
	{Name: "🌑 Теневой король", MinExp: 12000},
}

// RankFor returns the highest rank whose threshold the experience clears.
func RankFor(experience int64) Rank {
	current := ranks[0]
	for _, r := range ranks {
		if experience >= r.MinExp {
			current = r
		} else {
			break
		}
	}
	return current
}

// NextRank returns the next tier above the experience, or nil at the top.
func NextRank(experience int64) *Rank {
	for i := range ranks {
		if experience < ranks[i].MinExp {
			return &ranks[i]
		}
	}
	return nil
}

// ExpProgress returns experience earned within the current tier and the
// total needed to reach the next one. The second value is 0 at the top tier.
func ExpProgress(experience int64) (inRank, needed int64) {
	current := RankFor(experience)
	next := NextRank(experience)
	if next == nil {
		return experience - current.MinExp, 0
	}
	return experience - current.MinExp, next.MinExp - current.MinExp
}

// Level is a coarse 1-based tier index used as the luck stat in crime and
// attack odds.
func Level(experience int64) int {
	level := 1
	for i, r := range ranks {
		if experience >= r.MinExp {
			level = i + 1
		}
	}
	return level
}
