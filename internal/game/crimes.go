package game

import (
	"math/rand"
)

// Crime is one entry of the crime catalog.
type Crime struct {
	Name            string
	Emoji           string
	SuccessRate     int
	MinReward       int64
	MaxReward       int64
	CooldownSeconds int
	ExpSuccess      int64
	ExpFail         int64
	SuccessMessages []string
	FailMessages    []string
}

// crimes is ordered from petty to legendary. Index positions are stable:
// callback data references crimes by index.
var crimes = []Crime{
	{
		Name:        "Обнести ларёк",
		Emoji:       "🏪",
		SuccessRate: 80, MinReward: 50, MaxReward: 150,
		CooldownSeconds: 30, ExpSuccess: 10, ExpFail: 2,
		SuccessMessages: []string{
			"Ларёк обчищен, сторож даже не проснулся. +%d лавэ!",
			"Замок поддался с первого раза. В кармане +%d!",
		},
		FailMessages: []string{
			"Сработала сигнализация, пришлось делать ноги!",
			"Сторож оказался бывшим десантником. Еле ушёл!",
		},
	},
	{
		Name:        "Угнать тачку",
		Emoji:       "🚗",
		SuccessRate: 60, MinReward: 200, MaxReward: 500,
		CooldownSeconds: 120, ExpSuccess: 25, ExpFail: 5,
		SuccessMessages: []string{
			"Тачка ушла перекупам за %d. Чистая работа!",
			"Завёл с проводов за минуту. +%d в общак!",
		},
		FailMessages: []string{
			"Хозяин вышел покурить в самый неподходящий момент!",
			"Иммобилайзер оказался хитрее. Пустой улов!",
		},
	},
	{
		Name:        "Взять инкассатора",
		Emoji:       "💼",
		SuccessRate: 40, MinReward: 600, MaxReward: 1500,
		CooldownSeconds: 300, ExpSuccess: 50, ExpFail: 10,
		SuccessMessages: []string{
			"Инкассатор сам отдал сумку. +%d лавэ!",
			"Операция прошла как по нотам. +%d!",
		},
		FailMessages: []string{
			"Охрана оказалась не из пугливых. Отход с пустыми руками!",
			"Маршрут поменяли в последний момент. Облом!",
		},
	},
	{
		Name:        "Ограбить банк",
		Emoji:       "🏦",
		SuccessRate: 20, MinReward: 2000, MaxReward: 5000,
		CooldownSeconds: 900, ExpSuccess: 100, ExpFail: 20,
		SuccessMessages: []string{
			"Хранилище вскрыто! Легендарный куш: +%d!",
			"Город ещё долго будет говорить об этом деле. +%d!",
		},
		FailMessages: []string{
			"Спецназ приехал быстрее, чем ты добежал до кассы!",
			"Подельник сдал всех на первом же допросе!",
		},
	},
}

// Crimes returns the crime catalog.
func Crimes() []Crime {
	return crimes
}

// CrimeByIndex returns the crime at index, or nil when out of range.
func CrimeByIndex(i int) *Crime {
	if i < 0 || i >= len(crimes) {
		return nil
	}
	return &crimes[i]
}

// CrimeSucceeds rolls the success check. The base rate gets a luck bonus of
// half the player's level, clamped to [5,95] so nothing is ever a sure
// thing in either direction.
func CrimeSucceeds(rng *rand.Rand, crime *Crime, experience int64) bool {
	chance := float64(crime.SuccessRate) + float64(Level(experience))*0.5
	chance = clampFloat(chance, 5, 95)
	return float64(rng.Intn(100)+1) <= chance
}

// CrimeReward rolls the payout inside the crime's reward band, scaled up by
// the player's level.
func CrimeReward(rng *rand.Rand, crime *Crime, experience int64) int64 {
	base := crime.MinReward
	if span := crime.MaxReward - crime.MinReward; span > 0 {
		base += rng.Int63n(span + 1)
	}
	multiplier := 1 + float64(Level(experience))/100
	return int64(float64(base) * multiplier)
}

// CrimeMessage picks a flavor line for the outcome. Success messages carry
// a %d placeholder for the reward.
func CrimeMessage(rng *rand.Rand, crime *Crime, success bool) string {
	var pool []string
	if success {
		pool = crime.SuccessMessages
	} else {
		pool = crime.FailMessages
	}
	if len(pool) == 0 {
		if success {
			return "Операция завершена. +%d!"
		}
		return "Операция провалена."
	}
	return pool[rng.Intn(len(pool))]
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
