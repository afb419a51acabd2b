package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
)

var topMedals = []string{"🥇", "🥈", "🥉", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// FormatPlayerCard renders the criminal dossier card for one player.
func FormatPlayerCard(p *database.Player, now time.Time) string {
	rank := RankFor(p.Experience)
	inRank, needed := ExpProgress(p.Experience)

	var progress string
	if needed > 0 {
		filled := int(inRank * 10 / needed)
		progress = fmt.Sprintf("[%s%s] %d/%d",
			strings.Repeat("█", filled), strings.Repeat("░", 10-filled), inRank, needed)
	} else {
		progress = "[██████████] МАКС"
	}

	total := p.CrimesSuccess + p.CrimesFailed
	winrate := 0.0
	if total > 0 {
		winrate = float64(p.CrimesSuccess) / float64(total) * 100
	}

	name := p.FirstName
	if name == "" {
		name = "Аноним"
	}
	if r := []rune(name); len(r) > 20 {
		name = string(r[:20])
	}

	var b strings.Builder
	b.WriteString("📋 КРИМИНАЛЬНОЕ ДОСЬЕ\n")
	fmt.Fprintf(&b, "👤 %s\n", name)
	fmt.Fprintf(&b, "%s\n", rank.Name)
	fmt.Fprintf(&b, "💰 Лавэ: %d\n", p.Balance)
	fmt.Fprintf(&b, "⭐ Опыт: %d\n", p.Experience)
	fmt.Fprintf(&b, "%s\n", progress)
	fmt.Fprintf(&b, "✅ Удачных дел: %d\n", p.CrimesSuccess)
	fmt.Fprintf(&b, "❌ Провалов: %d\n", p.CrimesFailed)
	fmt.Fprintf(&b, "📈 Винрейт: %.1f%%", winrate)

	if p.JailUntil > now.Unix() {
		fmt.Fprintf(&b, "\n⛓️ В ТЮРЬМЕ ещё %d сек!", p.JailUntil-now.Unix())
	}
	return b.String()
}

// FormatTopPlayers renders the chat leaderboard ordered as given.
func FormatTopPlayers(players []*database.Player) string {
	if len(players) == 0 {
		return "🏜️ В этом чате ещё нет криминала... Пока что."
	}

	var b strings.Builder
	b.WriteString("🏆 ТОП АВТОРИТЕТОВ\n\n")
	for i, p := range players {
		if i >= len(topMedals) {
			break
		}
		name := p.FirstName
		if name == "" {
			name = "Аноним"
		}
		fmt.Fprintf(&b, "%s %s — %s\n⭐ %d | 💰 %d\n\n",
			topMedals[i], name, RankFor(p.Experience).Name, p.Experience, p.Balance)
	}
	return strings.TrimRight(b.String(), "\n")
}
