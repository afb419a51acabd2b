package profile

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
)

// Dossier is the formatter output: a trait list plus a single descriptive
// paragraph for embedding into generation prompts.
type Dossier struct {
	Traits      []string
	Description string
}

const maxDossierPhrases = 3

var (
	repeatedDots   = regexp.MustCompile(`\.{2,}`)
	repeatedSpaces = regexp.MustCompile(`\s{2,}`)
)

// Formatter renders profiles into natural-language dossiers. The mapping is
// deterministic: fixed threshold tables over the scalar fields, no
// randomness, no I/O.
type Formatter struct{}

// NewFormatter returns a dossier formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format renders the profile and its interests into a dossier. A nil or
// partially filled profile never panics; absent fields simply contribute no
// traits.
func (f *Formatter) Format(p *database.Profile, interests []*database.Interest) Dossier {
	if p == nil {
		return Dossier{Description: "Профиль пока пуст."}
	}

	traits := f.traits(p)

	var parts []string
	name := strings.TrimSpace(p.FirstName)
	if name == "" {
		name = "Этот участник"
	}
	parts = append(parts, fmt.Sprintf("%s написал %d сообщений.", name, p.TotalMessages))

	if len(traits) > 0 {
		parts = append(parts, "Характер: "+strings.Join(traits, ", ")+".")
	}

	if topics := topInterests(interests, 5); len(topics) > 0 {
		parts = append(parts, "Интересы: "+strings.Join(topics, ", ")+".")
	}

	if mood := f.moodPattern(p); mood != "" {
		parts = append(parts, mood)
	}

	if len(p.TriggerTopics) > 0 {
		parts = append(parts, "Заводится с пол-оборота на темы: "+strings.Join(p.TriggerTopics, ", ")+".")
	}

	if phrases := lastN(p.FavoritePhrases, maxDossierPhrases); len(phrases) > 0 {
		parts = append(parts, "Коронные фразы: «"+strings.Join(phrases, "», «")+"».")
	}

	return Dossier{
		Traits:      traits,
		Description: cleanup(strings.Join(parts, " ")),
	}
}

// traits maps the scalar fields through the fixed threshold tables. Each
// entry is either included or omitted; there are no graded fallthroughs
// beyond the two-tier toxicity split.
func (f *Formatter) traits(p *database.Profile) []string {
	var traits []string

	switch {
	case p.ToxicityScore > 0.5:
		traits = append(traits, "крайне токсичен")
	case p.ToxicityScore > 0.3:
		traits = append(traits, "склонен к токсичности")
	}
	if p.MatRate > 0.3 {
		traits = append(traits, "матерится через слово")
	}
	if p.HumorScore > 0.3 {
		traits = append(traits, "постоянно шутит")
	}
	if p.CapsRate > 0.3 {
		traits = append(traits, "часто пишет капсом")
	}
	if p.SlangRate > 0.3 {
		traits = append(traits, "говорит на молодёжном сленге")
	}
	switch {
	case p.SentimentScore > 0.3:
		traits = append(traits, "в основном позитивен")
	case p.SentimentScore < -0.3:
		traits = append(traits, "в основном негативен")
	}
	if p.QuestionRate > 0.5 {
		traits = append(traits, "задаёт много вопросов")
	}
	if p.EmojiUsageRate > 0.5 {
		traits = append(traits, "обильно сыплет эмодзи")
	}
	if p.VocabularyRichness > 0.8 && p.TotalMessages >= 20 {
		traits = append(traits, "богатый словарный запас")
	}

	switch p.ActivityLevel {
	case "hyperactive":
		traits = append(traits, "живёт в чате")
	case "very_active":
		traits = append(traits, "очень активен")
	case "lurker":
		traits = append(traits, "редко пишет")
	}

	if p.IsNightOwl {
		traits = append(traits, "сова, активен по ночам")
	}
	if p.IsEarlyBird {
		traits = append(traits, "жаворонок, пишет с утра")
	}

	switch p.DetectedGender {
	case GenderFemale:
		traits = append(traits, "судя по речи, женщина")
	case GenderMale:
		traits = append(traits, "судя по речи, мужчина")
	}

	return traits
}

// moodPattern describes the best and worst mood buckets when both exist.
func (f *Formatter) moodPattern(p *database.Profile) string {
	if p.BestMoodDay == "" || p.WorstMoodDay == "" || p.BestMoodDay == p.WorstMoodDay {
		return ""
	}
	return fmt.Sprintf("Лучшее настроение по %s, худшее по %s.",
		ruWeekday(p.BestMoodDay), ruWeekday(p.WorstMoodDay))
}

// topInterests returns up to n topic names ordered by score descending.
func topInterests(interests []*database.Interest, n int) []string {
	sorted := make([]*database.Interest, 0, len(interests))
	for _, in := range interests {
		if in != nil && in.Topic != "" {
			sorted = append(sorted, in)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score == sorted[j].Score {
			return sorted[i].Topic < sorted[j].Topic
		}
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	topics := make([]string, 0, len(sorted))
	for _, in := range sorted {
		topics = append(topics, in.Topic)
	}
	return topics
}

func lastN(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[len(list)-n:]
}

// cleanup collapses repeated periods and whitespace left by concatenating
// fragments that already carry their own punctuation.
func cleanup(s string) string {
	s = repeatedDots.ReplaceAllString(s, ".")
	s = repeatedSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func ruWeekday(day string) string {
	switch day {
	case "monday":
		return "понедельникам"
	case "tuesday":
		return "вторникам"
	case "wednesday":
		return "средам"
	case "thursday":
		return "четвергам"
	case "friday":
		return "пятницам"
	case "saturday":
		return "субботам"
	case "sunday":
		return "воскресеньям"
	default:
		return day
	}
}
