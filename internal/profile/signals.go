// Package profile implements the incremental per-user behavioral profiling
// pipeline: pure text signal extraction, gender classification, streaming
// profile aggregation, replay-based rebuilds, and prompt formatting.
package profile

import (
	"regexp"
	"strings"
	"unicode"
)

// StyleSignals carries the language-style metrics of one message.
type StyleSignals struct {
	Length           int
	CapsRatio        float64
	MatCount         int
	SlangCount       int
	TypoScore        float64
	QuestionCount    int
	ExclamationCount int
	WordCount        int
	UniqueWords      int
}

// SignalBundle is the full feature vector extracted from one message.
// Extraction is pure: no I/O, no stored state, deterministic per input.
type SignalBundle struct {
	Sentiment      float64
	SentimentLabel string

	PositiveHits int
	NegativeHits int
	ToxicHits    int
	HumorHits    int
	EmojiCount   int

	Topics       []string
	Triggers     []string
	Catchphrases []string
	Emojis       []string

	Style StyleSignals
}

const (
	triggerSentimentFloor = 0.2
	maxCatchphrases       = 3
	catchphraseMinLen     = 5
	catchphraseMaxLen     = 80
)

var (
	wordRe        = regexp.MustCompile(`[а-яёa-z0-9]+`)
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
)

// emojiRanges covers the Unicode blocks scanned for emoji codepoints.
var emojiRanges = [][2]rune{
	{0x1F300, 0x1F5FF},
	{0x1F600, 0x1F64F},
	{0x1F680, 0x1F6FF},
	{0x1F900, 0x1F9FF},
	{0x1FA70, 0x1FAFF},
	{0x2600, 0x26FF},
	{0x2700, 0x27BF},
}

// Extractor turns raw message text into a SignalBundle using the lexicon
// tables it was built with.
type Extractor struct {
	lex *Lexicon
	mat []*regexp.Regexp
}

// NewExtractor compiles the lexicon's profanity patterns and returns a
// ready-to-use extractor.
func NewExtractor(lex *Lexicon) *Extractor {
	if lex == nil {
		lex = DefaultLexicon()
	}
	mat := make([]*regexp.Regexp, 0, len(lex.MatPatterns))
	for _, p := range lex.MatPatterns {
		mat = append(mat, regexp.MustCompile(p))
	}
	return &Extractor{lex: lex, mat: mat}
}

// Extract maps message text to its feature vector. Texts shorter than two
// runes produce a zeroed bundle with a neutral label.
func (e *Extractor) Extract(text string) SignalBundle {
	bundle := SignalBundle{SentimentLabel: "neutral"}

	runes := []rune(text)
	if len(runes) < 2 {
		return bundle
	}
	lower := strings.ToLower(text)

	bundle.PositiveHits = countContained(lower, e.lex.PositiveWords)
	bundle.NegativeHits = countContained(lower, e.lex.NegativeWords)
	bundle.ToxicHits = countContained(lower, e.lex.ToxicMarkers)
	bundle.HumorHits = countContained(lower, e.lex.HumorMarkers)

	total := bundle.PositiveHits + bundle.NegativeHits
	if total > 0 {
		bundle.Sentiment = clip(float64(bundle.PositiveHits-bundle.NegativeHits)/float64(total), -1, 1)
	}
	switch {
	case bundle.Sentiment > 0:
		bundle.SentimentLabel = "positive"
	case bundle.Sentiment < 0:
		bundle.SentimentLabel = "negative"
	}

	bundle.Emojis = extractEmojis(runes)
	bundle.EmojiCount = len(bundle.Emojis)
	bundle.Topics = e.extractTopics(lower)
	bundle.Style = e.extractStyle(text, lower, runes)
	bundle.Triggers = e.extractTriggers(lower, bundle.Sentiment)
	bundle.Catchphrases = e.extractCatchphrases(text)

	return bundle
}

func (e *Extractor) extractTopics(lower string) []string {
	var topics []string
	for topic, keywords := range e.lex.Topics {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, topic)
				break
			}
		}
	}
	return topics
}

func (e *Extractor) extractStyle(text, lower string, runes []rune) StyleSignals {
	style := StyleSignals{
		Length:           len(runes),
		QuestionCount:    strings.Count(text, "?"),
		ExclamationCount: strings.Count(text, "!"),
	}

	var letters, uppers int
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters > 0 {
		style.CapsRatio = float64(uppers) / float64(letters)
	}

	for _, re := range e.mat {
		style.MatCount += len(re.FindAllString(lower, -1))
	}
	style.SlangCount = countContained(lower, e.lex.SlangWords)
	style.TypoScore = typoScore(runes)

	words := wordRe.FindAllString(lower, -1)
	style.WordCount = len(words)
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	style.UniqueWords = len(seen)

	return style
}

// typoScore estimates sloppiness from repeated-character runs (length >= 4)
// and punctuation runs (length >= 3), clipped to [0,1].
func typoScore(runes []rune) float64 {
	var score float64
	runLen := 1
	punctLen := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && runes[i] == runes[i-1] && unicode.IsLetter(runes[i]) {
			runLen++
			continue
		}
		if runLen >= 4 {
			score += 0.3
		}
		runLen = 1
	}
	for _, r := range runes {
		if unicode.IsPunct(r) {
			punctLen++
			continue
		}
		if punctLen >= 3 {
			score += 0.2
		}
		punctLen = 0
	}
	if punctLen >= 3 {
		score += 0.2
	}
	return clip(score, 0, 1)
}

func (e *Extractor) extractTriggers(lower string, sentiment float64) []string {
	if sentiment > -triggerSentimentFloor && sentiment < triggerSentimentFloor {
		return nil
	}
	var triggers []string
	for group, keywords := range e.lex.TriggerTopics {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				triggers = append(triggers, group)
				break
			}
		}
	}
	return triggers
}

func (e *Extractor) extractCatchphrases(text string) []string {
	expressive := strings.Contains(text, "!") || strings.Contains(text, "...")
	sentences := sentenceSplit.Split(text, -1)

	var phrases []string
	seen := make(map[string]struct{})
	for _, raw := range sentences {
		if len(phrases) >= maxCatchphrases {
			break
		}
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		sentLower := strings.ToLower(sentence)

		candidate := false
		for _, marker := range e.lex.DiscourseMarkers {
			if strings.HasPrefix(sentLower, marker) {
				candidate = true
				break
			}
		}
		if !candidate && expressive {
			n := len([]rune(sentence))
			candidate = n >= catchphraseMinLen && n <= catchphraseMaxLen
		}
		if !candidate {
			continue
		}
		if _, dup := seen[sentLower]; dup {
			continue
		}
		seen[sentLower] = struct{}{}
		phrases = append(phrases, sentence)
	}
	return phrases
}

func extractEmojis(runes []rune) []string {
	var emojis []string
	for _, r := range runes {
		for _, rng := range emojiRanges {
			if r >= rng[0] && r <= rng[1] {
				emojis = append(emojis, string(r))
				break
			}
		}
	}
	return emojis
}

func countContained(lower string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			count++
		}
	}
	return count
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
