package profile

import "strings"

// Gender labels. Unknown is kept until the cumulative confidence clears the
// threshold of the calling path.
const (
	GenderFemale  = "женский"
	GenderMale    = "мужской"
	GenderUnknown = "unknown"
)

// Confidence thresholds. The incremental update path labels at 0.55 while
// the standalone analysis path labels at 0.6. The asymmetry is inherited
// behavior, not an accident to be unified.
const (
	GenderThresholdIncremental = 0.55
	GenderThresholdAnalysis    = 0.6
)

// Marker weights for the lexical scan.
const (
	genderWeightVerb   = 3
	genderWeightAdj    = 2
	genderWeightPhrase = 10
)

// GenderResult carries the per-message score deltas plus the label and
// confidence computed from the cumulative (prior + delta) scores.
type GenderResult struct {
	FemaleDelta float64
	MaleDelta   float64
	Label       string
	Confidence  float64
}

// GenderClassifier scores gendered language markers against the lexicon.
type GenderClassifier struct {
	lex *Lexicon
}

// NewGenderClassifier returns a classifier over the given lexicon.
func NewGenderClassifier(lex *Lexicon) *GenderClassifier {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &GenderClassifier{lex: lex}
}

// Classify scans one message for gender markers and combines the resulting
// deltas with the prior cumulative scores. Both per-gender lexicons are
// checked independently, so a single message can score both sides.
//
// When the message carries no lexical signal and no score has accumulated
// yet, the first name is consulted as a fallback. The label is only
// assigned when the confidence reaches the given threshold; otherwise the
// label stays unknown and the caller decides whether to retain a prior one.
func (c *GenderClassifier) Classify(text string, priorFemale, priorMale float64, name string, threshold float64) GenderResult {
	lower := strings.ToLower(text)

	// Verb and adjective markers match whole words: the female forms
	// contain the male forms as prefixes ("сделала" vs "сделал"), so a
	// substring scan would score both sides on every female form.
	words := tokenize(lower)

	res := GenderResult{Label: GenderUnknown}
	res.FemaleDelta = scoreWords(words, c.lex.FemaleVerbMarkers, genderWeightVerb) +
		scoreWords(words, c.lex.FemaleAdjMarkers, genderWeightAdj) +
		scorePhrases(lower, c.lex.FemaleSelfPhrases, genderWeightPhrase)
	res.MaleDelta = scoreWords(words, c.lex.MaleVerbMarkers, genderWeightVerb) +
		scoreWords(words, c.lex.MaleAdjMarkers, genderWeightAdj) +
		scorePhrases(lower, c.lex.MaleSelfPhrases, genderWeightPhrase)

	cumFemale := priorFemale + res.FemaleDelta
	cumMale := priorMale + res.MaleDelta
	total := cumFemale + cumMale

	if total <= 0 {
		label, confidence := c.classifyByName(name)
		res.Confidence = confidence
		if confidence >= threshold {
			res.Label = label
		}
		return res
	}

	dominant := cumFemale
	label := GenderFemale
	if cumMale > cumFemale {
		dominant = cumMale
		label = GenderMale
	}
	res.Confidence = dominant / total
	if res.Confidence >= threshold {
		res.Label = label
	}
	return res
}

// classifyByName infers gender from a first name when no lexical markers
// accumulated. Known female names and the a/я-ending male exception list win
// at 0.6; a generic а/я ending hints female at 0.4.
func (c *GenderClassifier) classifyByName(name string) (string, float64) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return GenderUnknown, 0
	}

	for _, f := range c.lex.FemaleNames {
		if n == f {
			return GenderFemale, 0.6
		}
	}
	for _, m := range c.lex.MaleNamesEndingInA {
		if n == m {
			return GenderMale, 0.6
		}
	}

	runes := []rune(n)
	if len(runes) > 2 {
		last := runes[len(runes)-1]
		if last == 'а' || last == 'я' {
			return GenderFemale, 0.4
		}
	}
	return GenderUnknown, 0
}

func tokenize(lower string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(lower, -1) {
		words[w] = struct{}{}
	}
	return words
}

func scoreWords(words map[string]struct{}, markers []string, weight int) float64 {
	var score float64
	for _, m := range markers {
		if _, ok := words[m]; ok {
			score += float64(weight)
		}
	}
	return score
}

func scorePhrases(lower string, phrases []string, weight int) float64 {
	var score float64
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			score += float64(weight)
		}
	}
	return score
}
