package keyword

import (
	"sort"
	"strings"
	"unicode"

	"quizcraft/internal/domain"
)

// Config tunes keyword extraction. Extraction must stay deterministic:
// keywords are embedded into a question once and reused for every grading
// of that question.
type Config struct {
	TargetCount      int     // keywords to select when the caller passes none
	MinContentWords  int     // below this the model answer is unusable
	FirstClauseBoost float64 // terms in the opening clause rank slightly higher
	PhraseBoost      float64 // recurring bigrams rank above their parts
}

// DefaultConfig returns the extraction policy used in production.
func DefaultConfig() Config {
	return Config{
		TargetCount:      5,
		MinContentWords:  3,
		FirstClauseBoost: 0.25,
		PhraseBoost:      0.3,
	}
}

// Extractor derives a canonical keyword set from a model answer.
type Extractor struct {
	cfg Config
}

// New creates an Extractor with the given configuration.
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

type token struct {
	display string
	norm    string
	pos     int
}

type candidate struct {
	display  string
	norm     string
	score    float64
	firstPos int
}

// Extract selects up to targetCount keywords from modelAnswer. Candidates
// are ranked by specificity (inverse in-answer frequency), with a small
// boost for terms in the first clause since model answers front-load the
// core claim. Recurring adjacent content-word pairs are kept as phrases.
// The result is deduplicated case-insensitively but keeps the casing of
// the first occurrence for display.
func (e *Extractor) Extract(modelAnswer string, targetCount int) ([]string, error) {
	if targetCount <= 0 {
		targetCount = e.cfg.TargetCount
	}

	content := contentTokens(modelAnswer)
	if len(content) < e.cfg.MinContentWords {
		return nil, domain.NewInsufficientContentError(
			"model answer has too few content words for keyword extraction")
	}

	clauseEnd := firstClauseEnd(modelAnswer)

	freq := make(map[string]int)
	first := make(map[string]*token)
	for i := range content {
		t := &content[i]
		freq[t.norm]++
		if _, ok := first[t.norm]; !ok {
			first[t.norm] = t
		}
	}

	// Adjacent content words that recur together become phrase candidates.
	bigramFreq := make(map[string]int)
	bigramFirst := make(map[string]*[2]token)
	for i := 0; i+1 < len(content); i++ {
		a, b := content[i], content[i+1]
		if b.pos != a.pos+1 {
			continue
		}
		key := a.norm + " " + b.norm
		bigramFreq[key]++
		if _, ok := bigramFirst[key]; !ok {
			pair := [2]token{a, b}
			bigramFirst[key] = &pair
		}
	}

	inPhrase := make(map[string]bool)
	var candidates []candidate
	for key, n := range bigramFreq {
		if n < 2 {
			continue
		}
		pair := bigramFirst[key]
		candidates = append(candidates, candidate{
			display:  pair[0].display + " " + pair[1].display,
			norm:     key,
			score:    1.0/float64(n) + e.cfg.PhraseBoost + e.positionBoost(pair[0].pos, clauseEnd),
			firstPos: pair[0].pos,
		})
		inPhrase[pair[0].norm] = true
		inPhrase[pair[1].norm] = true
	}

	for norm, t := range first {
		if inPhrase[norm] {
			continue
		}
		candidates = append(candidates, candidate{
			display:  t.display,
			norm:     norm,
			score:    1.0/float64(freq[norm]) + e.positionBoost(t.pos, clauseEnd),
			firstPos: t.pos,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].firstPos != candidates[j].firstPos {
			return candidates[i].firstPos < candidates[j].firstPos
		}
		return candidates[i].norm < candidates[j].norm
	})

	seen := make(map[string]bool)
	var keywords []string
	for _, c := range candidates {
		if seen[c.norm] {
			continue
		}
		seen[c.norm] = true
		keywords = append(keywords, c.display)
		if len(keywords) == targetCount {
			break
		}
	}
	return keywords, nil
}

func (e *Extractor) positionBoost(pos, clauseEnd int) float64 {
	if pos < clauseEnd {
		return e.cfg.FirstClauseBoost
	}
	return 0
}

// contentTokens splits text into word tokens, dropping stop-words,
// punctuation and short fragments. Position indexes the full token
// sequence so phrase adjacency survives the filtering.
func contentTokens(text string) []token {
	fields := splitWords(text)
	var out []token
	for i, f := range fields {
		norm := strings.ToLower(f)
		if len([]rune(norm)) < 3 || stopWords[norm] || isNumeric(norm) {
			continue
		}
		out = append(out, token{display: f, norm: norm, pos: i})
	}
	return out
}

// splitWords breaks text into runs of letters and digits.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// firstClauseEnd returns the token index just past the first clause,
// delimited by the first comma, semicolon, colon or sentence end.
func firstClauseEnd(text string) int {
	cut := len(text)
	for _, d := range []string{",", ";", ":", ".", "!", "?"} {
		if i := strings.Index(text, d); i >= 0 && i < cut {
			cut = i
		}
	}
	return len(splitWords(text[:cut]))
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
