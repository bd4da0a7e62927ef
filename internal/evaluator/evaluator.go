package evaluator

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode"

	"quizcraft/internal/domain"
	"quizcraft/internal/logger"

	"go.uber.org/zap"
)

// DegradedFeedback is the fixed message attached to keyword-ratio-only
// evaluations so they are never mistaken for a full qualitative grading.
const DegradedFeedback = "Automated qualitative grading was unavailable; this score reflects keyword coverage only."

// Config tunes keyword matching. The stemming rule is a policy knob,
// not a fixed algorithm.
type Config struct {
	MinStemLen  int // shortest stem considered for prefix-tolerant matching
	MaxStemDiff int // max length difference between prefix-matched stems
}

// DefaultConfig returns the matching policy used in production.
func DefaultConfig() Config {
	return Config{
		MinStemLen:  4,
		MaxStemDiff: 2,
	}
}

// Evaluator grades free-text SAQ answers. Keyword coverage is computed
// deterministically from the question's fixed keyword set; the numeric
// grade comes from the external judgment capability, falling back to a
// keyword-ratio score when that capability is unavailable.
type Evaluator struct {
	judge domain.AnswerJudge
	cfg   Config
}

// New creates an Evaluator backed by the given judgment capability.
func New(judge domain.AnswerJudge, cfg Config) *Evaluator {
	return &Evaluator{judge: judge, cfg: cfg}
}

// Evaluate grades userAnswer against the question. The returned
// evaluation always satisfies the partition invariant: found and missing
// keywords are disjoint and together cover the question's keyword set.
func (e *Evaluator) Evaluate(ctx context.Context, userAnswer string, question *domain.SAQQuestion) (*domain.Evaluation, error) {
	if strings.TrimSpace(userAnswer) == "" {
		return nil, domain.NewEmptyAnswerError()
	}

	normalized := normalize(userAnswer)
	tokens := strings.Fields(normalized)

	found := []string{}
	missing := []string{}
	for _, kw := range question.Keywords {
		if e.matches(kw, normalized, tokens) {
			found = append(found, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	evaluation := &domain.Evaluation{
		KeywordsFound:   found,
		KeywordsMissing: missing,
		EvaluatedAt:     time.Now(),
	}

	judgment, err := e.judge.JudgeAnswer(ctx, userAnswer, question.ModelAnswer)
	if err != nil {
		logger.Get().Warn("Judgment capability unavailable, falling back to keyword-ratio score",
			zap.Error(err),
			zap.Int("question_index", question.Index))
		evaluation.OverallScore = ratioScore(len(found), len(question.Keywords))
		evaluation.Feedback = DegradedFeedback
		evaluation.Degraded = true
		return evaluation, nil
	}

	evaluation.OverallScore = clampScore(judgment.Score)
	evaluation.Feedback = judgment.Feedback
	return evaluation, nil
}

// matches reports whether a keyword (or a close surface variant) appears
// in the normalized answer. Multi-word keywords match as substrings;
// single words match token-wise with suffix-stemming tolerance.
func (e *Evaluator) matches(keyword, normalized string, tokens []string) bool {
	kw := normalize(keyword)
	if kw == "" {
		return false
	}
	if strings.Contains(kw, " ") {
		return strings.Contains(normalized, kw)
	}
	kwStem := stem(kw)
	for _, t := range tokens {
		if t == kw {
			return true
		}
		if e.stemsMatch(stem(t), kwStem) {
			return true
		}
	}
	return false
}

// stemsMatch compares two stems, tolerating a short trailing divergence
// (e.g. "cytokineses" against "cytokinesis") without letting unrelated
// words collide.
func (e *Evaluator) stemsMatch(a, b string) bool {
	if a == b {
		return true
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < e.cfg.MinStemLen {
		return false
	}
	if len(longer)-len(shorter) > e.cfg.MaxStemDiff {
		return false
	}
	return strings.HasPrefix(longer, shorter)
}

// stem trims a single common suffix. Ordering matters: "ing" and "ed"
// before the plural forms.
func stem(word string) string {
	for _, suffix := range []string{"ing", "ed", "es", "s"} {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

// normalize lowercases, strips punctuation and collapses whitespace.
func normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ratioScore maps keyword coverage onto the 0..10 scale, rounded to one
// decimal so repeated degraded gradings are identical.
func ratioScore(found, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(10*float64(found)/float64(total)*10) / 10
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
