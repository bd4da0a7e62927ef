package domain

import "time"

// Evaluation is the grading result for one SAQ submission. KeywordsFound
// and KeywordsMissing always partition the question's keyword set.
// Degraded marks a keyword-ratio-only score produced while qualitative
// judgment was unavailable; it is part of the payload so the caller can
// tell it apart from a full evaluation.
type Evaluation struct {
	KeywordsFound   []string
	KeywordsMissing []string
	OverallScore    float64 // 0..10
	Feedback        string
	Degraded        bool
	EvaluatedAt     time.Time
}

// Validate checks the partition invariant against the question's keywords.
func (e *Evaluation) Validate(keywords []string) error {
	if e.OverallScore < 0 || e.OverallScore > 10 {
		return NewInvalidInputError("overall score must be within [0, 10]")
	}
	seen := make(map[string]bool, len(e.KeywordsFound)+len(e.KeywordsMissing))
	for _, kw := range e.KeywordsFound {
		seen[kw] = true
	}
	for _, kw := range e.KeywordsMissing {
		if seen[kw] {
			return NewInvalidInputError("found and missing keyword sets must be disjoint")
		}
		seen[kw] = true
	}
	if len(seen) != len(keywords) {
		return NewInvalidInputError("found and missing keywords must cover the keyword set")
	}
	for _, kw := range keywords {
		if !seen[kw] {
			return NewInvalidInputError("found and missing keywords must cover the keyword set")
		}
	}
	return nil
}

// ResultEntry is one (question, answer, verdict) tuple in a session's
// history. Exactly one of Correct (MCQ) and Evaluation (SAQ) is
// meaningful, matching the question variant.
type ResultEntry struct {
	Question        Question
	SubmittedOption int    // MCQ option index; -1 for SAQ entries
	SubmittedText   string // SAQ free-text answer; empty for MCQ entries
	Correct         bool
	Evaluation      *Evaluation
	AnsweredAt      time.Time
}

// SessionResult is the full ordered history exposed once a session
// completes. It is never mutated afterwards.
type SessionResult struct {
	QuizID      string
	Entries     []ResultEntry
	CompletedAt time.Time
}
