package domain

import (
	"fmt"
	"strings"
)

// QuestionType discriminates the question variants.
type QuestionType string

const (
	QuestionTypeMCQ   QuestionType = "mcq"
	QuestionTypeSAQ   QuestionType = "saq"
	QuestionTypeMixed QuestionType = "mixed" // preference only, never a concrete question
)

// Difficulty levels, stored as ints like grading thresholds elsewhere.
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// DifficultyToInt converts a difficulty name to its level
func DifficultyToInt(diff string) int {
	switch strings.ToLower(diff) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// DifficultyToString converts a difficulty level to its name
func DifficultyToString(diff int) string {
	switch diff {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "medium"
	}
}

// MCQ distractor styles
const (
	DistractorSimple    = "simple"
	DistractorExamStyle = "exam-style"
	DistractorTraps     = "traps"
)

// SAQ model-answer styles
const (
	AnswerStyleKeywords = "keywords"
	AnswerStyleFull     = "full"
)

// Preferences is the immutable generation configuration consumed once
// by the synthesizer.
type Preferences struct {
	QuestionType       QuestionType
	NumQuestions       int
	Difficulty         int
	MCQDistractorType  string
	SAQAnswerStyle     string
	IncludeHints       bool
	IncludeSectionRefs bool
}

// Validate validates the preferences
func (p Preferences) Validate() error {
	switch p.QuestionType {
	case QuestionTypeMCQ, QuestionTypeSAQ, QuestionTypeMixed:
	default:
		return NewInvalidInputError(fmt.Sprintf("unknown question type: %s", p.QuestionType))
	}
	if p.NumQuestions < 5 || p.NumQuestions > 30 {
		return NewInvalidInputError("num_questions must be between 5 and 30")
	}
	if p.Difficulty < DifficultyEasy || p.Difficulty > DifficultyHard {
		return NewInvalidInputError("difficulty must be easy, medium or hard")
	}
	switch p.MCQDistractorType {
	case DistractorSimple, DistractorExamStyle, DistractorTraps:
	default:
		return NewInvalidInputError(fmt.Sprintf("unknown distractor type: %s", p.MCQDistractorType))
	}
	switch p.SAQAnswerStyle {
	case AnswerStyleKeywords, AnswerStyleFull:
	default:
		return NewInvalidInputError(fmt.Sprintf("unknown answer style: %s", p.SAQAnswerStyle))
	}
	return nil
}

// QuestionCore carries the fields shared by both question variants.
// SectionRef points at a Segment.ID and is nil when section references
// are disabled or unknown.
type QuestionCore struct {
	Index      int
	Text       string
	Difficulty int
	Hint       string // empty when hints are disabled
	SectionRef *int
}

// Question is the tagged union over the MCQ and SAQ variants. Modeling
// the variants as separate types keeps invalid combinations (an MCQ with
// keywords, an SAQ with options) unrepresentable.
type Question interface {
	Type() QuestionType
	Core() QuestionCore
	Validate() error
}

// MCQQuestion is a multiple-choice question.
type MCQQuestion struct {
	QuestionCore
	Options       []string
	CorrectAnswer int // index into Options
	Explanation   string
}

func (q *MCQQuestion) Type() QuestionType { return QuestionTypeMCQ }
func (q *MCQQuestion) Core() QuestionCore { return q.QuestionCore }

// Validate validates the MCQ invariants
func (q *MCQQuestion) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) < 2 {
		return NewInvalidInputError("an MCQ needs at least 2 options")
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return NewInvalidInputError("MCQ options must not be blank")
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return NewInvalidInputError("correct_answer is out of range")
	}
	return nil
}

// IsCorrect reports whether the submitted option index is the right one.
func (q *MCQQuestion) IsCorrect(submitted int) bool {
	return submitted == q.CorrectAnswer
}

// SAQQuestion is a short-answer question. Keywords are derived from the
// model answer at synthesis time so grading stays reproducible no matter
// when the answer is submitted.
type SAQQuestion struct {
	QuestionCore
	ModelAnswer string
	Keywords    []string
}

func (q *SAQQuestion) Type() QuestionType { return QuestionTypeSAQ }
func (q *SAQQuestion) Core() QuestionCore { return q.QuestionCore }

// Validate validates the SAQ invariants
func (q *SAQQuestion) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewInvalidInputError("question text is required")
	}
	if strings.TrimSpace(q.ModelAnswer) == "" {
		return NewInvalidInputError("model answer is required")
	}
	if len(q.Keywords) == 0 {
		return NewInvalidInputError("at least one keyword is required")
	}
	return nil
}
