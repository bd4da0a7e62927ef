package domain

import "context"

// GenerationRequest describes one question slot for the external
// generation capability. The segment text is the only grounding context
// the generator sees for the slot.
type GenerationRequest struct {
	Type            QuestionType // mcq or saq, never mixed
	SegmentHeading  string
	SegmentText     string
	Difficulty      int
	DistractorStyle string // MCQ only
	AnswerStyle     string // SAQ only
	WithHint        bool
}

// Candidate is the structured output of one generation call, before
// schema validation. MCQ slots fill Options/CorrectAnswer/Explanation;
// SAQ slots fill ModelAnswer.
type Candidate struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
	ModelAnswer   string   `json:"model_answer,omitempty"`
	Hint          string   `json:"hint,omitempty"`
}

// QuestionGenerator is the external generation capability. It is treated
// as unreliable: output is validated before acceptance and calls are
// retried at most once.
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, req GenerationRequest) (*Candidate, error)
}

// Judgment is the qualitative verdict on a short answer.
type Judgment struct {
	Score    float64 `json:"score"` // 0..10
	Feedback string  `json:"feedback"`
}

// AnswerJudge is the external judgment capability used for SAQ grading.
// Same reliability posture as QuestionGenerator.
type AnswerJudge interface {
	JudgeAnswer(ctx context.Context, userAnswer, modelAnswer string) (*Judgment, error)
}
