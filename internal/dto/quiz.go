package dto

import (
	"time"

	"quizcraft/internal/domain"
)

// UploadNotesRequest carries pasted study text.
// @Description Request body for uploading raw study notes
type UploadNotesRequest struct {
	Text string `json:"text"`
}

// SegmentResponse represents one topic segment in the API response
type SegmentResponse struct {
	ID        int    `json:"id"`
	Order     int    `json:"order"`
	Heading   string `json:"heading,omitempty"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

// UploadNotesResponse previews the segmentation of uploaded notes
type UploadNotesResponse struct {
	Segments  []SegmentResponse `json:"segments"`
	Topics    []string          `json:"topics"`
	WordCount int               `json:"word_count"`
}

// PreferencesRequest is the generation configuration in the API request
// @Description Quiz generation preferences
type PreferencesRequest struct {
	QuestionType       string `json:"question_type"`
	NumQuestions       int    `json:"num_questions"`
	Difficulty         string `json:"difficulty"`
	MCQDistractorType  string `json:"mcq_distractor_type"`
	SAQAnswerStyle     string `json:"saq_answer_style"`
	IncludeHints       bool   `json:"include_hints"`
	IncludeSectionRefs bool   `json:"include_section_refs"`
}

// ToDomain converts the request into domain preferences, applying the
// same defaults the original wizard used.
func (p PreferencesRequest) ToDomain() domain.Preferences {
	questionType := domain.QuestionType(p.QuestionType)
	if questionType == "" {
		questionType = domain.QuestionTypeMixed
	}
	distractor := p.MCQDistractorType
	if distractor == "" {
		distractor = domain.DistractorExamStyle
	}
	answerStyle := p.SAQAnswerStyle
	if answerStyle == "" {
		answerStyle = domain.AnswerStyleFull
	}
	return domain.Preferences{
		QuestionType:       questionType,
		NumQuestions:       p.NumQuestions,
		Difficulty:         domain.DifficultyToInt(p.Difficulty),
		MCQDistractorType:  distractor,
		SAQAnswerStyle:     answerStyle,
		IncludeHints:       p.IncludeHints,
		IncludeSectionRefs: p.IncludeSectionRefs,
	}
}

// CreateQuizRequest asks for a quiz over the given text
// @Description Request body for generating a quiz
type CreateQuizRequest struct {
	Text        string             `json:"text"`
	Preferences PreferencesRequest `json:"preferences"`
}

// QuestionResponse represents a question in the API response. The type
// field discriminates the variant; MCQ fields and SAQ fields are never
// both set.
type QuestionResponse struct {
	Index            int      `json:"index"`
	Type             string   `json:"type"`
	Question         string   `json:"question"`
	Difficulty       string   `json:"difficulty"`
	Hint             string   `json:"hint,omitempty"`
	SectionReference *int     `json:"section_reference,omitempty"`
	Options          []string `json:"options,omitempty"`
	CorrectAnswer    *int     `json:"correct_answer,omitempty"`
	Explanation      string   `json:"explanation,omitempty"`
	ModelAnswer      string   `json:"model_answer,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
}

// QuestionFromDomain maps a domain question onto the wire shape.
func QuestionFromDomain(q domain.Question) QuestionResponse {
	core := q.Core()
	resp := QuestionResponse{
		Index:            core.Index,
		Type:             string(q.Type()),
		Question:         core.Text,
		Difficulty:       domain.DifficultyToString(core.Difficulty),
		Hint:             core.Hint,
		SectionReference: core.SectionRef,
	}
	switch v := q.(type) {
	case *domain.MCQQuestion:
		correct := v.CorrectAnswer
		resp.Options = v.Options
		resp.CorrectAnswer = &correct
		resp.Explanation = v.Explanation
	case *domain.SAQQuestion:
		resp.ModelAnswer = v.ModelAnswer
		resp.Keywords = v.Keywords
	}
	return resp
}

// QuizResponse represents a quiz in the API response. Partial is true
// whenever fewer questions than requested could be produced.
type QuizResponse struct {
	ID        string             `json:"id"`
	Questions []QuestionResponse `json:"questions"`
	Requested int                `json:"requested"`
	Produced  int                `json:"produced"`
	Partial   bool               `json:"partial"`
	CreatedAt time.Time          `json:"created_at"`
}

// QuizFromDomain maps a domain quiz onto the wire shape.
func QuizFromDomain(quiz *domain.Quiz) *QuizResponse {
	questions := make([]QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, QuestionFromDomain(q))
	}
	return &QuizResponse{
		ID:        quiz.ID,
		Questions: questions,
		Requested: quiz.Requested,
		Produced:  len(quiz.Questions),
		Partial:   quiz.Partial,
		CreatedAt: quiz.CreatedAt,
	}
}

// SubmitAnswerRequest submits one answer for grading. MCQ submissions
// set SelectedOption; SAQ submissions set AnswerText.
type SubmitAnswerRequest struct {
	QuestionIndex  int    `json:"question_index"`
	SelectedOption *int   `json:"selected_option,omitempty"`
	AnswerText     string `json:"answer_text,omitempty"`
}

// EvaluationResponse represents an SAQ grading result in the API response
type EvaluationResponse struct {
	KeywordsFound   []string `json:"keywords_found"`
	KeywordsMissing []string `json:"keywords_missing"`
	OverallScore    float64  `json:"overall_score"`
	Feedback        string   `json:"feedback"`
	Degraded        bool     `json:"degraded"`
}

// EvaluationFromDomain maps a domain evaluation onto the wire shape.
func EvaluationFromDomain(e *domain.Evaluation) *EvaluationResponse {
	return &EvaluationResponse{
		KeywordsFound:   e.KeywordsFound,
		KeywordsMissing: e.KeywordsMissing,
		OverallScore:    e.OverallScore,
		Feedback:        e.Feedback,
		Degraded:        e.Degraded,
	}
}

// SubmitAnswerResponse reports the grading outcome for one submission
type SubmitAnswerResponse struct {
	Type       string              `json:"type"`
	Correct    *bool               `json:"correct,omitempty"`
	Evaluation *EvaluationResponse `json:"evaluation,omitempty"`
	Answered   int                 `json:"answered"`
	Total      int                 `json:"total"`
	Complete   bool                `json:"complete"`
}

// ResultEntryResponse is one graded tuple in the session history
type ResultEntryResponse struct {
	Question        QuestionResponse    `json:"question"`
	SubmittedOption *int                `json:"submitted_option,omitempty"`
	SubmittedText   string              `json:"submitted_text,omitempty"`
	Correct         *bool               `json:"correct,omitempty"`
	Evaluation      *EvaluationResponse `json:"evaluation,omitempty"`
	AnsweredAt      time.Time           `json:"answered_at"`
}

// SessionResultResponse is the full ordered history of a completed session
type SessionResultResponse struct {
	QuizID      string                `json:"quiz_id"`
	Entries     []ResultEntryResponse `json:"entries"`
	CompletedAt time.Time             `json:"completed_at"`
}

// SessionResultFromDomain maps a completed session history onto the wire shape.
func SessionResultFromDomain(result *domain.SessionResult) *SessionResultResponse {
	entries := make([]ResultEntryResponse, 0, len(result.Entries))
	for _, e := range result.Entries {
		entry := ResultEntryResponse{
			Question:      QuestionFromDomain(e.Question),
			SubmittedText: e.SubmittedText,
			AnsweredAt:    e.AnsweredAt,
		}
		if e.Question.Type() == domain.QuestionTypeMCQ {
			option := e.SubmittedOption
			correct := e.Correct
			entry.SubmittedOption = &option
			entry.Correct = &correct
		}
		if e.Evaluation != nil {
			entry.Evaluation = EvaluationFromDomain(e.Evaluation)
		}
		entries = append(entries, entry)
	}
	return &SessionResultResponse{
		QuizID:      result.QuizID,
		Entries:     entries,
		CompletedAt: result.CompletedAt,
	}
}

// HistoryItemResponse summarizes one stored quiz
type HistoryItemResponse struct {
	QuizID    string    `json:"quiz_id"`
	Requested int       `json:"requested"`
	Produced  int       `json:"produced"`
	Partial   bool      `json:"partial"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse lists stored quizzes, newest first
type HistoryResponse struct {
	Quizzes []HistoryItemResponse `json:"quizzes"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
