package repository

import (
	"encoding/json"
	"time"

	"quizcraft/internal/domain"
)

// quizRow mirrors the quizzes table. Questions and preferences are
// stored as JSON documents; sqlite has no native array type and the
// payloads are only ever read back whole.
type quizRow struct {
	ID         string    `db:"id"`
	SourceText string    `db:"source_text"`
	Prefs      string    `db:"preferences"`
	Questions  string    `db:"questions"`
	Requested  int       `db:"requested"`
	Produced   int       `db:"produced"`
	Partial    bool      `db:"partial"`
	CreatedAt  time.Time `db:"created_at"`
}

type resultRow struct {
	QuizID      string    `db:"quiz_id"`
	Entries     string    `db:"entries"`
	CompletedAt time.Time `db:"completed_at"`
}

type preferencesRecord struct {
	QuestionType       string `json:"question_type"`
	NumQuestions       int    `json:"num_questions"`
	Difficulty         int    `json:"difficulty"`
	MCQDistractorType  string `json:"mcq_distractor_type"`
	SAQAnswerStyle     string `json:"saq_answer_style"`
	IncludeHints       bool   `json:"include_hints"`
	IncludeSectionRefs bool   `json:"include_section_refs"`
}

func preferencesRecordFromDomain(p domain.Preferences) preferencesRecord {
	return preferencesRecord{
		QuestionType:       string(p.QuestionType),
		NumQuestions:       p.NumQuestions,
		Difficulty:         p.Difficulty,
		MCQDistractorType:  p.MCQDistractorType,
		SAQAnswerStyle:     p.SAQAnswerStyle,
		IncludeHints:       p.IncludeHints,
		IncludeSectionRefs: p.IncludeSectionRefs,
	}
}

func (r preferencesRecord) toDomain() domain.Preferences {
	return domain.Preferences{
		QuestionType:       domain.QuestionType(r.QuestionType),
		NumQuestions:       r.NumQuestions,
		Difficulty:         r.Difficulty,
		MCQDistractorType:  r.MCQDistractorType,
		SAQAnswerStyle:     r.SAQAnswerStyle,
		IncludeHints:       r.IncludeHints,
		IncludeSectionRefs: r.IncludeSectionRefs,
	}
}

// questionRecord is the storage shape of the question tagged union.
type questionRecord struct {
	Index         int      `json:"index"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Difficulty    int      `json:"difficulty"`
	Hint          string   `json:"hint,omitempty"`
	SectionRef    *int     `json:"section_reference,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer int      `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	ModelAnswer   string   `json:"model_answer,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

func questionRecordFromDomain(q domain.Question) questionRecord {
	core := q.Core()
	record := questionRecord{
		Index:      core.Index,
		Type:       string(q.Type()),
		Question:   core.Text,
		Difficulty: core.Difficulty,
		Hint:       core.Hint,
		SectionRef: core.SectionRef,
	}
	switch v := q.(type) {
	case *domain.MCQQuestion:
		record.Options = v.Options
		record.CorrectAnswer = v.CorrectAnswer
		record.Explanation = v.Explanation
	case *domain.SAQQuestion:
		record.ModelAnswer = v.ModelAnswer
		record.Keywords = v.Keywords
	}
	return record
}

func (r questionRecord) toDomain() (domain.Question, error) {
	core := domain.QuestionCore{
		Index:      r.Index,
		Text:       r.Question,
		Difficulty: r.Difficulty,
		Hint:       r.Hint,
		SectionRef: r.SectionRef,
	}
	switch domain.QuestionType(r.Type) {
	case domain.QuestionTypeMCQ:
		return &domain.MCQQuestion{
			QuestionCore:  core,
			Options:       r.Options,
			CorrectAnswer: r.CorrectAnswer,
			Explanation:   r.Explanation,
		}, nil
	case domain.QuestionTypeSAQ:
		return &domain.SAQQuestion{
			QuestionCore: core,
			ModelAnswer:  r.ModelAnswer,
			Keywords:     r.Keywords,
		}, nil
	default:
		return nil, domain.NewInternalError("stored question has unknown type: "+r.Type, nil)
	}
}

func marshalQuestions(questions []domain.Question) (string, error) {
	records := make([]questionRecord, 0, len(questions))
	for _, q := range questions {
		records = append(records, questionRecordFromDomain(q))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalQuestions(data string) ([]domain.Question, error) {
	var records []questionRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	questions := make([]domain.Question, 0, len(records))
	for _, r := range records {
		q, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

type evaluationRecord struct {
	KeywordsFound   []string  `json:"keywords_found"`
	KeywordsMissing []string  `json:"keywords_missing"`
	OverallScore    float64   `json:"overall_score"`
	Feedback        string    `json:"feedback"`
	Degraded        bool      `json:"degraded"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
}

type resultEntryRecord struct {
	Question        questionRecord    `json:"question"`
	SubmittedOption int               `json:"submitted_option"`
	SubmittedText   string            `json:"submitted_text,omitempty"`
	Correct         bool              `json:"correct"`
	Evaluation      *evaluationRecord `json:"evaluation,omitempty"`
	AnsweredAt      time.Time         `json:"answered_at"`
}

func marshalEntries(entries []domain.ResultEntry) (string, error) {
	records := make([]resultEntryRecord, 0, len(entries))
	for _, e := range entries {
		record := resultEntryRecord{
			Question:        questionRecordFromDomain(e.Question),
			SubmittedOption: e.SubmittedOption,
			SubmittedText:   e.SubmittedText,
			Correct:         e.Correct,
			AnsweredAt:      e.AnsweredAt,
		}
		if e.Evaluation != nil {
			record.Evaluation = &evaluationRecord{
				KeywordsFound:   e.Evaluation.KeywordsFound,
				KeywordsMissing: e.Evaluation.KeywordsMissing,
				OverallScore:    e.Evaluation.OverallScore,
				Feedback:        e.Evaluation.Feedback,
				Degraded:        e.Evaluation.Degraded,
				EvaluatedAt:     e.Evaluation.EvaluatedAt,
			}
		}
		records = append(records, record)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalEntries(data string) ([]domain.ResultEntry, error) {
	var records []resultEntryRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	entries := make([]domain.ResultEntry, 0, len(records))
	for _, r := range records {
		q, err := r.Question.toDomain()
		if err != nil {
			return nil, err
		}
		entry := domain.ResultEntry{
			Question:        q,
			SubmittedOption: r.SubmittedOption,
			SubmittedText:   r.SubmittedText,
			Correct:         r.Correct,
			AnsweredAt:      r.AnsweredAt,
		}
		if r.Evaluation != nil {
			entry.Evaluation = &domain.Evaluation{
				KeywordsFound:   r.Evaluation.KeywordsFound,
				KeywordsMissing: r.Evaluation.KeywordsMissing,
				OverallScore:    r.Evaluation.OverallScore,
				Feedback:        r.Evaluation.Feedback,
				Degraded:        r.Evaluation.Degraded,
				EvaluatedAt:     r.Evaluation.EvaluatedAt,
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
