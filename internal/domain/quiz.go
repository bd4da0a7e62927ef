package domain

import "time"

// Quiz is an ordered, read-only sequence of questions produced by one
// synthesis call. Requested records how many questions the caller asked
// for; Partial is true whenever fewer could be produced, so a degraded
// result is never mistaken for the full requested count.
type Quiz struct {
	ID        string
	Questions []Question
	Requested int
	Partial   bool
	CreatedAt time.Time
}

// NewQuiz creates a Quiz from validated questions.
func NewQuiz(id string, questions []Question, requested int) *Quiz {
	return &Quiz{
		ID:        id,
		Questions: questions,
		Requested: requested,
		Partial:   len(questions) < requested,
		CreatedAt: time.Now(),
	}
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	if q.ID == "" {
		return NewInvalidInputError("quiz ID is required")
	}
	if len(q.Questions) == 0 {
		return NewInvalidInputError("a quiz needs at least one question")
	}
	for i, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return err
		}
		if question.Core().Index != i {
			return NewInvalidInputError("question index must match presentation order")
		}
	}
	return nil
}

// Question returns the question at the given index.
func (q *Quiz) Question(index int) (Question, error) {
	if index < 0 || index >= len(q.Questions) {
		return nil, NewInvalidInputError("question index is out of range")
	}
	return q.Questions[index], nil
}
