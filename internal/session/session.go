package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quizcraft/internal/domain"
)

// State is the session lifecycle phase.
type State string

const (
	StateCollecting State = "collecting"
	StateComplete   State = "complete"
)

// SAQEvaluator grades a free-text answer. The session routes SAQ
// submissions here and performs no scoring math of its own.
type SAQEvaluator interface {
	Evaluate(ctx context.Context, userAnswer string, question *domain.SAQQuestion) (*domain.Evaluation, error)
}

// Session presents one quiz and collects one graded answer per question,
// in order. Answers are append-only: a graded question can never be
// re-submitted and no question can be skipped. Sessions are independent
// of each other; the internal lock only serializes submissions to this
// session.
type Session struct {
	mu        sync.Mutex
	quiz      *domain.Quiz
	evaluator SAQEvaluator
	entries   []domain.ResultEntry
	completed time.Time
}

// New creates a session for the given quiz.
func New(quiz *domain.Quiz, evaluator SAQEvaluator) (*Session, error) {
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		quiz:      quiz,
		evaluator: evaluator,
		entries:   make([]domain.ResultEntry, 0, len(quiz.Questions)),
	}, nil
}

// Quiz returns the quiz this session presents.
func (s *Session) Quiz() *domain.Quiz {
	return s.quiz
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == len(s.quiz.Questions) {
		return StateComplete
	}
	return StateCollecting
}

// Answered returns how many questions have been graded so far.
func (s *Session) Answered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// SubmitMCQ grades the option choice for the question at questionIndex.
// Grading is local and instantaneous.
func (s *Session) SubmitMCQ(questionIndex, option int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	question, err := s.nextQuestion(questionIndex)
	if err != nil {
		return false, err
	}
	mcq, ok := question.(*domain.MCQQuestion)
	if !ok {
		return false, domain.NewInvalidInputError("question is not multiple-choice")
	}
	if option < 0 || option >= len(mcq.Options) {
		return false, domain.NewInvalidInputError("submitted option is out of range")
	}

	correct := mcq.IsCorrect(option)
	s.record(domain.ResultEntry{
		Question:        question,
		SubmittedOption: option,
		Correct:         correct,
		AnsweredAt:      time.Now(),
	})
	return correct, nil
}

// SubmitSAQ routes the free-text answer to the evaluator and records the
// evaluation. On evaluator failure nothing is committed and the question
// stays open.
func (s *Session) SubmitSAQ(ctx context.Context, questionIndex int, answer string) (*domain.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	question, err := s.nextQuestion(questionIndex)
	if err != nil {
		return nil, err
	}
	saq, ok := question.(*domain.SAQQuestion)
	if !ok {
		return nil, domain.NewInvalidInputError("question is not short-answer")
	}

	evaluation, err := s.evaluator.Evaluate(ctx, answer, saq)
	if err != nil {
		return nil, err
	}

	s.record(domain.ResultEntry{
		Question:        question,
		SubmittedOption: -1,
		SubmittedText:   answer,
		Evaluation:      evaluation,
		AnsweredAt:      time.Now(),
	})
	return evaluation, nil
}

// Result exposes the full ordered history once every question is graded.
func (s *Session) Result() (*domain.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) != len(s.quiz.Questions) {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("session is not complete: %d of %d questions graded",
				len(s.entries), len(s.quiz.Questions)))
	}
	entries := make([]domain.ResultEntry, len(s.entries))
	copy(entries, s.entries)
	return &domain.SessionResult{
		QuizID:      s.quiz.ID,
		Entries:     entries,
		CompletedAt: s.completed,
	}, nil
}

// nextQuestion enforces the in-order, no-resubmission rules and returns
// the question the submission must target.
func (s *Session) nextQuestion(questionIndex int) (domain.Question, error) {
	if questionIndex < 0 || questionIndex >= len(s.quiz.Questions) {
		return nil, domain.NewInvalidInputError("question index is out of range")
	}
	if questionIndex < len(s.entries) {
		return nil, domain.NewError(domain.ErrQuestionAlreadyGraded,
			fmt.Sprintf("question %d has already been graded", questionIndex), nil)
	}
	if questionIndex > len(s.entries) {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("questions must be answered in order; next is %d", len(s.entries)))
	}
	return s.quiz.Questions[questionIndex], nil
}

func (s *Session) record(entry domain.ResultEntry) {
	s.entries = append(s.entries, entry)
	if len(s.entries) == len(s.quiz.Questions) {
		s.completed = time.Now()
	}
}
