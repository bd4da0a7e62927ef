package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizcraft/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSAQEvaluator struct {
	mock.Mock
}

func (m *MockSAQEvaluator) Evaluate(ctx context.Context, userAnswer string, question *domain.SAQQuestion) (*domain.Evaluation, error) {
	args := m.Called(ctx, userAnswer, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func testQuiz() *domain.Quiz {
	questions := []domain.Question{
		&domain.MCQQuestion{
			QuestionCore:  domain.QuestionCore{Index: 0, Text: "Which organelle makes ATP?", Difficulty: domain.DifficultyEasy},
			Options:       []string{"Nucleus", "Mitochondrion", "Ribosome"},
			CorrectAnswer: 1,
		},
		&domain.SAQQuestion{
			QuestionCore: domain.QuestionCore{Index: 1, Text: "Describe mitosis.", Difficulty: domain.DifficultyMedium},
			ModelAnswer:  "Mitosis divides the nucleus into identical daughter cells",
			Keywords:     []string{"mitosis", "nucleus", "daughter"},
		},
		&domain.MCQQuestion{
			QuestionCore:  domain.QuestionCore{Index: 2, Text: "Where does glycolysis occur?", Difficulty: domain.DifficultyEasy},
			Options:       []string{"Cytoplasm", "Nucleus"},
			CorrectAnswer: 0,
		},
	}
	return domain.NewQuiz("quiz-1", questions, 3)
}

func testEvaluation() *domain.Evaluation {
	return &domain.Evaluation{
		KeywordsFound:   []string{"mitosis", "nucleus"},
		KeywordsMissing: []string{"daughter"},
		OverallScore:    7.0,
		Feedback:        "Mostly right.",
		EvaluatedAt:     time.Now(),
	}
}

func TestSessionGradesInOrder(t *testing.T) {
	evaluator := new(MockSAQEvaluator)
	evaluator.On("Evaluate", mock.Anything, "mitosis splits the nucleus", mock.Anything).
		Return(testEvaluation(), nil)

	sess, err := New(testQuiz(), evaluator)
	require.NoError(t, err)
	assert.Equal(t, StateCollecting, sess.State())

	// Skipping ahead is rejected.
	_, err = sess.SubmitMCQ(2, 0)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))

	correct, err := sess.SubmitMCQ(0, 1)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, 1, sess.Answered())

	// A graded question can never be re-submitted.
	_, err = sess.SubmitMCQ(0, 2)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrQuestionAlreadyGraded))

	evaluation, err := sess.SubmitSAQ(context.Background(), 1, "mitosis splits the nucleus")
	require.NoError(t, err)
	assert.Equal(t, 7.0, evaluation.OverallScore)

	// Results are unavailable until every question is graded.
	_, err = sess.Result()
	require.Error(t, err)

	correct, err = sess.SubmitMCQ(2, 1)
	require.NoError(t, err)
	assert.False(t, correct)
	assert.Equal(t, StateComplete, sess.State())

	result, err := sess.Result()
	require.NoError(t, err)
	assert.Equal(t, "quiz-1", result.QuizID)
	require.Len(t, result.Entries, 3)
	assert.True(t, result.Entries[0].Correct)
	assert.Equal(t, -1, result.Entries[1].SubmittedOption)
	assert.Equal(t, "mitosis splits the nucleus", result.Entries[1].SubmittedText)
	assert.False(t, result.Entries[2].Correct)
	assert.False(t, result.CompletedAt.IsZero())
}

func TestSessionRejectsWrongSubmissionKind(t *testing.T) {
	sess, err := New(testQuiz(), new(MockSAQEvaluator))
	require.NoError(t, err)

	_, err = sess.SubmitSAQ(context.Background(), 0, "an essay about ATP")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))

	_, err = sess.SubmitMCQ(0, 7)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, sess.Answered())
}

func TestSessionKeepsQuestionOpenOnEvaluatorFailure(t *testing.T) {
	evaluator := new(MockSAQEvaluator)
	evaluator.On("Evaluate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("judge unreachable")).Once()
	evaluator.On("Evaluate", mock.Anything, mock.Anything, mock.Anything).
		Return(testEvaluation(), nil)

	sess, err := New(testQuiz(), evaluator)
	require.NoError(t, err)

	_, err = sess.SubmitMCQ(0, 1)
	require.NoError(t, err)

	_, err = sess.SubmitSAQ(context.Background(), 1, "mitosis")
	require.Error(t, err)
	assert.Equal(t, 1, sess.Answered())

	// Nothing was committed, so the same question accepts a retry.
	evaluation, err := sess.SubmitSAQ(context.Background(), 1, "mitosis")
	require.NoError(t, err)
	assert.NotNil(t, evaluation)
	assert.Equal(t, 2, sess.Answered())
}

func TestSessionRejectsInvalidQuiz(t *testing.T) {
	quiz := testQuiz()
	quiz.ID = ""
	_, err := New(quiz, new(MockSAQEvaluator))
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
}
