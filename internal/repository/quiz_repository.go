package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"quizcraft/internal/domain"

	"github.com/jmoiron/sqlx"
)

// StoredQuiz is a quiz together with the source material and preferences
// it was generated from, as needed for regeneration and session rebuild.
type StoredQuiz struct {
	Quiz        *domain.Quiz
	SourceText  string
	Preferences domain.Preferences
}

// QuizSummary is one line of the history listing.
type QuizSummary struct {
	QuizID    string
	Requested int
	Produced  int
	Partial   bool
	CreatedAt time.Time
}

// QuizRepository persists quizzes and completed session results.
type QuizRepository interface {
	SaveQuiz(ctx context.Context, quiz *domain.Quiz, sourceText string, prefs domain.Preferences) error
	GetQuiz(ctx context.Context, id string) (*StoredQuiz, error)
	ListQuizzes(ctx context.Context, limit int) ([]QuizSummary, error)
	SaveResult(ctx context.Context, result *domain.SessionResult) error
	GetResult(ctx context.Context, quizID string) (*domain.SessionResult, error)
}

// sqlxQuizRepository implements QuizRepository against sqlite.
type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a QuizRepository backed by the given DB.
func NewSQLXQuizRepository(db *sqlx.DB) QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func (r *sqlxQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz, sourceText string, prefs domain.Preferences) error {
	questions, err := marshalQuestions(quiz.Questions)
	if err != nil {
		return domain.NewInternalError("failed to serialize questions", err)
	}
	prefsJSON, err := json.Marshal(preferencesRecordFromDomain(prefs))
	if err != nil {
		return domain.NewInternalError("failed to serialize preferences", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO quizzes (id, source_text, preferences, questions, requested, produced, partial, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		quiz.ID, sourceText, string(prefsJSON), questions,
		quiz.Requested, len(quiz.Questions), quiz.Partial, quiz.CreatedAt)
	if err != nil {
		return domain.NewInternalError("failed to save quiz", err)
	}
	return nil
}

func (r *sqlxQuizRepository) GetQuiz(ctx context.Context, id string) (*StoredQuiz, error) {
	var row quizRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, source_text, preferences, questions, requested, produced, partial, created_at
		FROM quizzes WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}

	questions, err := unmarshalQuestions(row.Questions)
	if err != nil {
		return nil, domain.NewInternalError("failed to deserialize questions", err)
	}
	var prefs preferencesRecord
	if err := json.Unmarshal([]byte(row.Prefs), &prefs); err != nil {
		return nil, domain.NewInternalError("failed to deserialize preferences", err)
	}

	return &StoredQuiz{
		Quiz: &domain.Quiz{
			ID:        row.ID,
			Questions: questions,
			Requested: row.Requested,
			Partial:   row.Partial,
			CreatedAt: row.CreatedAt,
		},
		SourceText:  row.SourceText,
		Preferences: prefs.toDomain(),
	}, nil
}

func (r *sqlxQuizRepository) ListQuizzes(ctx context.Context, limit int) ([]QuizSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []quizRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, source_text, preferences, questions, requested, produced, partial, created_at
		FROM quizzes ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}

	summaries := make([]QuizSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, QuizSummary{
			QuizID:    row.ID,
			Requested: row.Requested,
			Produced:  row.Produced,
			Partial:   row.Partial,
			CreatedAt: row.CreatedAt,
		})
	}
	return summaries, nil
}

func (r *sqlxQuizRepository) SaveResult(ctx context.Context, result *domain.SessionResult) error {
	entries, err := marshalEntries(result.Entries)
	if err != nil {
		return domain.NewInternalError("failed to serialize session result", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO session_results (quiz_id, entries, completed_at)
		VALUES (?, ?, ?)`,
		result.QuizID, entries, result.CompletedAt)
	if err != nil {
		return domain.NewInternalError("failed to save session result", err)
	}
	return nil
}

func (r *sqlxQuizRepository) GetResult(ctx context.Context, quizID string) (*domain.SessionResult, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, `
		SELECT quiz_id, entries, completed_at
		FROM session_results WHERE quiz_id = ?`, quizID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to load session result", err)
	}

	entries, err := unmarshalEntries(row.Entries)
	if err != nil {
		return nil, domain.NewInternalError("failed to deserialize session result", err)
	}
	return &domain.SessionResult{
		QuizID:      row.QuizID,
		Entries:     entries,
		CompletedAt: row.CompletedAt,
	}, nil
}
