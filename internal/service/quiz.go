package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"quizcraft/internal/cache"
	"quizcraft/internal/domain"
	"quizcraft/internal/dto"
	"quizcraft/internal/logger"
	"quizcraft/internal/repository"
	"quizcraft/internal/segmenter"
	"quizcraft/internal/session"
	"quizcraft/internal/synthesizer"

	"go.uber.org/zap"
)

const quizCacheTTL = 24 * time.Hour

// QuizService defines the quiz-facing operations exposed to transport.
type QuizService interface {
	PreviewNotes(ctx context.Context, text string) (*dto.UploadNotesResponse, error)
	CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error)
	SubmitAnswer(ctx context.Context, quizID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	GetResults(ctx context.Context, quizID string) (*dto.SessionResultResponse, error)
	GetHistory(ctx context.Context, limit int) (*dto.HistoryResponse, error)
	RegenerateQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error)
}

// quizService implements QuizService. Active sessions live in memory;
// quizzes and completed results are persisted through the repository,
// with rendered quiz payloads going through the cache on reads.
type quizService struct {
	segmenter   *segmenter.Segmenter
	synthesizer *synthesizer.Synthesizer
	evaluator   session.SAQEvaluator
	repo        repository.QuizRepository
	cache       domain.Cache

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewQuizService creates a new instance of quizService.
func NewQuizService(
	seg *segmenter.Segmenter,
	synth *synthesizer.Synthesizer,
	evaluator session.SAQEvaluator,
	repo repository.QuizRepository,
	cacheClient domain.Cache,
) QuizService {
	return &quizService{
		segmenter:   seg,
		synthesizer: synth,
		evaluator:   evaluator,
		repo:        repo,
		cache:       cacheClient,
		sessions:    make(map[string]*session.Session),
	}
}

// PreviewNotes segments pasted text so the caller can inspect the
// detected topics before generating a quiz.
func (s *quizService) PreviewNotes(ctx context.Context, text string) (*dto.UploadNotesResponse, error) {
	segments, err := s.segmenter.Segment(text)
	if err != nil {
		return nil, err
	}

	resp := &dto.UploadNotesResponse{
		Segments:  make([]dto.SegmentResponse, 0, len(segments)),
		Topics:    []string{},
		WordCount: len(strings.Fields(text)),
	}
	for _, seg := range segments {
		resp.Segments = append(resp.Segments, dto.SegmentResponse{
			ID:        seg.ID,
			Order:     seg.Order,
			Heading:   seg.Heading,
			Text:      seg.Text,
			WordCount: seg.WordCount,
		})
		if seg.Heading != "" {
			resp.Topics = append(resp.Topics, seg.Heading)
		}
	}
	return resp, nil
}

// CreateQuiz segments the text, synthesizes a quiz and opens a session
// for it.
func (s *quizService) CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	segments, err := s.segmenter.Segment(req.Text)
	if err != nil {
		return nil, err
	}

	prefs := req.Preferences.ToDomain()
	quiz, err := s.synthesizer.Synthesize(ctx, segments, prefs)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(quiz, s.evaluator)
	if err != nil {
		return nil, domain.NewInternalError("failed to open quiz session", err)
	}

	s.mu.Lock()
	s.sessions[quiz.ID] = sess
	s.mu.Unlock()

	// History persistence is supporting infrastructure: a failed save
	// must not invalidate a quiz the caller can already take.
	if err := s.repo.SaveQuiz(ctx, quiz, req.Text, prefs); err != nil {
		logger.Get().Warn("Failed to persist quiz", zap.Error(err), zap.String("quizID", quiz.ID))
	}

	response := dto.QuizFromDomain(quiz)
	s.cacheQuizResponse(ctx, response)
	return response, nil
}

// GetQuiz returns a quiz by ID, trying the cache before the repository.
func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	key := s.quizCacheKey(quizID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var response dto.QuizResponse
		if err := json.Unmarshal([]byte(cached), &response); err == nil {
			return &response, nil
		}
		logger.Get().Warn("Discarding unparseable cached quiz payload", zap.String("quizID", quizID))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Error("Cache read failed", zap.Error(err), zap.String("quizID", quizID))
	}

	stored, err := s.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	response := dto.QuizFromDomain(stored.Quiz)
	s.cacheQuizResponse(ctx, response)
	return response, nil
}

// SubmitAnswer routes one answer to MCQ auto-grading or the SAQ
// evaluator via the quiz's session.
func (s *quizService) SubmitAnswer(ctx context.Context, quizID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	sess, err := s.getSession(ctx, quizID)
	if err != nil {
		return nil, err
	}

	question, err := sess.Quiz().Question(req.QuestionIndex)
	if err != nil {
		return nil, err
	}

	response := &dto.SubmitAnswerResponse{
		Type:  string(question.Type()),
		Total: len(sess.Quiz().Questions),
	}

	switch question.Type() {
	case domain.QuestionTypeMCQ:
		if req.SelectedOption == nil {
			return nil, domain.NewInvalidInputError("selected_option is required for a multiple-choice question")
		}
		correct, err := sess.SubmitMCQ(req.QuestionIndex, *req.SelectedOption)
		if err != nil {
			return nil, err
		}
		response.Correct = &correct
	case domain.QuestionTypeSAQ:
		evaluation, err := sess.SubmitSAQ(ctx, req.QuestionIndex, req.AnswerText)
		if err != nil {
			return nil, err
		}
		response.Evaluation = dto.EvaluationFromDomain(evaluation)
	}

	response.Answered = sess.Answered()
	response.Complete = sess.State() == session.StateComplete
	if response.Complete {
		s.persistResult(ctx, sess)
	}
	return response, nil
}

// GetResults exposes the ordered grading history of a completed quiz.
func (s *quizService) GetResults(ctx context.Context, quizID string) (*dto.SessionResultResponse, error) {
	s.mu.RLock()
	sess, ok := s.sessions[quizID]
	s.mu.RUnlock()

	if ok && sess.State() == session.StateComplete {
		result, err := sess.Result()
		if err != nil {
			return nil, err
		}
		return dto.SessionResultFromDomain(result), nil
	}

	result, err := s.repo.GetResult(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, domain.NewNotFoundError("no completed results for quiz " + quizID)
	}
	return dto.SessionResultFromDomain(result), nil
}

// GetHistory lists stored quizzes, newest first.
func (s *quizService) GetHistory(ctx context.Context, limit int) (*dto.HistoryResponse, error) {
	summaries, err := s.repo.ListQuizzes(ctx, limit)
	if err != nil {
		return nil, err
	}
	response := &dto.HistoryResponse{Quizzes: make([]dto.HistoryItemResponse, 0, len(summaries))}
	for _, summary := range summaries {
		response.Quizzes = append(response.Quizzes, dto.HistoryItemResponse{
			QuizID:    summary.QuizID,
			Requested: summary.Requested,
			Produced:  summary.Produced,
			Partial:   summary.Partial,
			CreatedAt: summary.CreatedAt,
		})
	}
	return response, nil
}

// RegenerateQuiz re-runs synthesis with a stored quiz's source text and
// preferences, producing a fresh quiz and session.
func (s *quizService) RegenerateQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	stored, err := s.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	return s.CreateQuiz(ctx, &dto.CreateQuizRequest{
		Text: stored.SourceText,
		Preferences: dto.PreferencesRequest{
			QuestionType:       string(stored.Preferences.QuestionType),
			NumQuestions:       stored.Preferences.NumQuestions,
			Difficulty:         domain.DifficultyToString(stored.Preferences.Difficulty),
			MCQDistractorType:  stored.Preferences.MCQDistractorType,
			SAQAnswerStyle:     stored.Preferences.SAQAnswerStyle,
			IncludeHints:       stored.Preferences.IncludeHints,
			IncludeSectionRefs: stored.Preferences.IncludeSectionRefs,
		},
	})
}

// getSession returns the live session for a quiz, rebuilding one from
// the repository after a restart.
func (s *quizService) getSession(ctx context.Context, quizID string) (*session.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[quizID]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	stored, err := s.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	sess, err = session.New(stored.Quiz, s.evaluator)
	if err != nil {
		return nil, domain.NewInternalError("failed to rebuild quiz session", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[quizID]; ok {
		return existing, nil
	}
	s.sessions[quizID] = sess
	return sess, nil
}

func (s *quizService) persistResult(ctx context.Context, sess *session.Session) {
	result, err := sess.Result()
	if err != nil {
		logger.Get().Error("Completed session produced no result", zap.Error(err))
		return
	}
	if err := s.repo.SaveResult(ctx, result); err != nil {
		logger.Get().Warn("Failed to persist session result",
			zap.Error(err), zap.String("quizID", result.QuizID))
	}
}

func (s *quizService) cacheQuizResponse(ctx context.Context, response *dto.QuizResponse) {
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.quizCacheKey(response.ID), string(payload), quizCacheTTL); err != nil {
		logger.Get().Warn("Failed to cache quiz payload",
			zap.Error(err), zap.String("quizID", response.ID))
	}
}

func (s *quizService) quizCacheKey(quizID string) string {
	return cache.GenerateCacheKey("quiz", "payload", quizID)
}
