package service

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"quizcraft/internal/config"
	"quizcraft/internal/domain"
	"quizcraft/internal/dto"
	"quizcraft/internal/keyword"
	"quizcraft/internal/logger"
	"quizcraft/internal/repository"
	"quizcraft/internal/segmenter"
	"quizcraft/internal/synthesizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- Mocks ---

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz, sourceText string, prefs domain.Preferences) error {
	args := m.Called(ctx, quiz, sourceText, prefs)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuiz(ctx context.Context, id string) (*repository.StoredQuiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.StoredQuiz), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzes(ctx context.Context, limit int) ([]repository.QuizSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.QuizSummary), args.Error(1)
}

func (m *MockQuizRepository) SaveResult(ctx context.Context, result *domain.SessionResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockQuizRepository) GetResult(ctx context.Context, quizID string) (*domain.SessionResult, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionResult), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) GenerateQuestion(ctx context.Context, req domain.GenerationRequest) (*domain.Candidate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

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

// --- Fixtures ---

type serviceFixture struct {
	service   QuizService
	repo      *MockQuizRepository
	cache     *MockCache
	generator *MockQuestionGenerator
	evaluator *MockSAQEvaluator
}

func newFixture() *serviceFixture {
	repo := new(MockQuizRepository)
	cacheMock := new(MockCache)
	generator := new(MockQuestionGenerator)
	evaluator := new(MockSAQEvaluator)

	seg := segmenter.New(segmenter.DefaultConfig())
	synth := synthesizer.New(generator, keyword.New(keyword.DefaultConfig()), 1)

	return &serviceFixture{
		service:   NewQuizService(seg, synth, evaluator, repo, cacheMock),
		repo:      repo,
		cache:     cacheMock,
		generator: generator,
		evaluator: evaluator,
	}
}

func mcqCandidate() *domain.Candidate {
	return &domain.Candidate{
		Question:      "Which phase separates sister chromatids?",
		Options:       []string{"Prophase", "Anaphase", "Telophase"},
		CorrectAnswer: 1,
		Explanation:   "Chromatids separate during anaphase.",
	}
}

const sourceText = "Cell Biology\nMitosis is how somatic cells divide and copy their genome faithfully."

func createRequest() *dto.CreateQuizRequest {
	return &dto.CreateQuizRequest{
		Text: sourceText,
		Preferences: dto.PreferencesRequest{
			QuestionType: "mcq",
			NumQuestions: 5,
			Difficulty:   "easy",
		},
	}
}

func storedQuizFixture(id string) *repository.StoredQuiz {
	questions := []domain.Question{
		&domain.MCQQuestion{
			QuestionCore:  domain.QuestionCore{Index: 0, Text: "Which phase separates sister chromatids?", Difficulty: domain.DifficultyEasy},
			Options:       []string{"Prophase", "Anaphase", "Telophase"},
			CorrectAnswer: 1,
		},
	}
	return &repository.StoredQuiz{
		Quiz:       domain.NewQuiz(id, questions, 1),
		SourceText: sourceText,
		Preferences: domain.Preferences{
			QuestionType:      domain.QuestionTypeMCQ,
			NumQuestions:      5,
			Difficulty:        domain.DifficultyEasy,
			MCQDistractorType: domain.DistractorExamStyle,
			SAQAnswerStyle:    domain.AnswerStyleFull,
		},
	}
}

// --- Tests ---

func TestPreviewNotes(t *testing.T) {
	f := newFixture()

	resp, err := f.service.PreviewNotes(context.Background(), sourceText)
	require.NoError(t, err)

	require.Len(t, resp.Segments, 1)
	assert.Equal(t, []string{"Cell Biology"}, resp.Topics)
	assert.Equal(t, 13, resp.WordCount)
}

func TestPreviewNotesEmptyInput(t *testing.T) {
	f := newFixture()

	_, err := f.service.PreviewNotes(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrEmptyInput))
}

func TestCreateQuiz(t *testing.T) {
	f := newFixture()
	f.generator.On("GenerateQuestion", mock.Anything, mock.Anything).Return(mcqCandidate(), nil)
	f.repo.On("SaveQuiz", mock.Anything, mock.Anything, sourceText, mock.Anything).Return(nil)
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.CreateQuiz(context.Background(), createRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 5, resp.Requested)
	assert.Equal(t, 5, resp.Produced)
	assert.False(t, resp.Partial)
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestCreateQuizSurvivesPersistenceFailure(t *testing.T) {
	f := newFixture()
	f.generator.On("GenerateQuestion", mock.Anything, mock.Anything).Return(mcqCandidate(), nil)
	f.repo.On("SaveQuiz", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.NewInternalError("disk full", nil))
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.CreateQuiz(context.Background(), createRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}

func TestGetQuizCacheHit(t *testing.T) {
	f := newFixture()

	cached, err := json.Marshal(&dto.QuizResponse{ID: "01CACHED", Requested: 5})
	require.NoError(t, err)
	f.cache.On("Get", mock.Anything, "quizcraft:quiz:payload:01CACHED").
		Return(string(cached), nil)

	resp, err := f.service.GetQuiz(context.Background(), "01CACHED")
	require.NoError(t, err)
	assert.Equal(t, "01CACHED", resp.ID)
	f.repo.AssertNotCalled(t, "GetQuiz", mock.Anything, mock.Anything)
}

func TestGetQuizCacheMiss(t *testing.T) {
	f := newFixture()
	f.cache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.repo.On("GetQuiz", mock.Anything, "01STORED").Return(storedQuizFixture("01STORED"), nil)

	resp, err := f.service.GetQuiz(context.Background(), "01STORED")
	require.NoError(t, err)
	assert.Equal(t, "01STORED", resp.ID)
	assert.Equal(t, 1, resp.Produced)
	f.cache.AssertExpectations(t)
}

func TestGetQuizNotFound(t *testing.T) {
	f := newFixture()
	f.cache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	f.repo.On("GetQuiz", mock.Anything, "missing").Return(nil, nil)

	_, err := f.service.GetQuiz(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrQuizNotFound))
}

func TestSubmitAnswerCompletesSession(t *testing.T) {
	f := newFixture()
	f.generator.On("GenerateQuestion", mock.Anything, mock.Anything).Return(mcqCandidate(), nil)
	f.repo.On("SaveQuiz", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.repo.On("SaveResult", mock.Anything, mock.Anything).Return(nil)
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, err := f.service.CreateQuiz(context.Background(), createRequest())
	require.NoError(t, err)

	option := 1
	var last *dto.SubmitAnswerResponse
	for i := 0; i < 5; i++ {
		last, err = f.service.SubmitAnswer(context.Background(), created.ID, &dto.SubmitAnswerRequest{
			QuestionIndex:  i,
			SelectedOption: &option,
		})
		require.NoError(t, err)
		require.NotNil(t, last.Correct)
		assert.True(t, *last.Correct)
		assert.Equal(t, i+1, last.Answered)
	}
	assert.True(t, last.Complete)
	f.repo.AssertCalled(t, "SaveResult", mock.Anything, mock.Anything)

	results, err := f.service.GetResults(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, results.Entries, 5)
}

func TestSubmitAnswerRebuildsSessionFromStore(t *testing.T) {
	f := newFixture()
	f.repo.On("GetQuiz", mock.Anything, "01STORED").Return(storedQuizFixture("01STORED"), nil)
	f.repo.On("SaveResult", mock.Anything, mock.Anything).Return(nil)

	option := 1
	resp, err := f.service.SubmitAnswer(context.Background(), "01STORED", &dto.SubmitAnswerRequest{
		QuestionIndex:  0,
		SelectedOption: &option,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Correct)
	assert.True(t, *resp.Correct)
	assert.True(t, resp.Complete)
}

func TestSubmitAnswerRequiresOptionForMCQ(t *testing.T) {
	f := newFixture()
	f.repo.On("GetQuiz", mock.Anything, "01STORED").Return(storedQuizFixture("01STORED"), nil)

	_, err := f.service.SubmitAnswer(context.Background(), "01STORED", &dto.SubmitAnswerRequest{
		QuestionIndex: 0,
		AnswerText:    "anaphase",
	})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
}

func TestSubmitAnswerUnknownQuiz(t *testing.T) {
	f := newFixture()
	f.repo.On("GetQuiz", mock.Anything, "missing").Return(nil, nil)

	option := 0
	_, err := f.service.SubmitAnswer(context.Background(), "missing", &dto.SubmitAnswerRequest{
		QuestionIndex:  0,
		SelectedOption: &option,
	})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrQuizNotFound))
}

func TestGetResultsFromStore(t *testing.T) {
	f := newFixture()
	stored := &domain.SessionResult{
		QuizID: "01DONE",
		Entries: []domain.ResultEntry{
			{
				Question: &domain.MCQQuestion{
					QuestionCore:  domain.QuestionCore{Index: 0, Text: "Q?", Difficulty: domain.DifficultyEasy},
					Options:       []string{"a", "b"},
					CorrectAnswer: 0,
				},
				SubmittedOption: 0,
				Correct:         true,
				AnsweredAt:      time.Now(),
			},
		},
		CompletedAt: time.Now(),
	}
	f.repo.On("GetResult", mock.Anything, "01DONE").Return(stored, nil)

	resp, err := f.service.GetResults(context.Background(), "01DONE")
	require.NoError(t, err)
	assert.Equal(t, "01DONE", resp.QuizID)
	require.Len(t, resp.Entries, 1)
	require.NotNil(t, resp.Entries[0].Correct)
	assert.True(t, *resp.Entries[0].Correct)
}

func TestGetResultsNotAvailable(t *testing.T) {
	f := newFixture()
	f.repo.On("GetResult", mock.Anything, "01OPEN").Return(nil, nil)

	_, err := f.service.GetResults(context.Background(), "01OPEN")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))
}

func TestGetHistory(t *testing.T) {
	f := newFixture()
	f.repo.On("ListQuizzes", mock.Anything, 10).Return([]repository.QuizSummary{
		{QuizID: "02NEWER", Requested: 5, Produced: 5},
		{QuizID: "01OLDER", Requested: 5, Produced: 3, Partial: true},
	}, nil)

	resp, err := f.service.GetHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, resp.Quizzes, 2)
	assert.Equal(t, "02NEWER", resp.Quizzes[0].QuizID)
	assert.True(t, resp.Quizzes[1].Partial)
}

func TestRegenerateQuiz(t *testing.T) {
	f := newFixture()
	f.repo.On("GetQuiz", mock.Anything, "01ORIGINAL").Return(storedQuizFixture("01ORIGINAL"), nil)
	f.generator.On("GenerateQuestion", mock.Anything, mock.Anything).Return(mcqCandidate(), nil)
	f.repo.On("SaveQuiz", mock.Anything, mock.Anything, sourceText, mock.Anything).Return(nil)
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.RegenerateQuiz(context.Background(), "01ORIGINAL")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.NotEqual(t, "01ORIGINAL", resp.ID)
	assert.Equal(t, 5, resp.Requested)
}

func TestRegenerateQuizNotFound(t *testing.T) {
	f := newFixture()
	f.repo.On("GetQuiz", mock.Anything, "missing").Return(nil, nil)

	_, err := f.service.RegenerateQuiz(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrQuizNotFound))
}
