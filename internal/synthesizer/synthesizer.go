package synthesizer

import (
	"context"

	"quizcraft/internal/domain"
	"quizcraft/internal/keyword"
	"quizcraft/internal/logger"
	"quizcraft/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Synthesizer turns segments and preferences into a validated quiz. Slot
// generation may run concurrently; ordering, interleaving and index
// assignment happen in a final deterministic pass after all slots
// resolve.
type Synthesizer struct {
	generator   domain.QuestionGenerator
	extractor   *keyword.Extractor
	maxParallel int
}

// New creates a Synthesizer. maxParallel bounds concurrent generation
// calls; values below 1 are treated as sequential.
func New(generator domain.QuestionGenerator, extractor *keyword.Extractor, maxParallel int) *Synthesizer {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Synthesizer{
		generator:   generator,
		extractor:   extractor,
		maxParallel: maxParallel,
	}
}

type slotResult struct {
	question    domain.Question
	unavailable bool
	err         error
}

// Synthesize produces a quiz for the given segments and preferences.
// Invalid candidates are retried once and then dropped, so the result
// may be a partial quiz; Quiz.Partial and Quiz.Requested report that
// honestly. It fails with GENERATION_UNAVAILABLE when the generation
// capability produced nothing at all, and with INSUFFICIENT_MATERIAL
// when generation worked but no candidate survived validation.
func (s *Synthesizer) Synthesize(ctx context.Context, segments []domain.Segment, prefs domain.Preferences) (*domain.Quiz, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, domain.NewInsufficientMaterialError("no segments to generate questions from")
	}
	if err := domain.ValidateSegments(segments); err != nil {
		return nil, err
	}

	types := planTypes(prefs)
	results := make([]slotResult, len(types))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i := range types {
		slot := i
		g.Go(func() error {
			// Spread slots across distinct segments before repeating any.
			seg := segments[slot%len(segments)]
			results[slot] = s.generateSlot(gctx, types[slot], seg, prefs)
			return nil
		})
	}
	// Workers never return errors; the group is used for bounding and
	// context propagation only.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		// Abandoned by the caller: commit nothing.
		return nil, domain.NewGenerationUnavailableError(err)
	}

	var questions []domain.Question
	var unavailableErr error
	for _, r := range results {
		if r.question != nil {
			questions = append(questions, r.question)
			continue
		}
		if r.unavailable {
			unavailableErr = r.err
		}
	}

	if len(questions) == 0 {
		if unavailableErr != nil {
			return nil, domain.NewGenerationUnavailableError(unavailableErr)
		}
		return nil, domain.NewInsufficientMaterialError(
			"no candidate question survived validation")
	}

	// Final deterministic pass: indexes follow slot order.
	for i, q := range questions {
		switch v := q.(type) {
		case *domain.MCQQuestion:
			v.Index = i
		case *domain.SAQQuestion:
			v.Index = i
		}
	}

	quiz := domain.NewQuiz(util.NewULID(), questions, prefs.NumQuestions)
	if err := quiz.Validate(); err != nil {
		return nil, domain.NewInternalError("synthesized quiz failed validation", err)
	}

	if quiz.Partial {
		logger.Get().Warn("Synthesized a partial quiz",
			zap.Int("requested", quiz.Requested),
			zap.Int("produced", len(quiz.Questions)))
	}
	return quiz, nil
}

// generateSlot requests one candidate and validates it, retrying at most
// once before giving the slot up.
func (s *Synthesizer) generateSlot(ctx context.Context, qType domain.QuestionType, seg domain.Segment, prefs domain.Preferences) slotResult {
	req := domain.GenerationRequest{
		Type:            qType,
		SegmentHeading:  seg.Heading,
		SegmentText:     seg.Text,
		Difficulty:      prefs.Difficulty,
		DistractorStyle: prefs.MCQDistractorType,
		AnswerStyle:     prefs.SAQAnswerStyle,
		WithHint:        prefs.IncludeHints,
	}

	var result slotResult
	for attempt := 0; attempt < 2; attempt++ {
		candidate, err := s.generator.GenerateQuestion(ctx, req)
		if err != nil {
			logger.Get().Warn("Generation call failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Int("segment", seg.ID))
			result = slotResult{unavailable: true, err: err}
			continue
		}
		question, err := s.buildQuestion(candidate, qType, seg, prefs)
		if err != nil {
			logger.Get().Warn("Discarding malformed candidate",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Int("segment", seg.ID))
			result = slotResult{err: err}
			continue
		}
		return slotResult{question: question}
	}
	return result
}

// buildQuestion maps a raw candidate onto the question schema and
// validates it. SAQ keywords are embedded here, at synthesis time.
func (s *Synthesizer) buildQuestion(c *domain.Candidate, qType domain.QuestionType, seg domain.Segment, prefs domain.Preferences) (domain.Question, error) {
	core := domain.QuestionCore{
		Text:       c.Question,
		Difficulty: prefs.Difficulty,
	}
	if prefs.IncludeHints {
		core.Hint = c.Hint
	}
	if prefs.IncludeSectionRefs {
		ref := seg.ID
		core.SectionRef = &ref
	}

	switch qType {
	case domain.QuestionTypeMCQ:
		q := &domain.MCQQuestion{
			QuestionCore:  core,
			Options:       c.Options,
			CorrectAnswer: c.CorrectAnswer,
			Explanation:   c.Explanation,
		}
		if err := q.Validate(); err != nil {
			return nil, err
		}
		return q, nil
	case domain.QuestionTypeSAQ:
		keywords, err := s.extractor.Extract(c.ModelAnswer, 0)
		if err != nil {
			return nil, err
		}
		q := &domain.SAQQuestion{
			QuestionCore: core,
			ModelAnswer:  c.ModelAnswer,
			Keywords:     keywords,
		}
		if err := q.Validate(); err != nil {
			return nil, err
		}
		return q, nil
	default:
		return nil, domain.NewInvalidInputError("unknown question type for slot")
	}
}

// planTypes lays out the per-slot question types. Mixed quizzes split
// half MCQ, half SAQ and interleave the two so neither type clumps into
// a run longer than about half the quiz.
func planTypes(prefs domain.Preferences) []domain.QuestionType {
	n := prefs.NumQuestions
	types := make([]domain.QuestionType, 0, n)

	switch prefs.QuestionType {
	case domain.QuestionTypeMCQ, domain.QuestionTypeSAQ:
		for i := 0; i < n; i++ {
			types = append(types, prefs.QuestionType)
		}
	default: // mixed
		mcqLeft := n / 2
		saqLeft := n - mcqLeft
		for i := 0; i < n; i++ {
			if i%2 == 0 && mcqLeft > 0 || saqLeft == 0 {
				types = append(types, domain.QuestionTypeMCQ)
				mcqLeft--
			} else {
				types = append(types, domain.QuestionTypeSAQ)
				saqLeft--
			}
		}
	}
	return types
}
