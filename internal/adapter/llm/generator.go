package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quizcraft/internal/domain"
)

const generationTemperature = 0.7

// Generator implements domain.QuestionGenerator on top of the shared
// LLM client.
type Generator struct {
	client *Client
}

// NewGenerator creates the generation capability adapter.
func NewGenerator(client *Client) domain.QuestionGenerator {
	return &Generator{client: client}
}

// GenerateQuestion requests one structured candidate grounded in the
// slot's segment text. Transport failures and unparseable output both
// surface as GENERATION_UNAVAILABLE; the synthesizer decides whether to
// retry.
func (g *Generator) GenerateQuestion(ctx context.Context, req domain.GenerationRequest) (*domain.Candidate, error) {
	prompt := buildGenerationPrompt(req)

	response, err := g.client.call(ctx, prompt, generationTemperature)
	if err != nil {
		return nil, domain.NewGenerationUnavailableError(err)
	}

	var candidate domain.Candidate
	if err := json.Unmarshal([]byte(cleanResponse(response)), &candidate); err != nil {
		return nil, domain.NewGenerationUnavailableError(
			fmt.Errorf("malformed generation response: %w", err))
	}
	return &candidate, nil
}

func buildGenerationPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert quiz generator. Create exactly one question grounded ONLY in the following study material.\n\n")
	if req.SegmentHeading != "" {
		b.WriteString("SECTION: " + req.SegmentHeading + "\n")
	}
	b.WriteString("MATERIAL:\n" + req.SegmentText + "\n\n")
	b.WriteString("REQUIREMENTS:\n")
	b.WriteString(fmt.Sprintf("- Difficulty level: %s\n", domain.DifficultyToString(req.Difficulty)))

	if req.Type == domain.QuestionTypeMCQ {
		b.WriteString("- Multiple-choice: 1 correct answer and 3 distractors\n")
		b.WriteString("- Distractors: " + distractorGuidance(req.DistractorStyle) + "\n")
	} else {
		b.WriteString("- Short-answer question that tests understanding, not just recall\n")
		if req.AnswerStyle == domain.AnswerStyleKeywords {
			b.WriteString("- Model answer: a terse answer naming the essential terms\n")
		} else {
			b.WriteString("- Model answer: a complete answer covering all key points\n")
		}
	}
	if req.WithHint {
		b.WriteString("- Include a short hint\n")
	} else {
		b.WriteString("- Do not include a hint\n")
	}

	b.WriteString("\nRespond with ONLY a JSON object in this format:\n")
	if req.Type == domain.QuestionTypeMCQ {
		b.WriteString(`{
  "question": "Question text?",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "correct_answer": 0,
  "explanation": "Why the correct option is right",
  "hint": "Optional hint"
}`)
	} else {
		b.WriteString(`{
  "question": "Question text?",
  "model_answer": "Complete model answer",
  "hint": "Optional hint"
}`)
	}
	return b.String()
}

func distractorGuidance(style string) string {
	switch style {
	case domain.DistractorSimple:
		return "plausible but clearly wrong to anyone who read the material"
	case domain.DistractorTraps:
		return "encode common misconceptions the material warns against or contrasts"
	default: // exam-style
		return "same category as the answer, subtly wrong"
	}
}
