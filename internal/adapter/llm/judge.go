package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"quizcraft/internal/domain"
)

const judgmentTemperature = 0.1

// Judge implements domain.AnswerJudge on top of the shared LLM client.
type Judge struct {
	client *Client
}

// NewJudge creates the judgment capability adapter.
func NewJudge(client *Client) domain.AnswerJudge {
	return &Judge{client: client}
}

// JudgeAnswer asks the model for a 0-10 quality score and short feedback
// comparing the student's answer to the model answer. Any failure is
// surfaced as-is; the evaluator degrades to keyword-ratio scoring.
func (j *Judge) JudgeAnswer(ctx context.Context, userAnswer, modelAnswer string) (*domain.Judgment, error) {
	prompt := fmt.Sprintf(`You are an expert teacher evaluating a student's answer against a model answer. Respond with ONLY a JSON object in this format:
{
    "score": 7.5,
    "feedback": "brief feedback here"
}

MODEL ANSWER:
%s

STUDENT'S ANSWER:
%s

Rules:
1. score must be between 0 and 10 (10 is a perfect answer)
2. Judge meaning, not wording: an answer using synonyms for the model answer's terms can still score highly
3. feedback must be under 80 words, naming what was good and what is missing`, modelAnswer, userAnswer)

	response, err := j.client.call(ctx, prompt, judgmentTemperature)
	if err != nil {
		return nil, err
	}

	var judgment domain.Judgment
	if err := json.Unmarshal([]byte(cleanResponse(response)), &judgment); err != nil {
		return nil, fmt.Errorf("malformed judgment response: %w", err)
	}
	return &judgment, nil
}
