package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"quizcraft/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// Client wraps an Ollama-served model behind a bounded-timeout call.
// Both capability adapters (generation and judgment) share one client.
type Client struct {
	llm     *ollama.LLM
	timeout time.Duration
}

// NewClient connects to the Ollama server at serverURL.
func NewClient(serverURL, model string, timeout time.Duration) (*Client, error) {
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     10 * time.Second,
		},
	}

	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, err
	}
	return &Client{llm: llm, timeout: timeout}, nil
}

// call runs one prompt with a bounded deadline. Non-response past the
// deadline surfaces as an error for the caller to classify.
func (c *Client) call(ctx context.Context, prompt string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.llm.Call(ctx, prompt, llms.WithTemperature(temperature))
	if err != nil {
		logger.Get().Error("LLM call failed", zap.Error(err))
		return "", err
	}
	return response, nil
}

// cleanResponse strips reasoning tags and markdown code fences so the
// remainder parses as JSON.
func cleanResponse(response string) string {
	response = strings.TrimSpace(response)
	if thinkStart := strings.Index(response, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(response, "</think>"); thinkEnd != -1 {
			response = response[thinkEnd+len("</think>"):]
		}
	}
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
