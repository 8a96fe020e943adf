package explainer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"
)

// llmGenerator implements domain.TextGenerator on any langchaingo model.
type llmGenerator struct {
	model   llms.Model
	timeout time.Duration
}

// NewOllamaModel builds the ollama client described by cfg.
func NewOllamaModel(cfg config.LLMConfig) (llms.Model, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return llm, nil
}

func NewTextGenerator(model llms.Model, timeout time.Duration) domain.TextGenerator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &llmGenerator{model: model, timeout: timeout}
}

func (g *llmGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(0.2))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}

	text := stripThinking(raw)
	if text == "" {
		return "", domain.NewLLMServiceError(errors.New("LLM returned an empty response"))
	}
	l.Debug("LLM response received", zap.Int("length", len(text)))
	return text, nil
}

// stripThinking drops a leading <think>...</think> block emitted by reasoning models.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}
