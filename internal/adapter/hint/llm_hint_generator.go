package hint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"maths-quest/internal/config"
	"maths-quest/internal/domain"
	"maths-quest/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

const maxHintLength = 200

// llmHintGenerator implements domain.HintGenerator on top of a langchaingo model.
type llmHintGenerator struct {
	model   llms.Model
	timeout time.Duration
}

// NewLLMHintGenerator wraps model. A zero timeout means 20 seconds.
func NewLLMHintGenerator(model llms.Model, timeout time.Duration) domain.HintGenerator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &llmHintGenerator{model: model, timeout: timeout}
}

// NewOllamaHintGenerator connects to the Ollama server named in cfg.
func NewOllamaHintGenerator(cfg config.LLMConfig) (domain.HintGenerator, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout + 5*time.Second}
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewLLMHintGenerator(llm, cfg.Timeout), nil
}

func (g *llmHintGenerator) GenerateHint(ctx context.Context, q domain.Question) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, buildPrompt(q), llms.WithTemperature(0.3))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Warn("LLM hint request timed out", zap.String("question_id", q.ID))
			return "", fmt.Errorf("LLM hint request timed out: %w", err)
		}
		return "", fmt.Errorf("LLM hint call failed: %w", err)
	}

	hint := cleanResponse(raw)
	if hint == "" {
		return "", fmt.Errorf("LLM returned an empty hint for question %s", q.ID)
	}
	l.Debug("generated hint", zap.String("question_id", q.ID), zap.String("hint", hint))
	return hint, nil
}

func buildPrompt(q domain.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You help children aged 6 to 11 with maths. The quiz theme is %q.\n", q.Theme)
	b.WriteString("Write ONE short, friendly hint for the question below. Never state the answer or which option is correct.\n")
	b.WriteString("Reply with the hint text only.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", q.Text)
	fmt.Fprintf(&b, "Options: %s\n", strings.Join(q.Options, ", "))
	return b.String()
}

// cleanResponse drops <think> blocks some local models emit and trims the
// result to a single short line.
func cleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			s = s[:start]
			break
		}
		s = s[:start] + s[start+end+len("</think>"):]
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"")
	if i := strings.IndexByte(s, '\n'); i != -1 {
		s = strings.TrimSpace(s[:i])
	}
	if r := []rune(s); len(r) > maxHintLength {
		s = string(r[:maxHintLength])
	}
	return s
}
