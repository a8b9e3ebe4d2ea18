package gemini

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dogfinder/dogmatch/internal/ai"
	"github.com/dogfinder/dogmatch/internal/facts"
	"github.com/dogfinder/dogmatch/internal/petfinder"
	"github.com/dogfinder/dogmatch/internal/util"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Explainer generates explanation candidates through Gemini.
type Explainer struct {
	generator  contentGenerator
	logger     *zap.Logger
	maxRetries int
	maxLogLen  int
	backoff    time.Duration
}

const (
	defaultMaxLogLength = 200
	retryBackoff        = 2 * time.Second
)

// NewExplainer wires a content generator into the Explainer boundary.
func NewExplainer(generator contentGenerator, logger *zap.Logger, maxRetries, maxLogLength int) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Explainer{
		generator:  generator,
		logger:     logger,
		maxRetries: maxRetries,
		maxLogLen:  maxLogLength,
		backoff:    retryBackoff,
	}
}

// Explain builds the prompt from the fact pack, queries Gemini with retries
// and parses the structured response. Errors bubble up; the caller decides
// whether to fall back to the local sentence.
func (e *Explainer) Explain(ctx context.Context, pack *facts.Pack, dog *petfinder.Dog) (*ai.Explanation, error) {
	if dog == nil {
		return nil, fmt.Errorf("dog is required")
	}

	prompt, err := ai.BuildPrompt(pack, dog)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini explanation request",
		zap.String("dog_id", dog.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, e.maxLogLen)),
	)

	var raw string
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			if err := util.WaitFor(ctx, e.backoff); err != nil {
				return nil, err
			}
			e.logger.Debug("retrying gemini request",
				zap.String("dog_id", dog.ID),
				zap.Int("attempt", attempt),
			)
		}

		raw, lastErr = e.generator.GenerateContent(ctx, prompt)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("gemini explanation for dog %s: %w", dog.ID, lastErr)
	}

	e.logger.Debug("gemini explanation response",
		zap.String("dog_id", dog.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, e.maxLogLen)),
	)

	return ai.ParseExplanation(raw)
}
