package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the explanation provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the explanation model identifier.
	FieldModel = "ai_model"
)

// WithCommonFields attaches the provider and model fields to the logger,
// skipping empty values. A nil logger falls back to a no-op logger so callers
// never have to guard against panics.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := make([]zap.Field, 0, 2)
	if v := strings.TrimSpace(provider); v != "" {
		fields = append(fields, zap.String(FieldProvider, v))
	}
	if v := strings.TrimSpace(model); v != "" {
		fields = append(fields, zap.String(FieldModel, v))
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}
