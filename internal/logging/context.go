package logging

import (
	"context"

	"go.uber.org/zap"
)

type runCtxKey struct{}
type categoryCtxKey struct{}

// WithRunID attaches an assessment run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runCtxKey{}, runID)
}

// RunIDFromContext returns the run ID, or "" when absent.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(runCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// WithCategory attaches the category under evaluation to the context.
func WithCategory(ctx context.Context, category string) context.Context {
	return context.WithValue(ctx, categoryCtxKey{}, category)
}

// CategoryFromContext returns the category, or "" when absent.
func CategoryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(categoryCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if runID := RunIDFromContext(ctx); runID != "" {
		fields = append(fields, zap.String("run.id", runID))
	}
	if category := CategoryFromContext(ctx); category != "" {
		fields = append(fields, zap.String("category", category))
	}
	return fields
}
