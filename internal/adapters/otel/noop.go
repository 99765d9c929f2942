package otel

import (
	"context"
	"time"
)

// NoOpRecorder is a metrics recorder that does nothing.
type NoOpRecorder struct{}

// NewNoOpRecorder creates a no-op recorder for graceful degradation.
func NewNoOpRecorder() *NoOpRecorder {
	return &NoOpRecorder{}
}

func (r *NoOpRecorder) RowsImported(ctx context.Context, kind string, n int64) {}

func (r *NoOpRecorder) ImportDuration(ctx context.Context, d time.Duration) {}

func (r *NoOpRecorder) HTTPRequest(ctx context.Context, route string, status int) {}

func (r *NoOpRecorder) AnalyticsComputed(ctx context.Context) {}

func (r *NoOpRecorder) Close(ctx context.Context) error { return nil }
