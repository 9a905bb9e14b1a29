// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import "context"

type contextKey string

const (
	requestIDKey contextKey = "ctxutil.requestID"
	runIDKey     contextKey = "ctxutil.runID"
	collegeKey   contextKey = "ctxutil.college"
)

// WithRequestID adds a request ID to the context for tracing.
// Request ID is generated per HTTP request for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// WithRunID adds a pipeline run ID to the context.
// Every log line written during a pipeline run carries the same run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID retrieves the pipeline run ID from the context.
// Returns the run ID if found, empty string otherwise.
func GetRunID(ctx context.Context) string {
	if v := ctx.Value(runIDKey); v != nil {
		if runID, ok := v.(string); ok && runID != "" {
			return runID
		}
	}
	return ""
}

// WithCollege adds the college name being scraped to the context.
func WithCollege(ctx context.Context, college string) context.Context {
	return context.WithValue(ctx, collegeKey, college)
}

// GetCollege retrieves the college name from the context.
// Returns the college name if found, empty string otherwise.
func GetCollege(ctx context.Context) string {
	if v := ctx.Value(collegeKey); v != nil {
		if college, ok := v.(string); ok && college != "" {
			return college
		}
	}
	return ""
}
