package check

import "context"

// Logger is the outbound port for structured logging. All implementations
// must be safe for concurrent use; the orchestrator logs from module
// worker goroutines.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogError(ctx context.Context, message string, fields map[string]interface{})
}
