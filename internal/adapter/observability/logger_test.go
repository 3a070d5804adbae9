package observability_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kytta/LaTeXBuddy/internal/adapter/observability"
	"github.com/kytta/LaTeXBuddy/internal/config"
)

func capture(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestLogWarningHuman(t *testing.T) {
	logger := observability.NewDefaultLogger(observability.LogLevelInfo, observability.LogFormatHuman)

	output := capture(t, func() {
		logger.LogWarning(context.Background(), "module failed", map[string]interface{}{
			"module":  "chktex",
			"elapsed": "1.2s",
			"error":   "executable not found",
		})
	})

	assert.Contains(t, output, "[WARN]")
	assert.Contains(t, output, "module failed")
	assert.Contains(t, output, "module=chktex")
	assert.Contains(t, output, "elapsed=1.2s")
	assert.Contains(t, output, "error=executable not found")
}

func TestLogInfoHuman(t *testing.T) {
	logger := observability.NewDefaultLogger(observability.LogLevelInfo, observability.LogFormatHuman)

	output := capture(t, func() {
		logger.LogInfo(context.Background(), "check completed", map[string]interface{}{
			"document": "thesis.tex",
			"problems": 12,
		})
	})

	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "check completed")
	assert.Contains(t, output, "document=thesis.tex")
	assert.Contains(t, output, "problems=12")
}

func TestLogInfoJSON(t *testing.T) {
	logger := observability.NewDefaultLogger(observability.LogLevelInfo, observability.LogFormatJSON)

	output := capture(t, func() {
		logger.LogInfo(context.Background(), "check completed", map[string]interface{}{
			"document": "thesis.tex",
		})
	})

	assert.Contains(t, output, `"level":"info"`)
	assert.Contains(t, output, `"message":"check completed"`)
	assert.Contains(t, output, `"document":"thesis.tex"`)
}

func TestLogLevelSuppressesInfo(t *testing.T) {
	logger := observability.NewDefaultLogger(observability.LogLevelError, observability.LogFormatHuman)

	output := capture(t, func() {
		logger.LogInfo(context.Background(), "quiet", nil)
		logger.LogWarning(context.Background(), "also quiet", nil)
		logger.LogError(context.Background(), "loud", nil)
	})

	assert.NotContains(t, output, "quiet")
	assert.Contains(t, output, "loud")
}

func TestFromConfig(t *testing.T) {
	logger := observability.FromConfig(config.LoggingConfig{
		Enabled: true,
		Level:   "debug",
		Format:  "json",
	})

	output := capture(t, func() {
		logger.LogInfo(context.Background(), "hello", nil)
	})
	assert.Contains(t, output, `"level":"info"`)
}

func TestFromConfigDisabledOnlyErrors(t *testing.T) {
	logger := observability.FromConfig(config.LoggingConfig{Enabled: false, Level: "info"})

	output := capture(t, func() {
		logger.LogInfo(context.Background(), "silent", nil)
		logger.LogError(context.Background(), "reported", nil)
	})

	assert.NotContains(t, output, "silent")
	assert.Contains(t, output, "reported")
}
