package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zapcore.WarnLevel)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("diagnostics found", zap.Int("count", 2))
	_ = log.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "diagnostics found")
	assert.Contains(t, out, `"count": 2`)
}
