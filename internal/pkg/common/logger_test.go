package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestFilterFields(t *testing.T) {
	fields := []zap.Field{
		zap.String("ingredients", "chicken"),
		zap.String("raw_body", "{...}"),
		zap.Int("count", 3),
		zap.String("export_payload", "..."),
	}

	got := filterFields(fields)

	keys := make([]string, len(got))
	for i, f := range got {
		keys[i] = f.Key
	}
	assert.Equal(t, []string{"ingredients", "count"}, keys)
}

func TestLogHelpersWithoutInit(t *testing.T) {
	// 未呼叫 InitLogger 時不可 panic
	assert.NotPanics(t, func() {
		LogInfo("hello")
		LogDebug("debug", zap.String("raw_body", "x"))
		LogWarn("warn")
		LogError("error")
		LogCacheHit("memory")
		LogCacheMiss("memory")
	})
}
