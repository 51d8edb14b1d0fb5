package logger

import (
	"bytes"
	"os"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewVariants(t *testing.T) {
	t.Run("json format logs expected fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, int(zerolog.InfoLevel), "json", false)

		logger.Info().Str("key", "value").Msg("json_test")

		out := buf.String()
		require.Contains(t, out, `"message":"json_test"`)
		require.Contains(t, out, `"key":"value"`)
		require.Contains(t, out, `"service":"poolgate"`)
	})

	t.Run("console format logs human readable output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, int(zerolog.DebugLevel), "console", false)

		logger.Debug().Str("env", "test").Msg("console_log")

		out := stripANSI(buf.String())
		require.Contains(t, out, "console_log")
		require.Contains(t, out, "env=test")
	})

	t.Run("level filters lower events", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, int(zerolog.WarnLevel), "json", false)

		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")

		require.NotContains(t, buf.String(), "hidden")
		require.Contains(t, buf.String(), "shown")
	})

	t.Run("stdout logger writes to stdout", func(t *testing.T) {
		r, w, _ := os.Pipe()
		defer r.Close()

		stdout := os.Stdout
		os.Stdout = w
		defer func() { os.Stdout = stdout }()

		logger := New(int(zerolog.InfoLevel), "json", false)
		logger.Info().Msg("stdout_test")

		_ = w.Close()
		buf := make([]byte, 1024)
		n, _ := r.Read(buf)
		require.Contains(t, string(buf[:n]), "stdout_test")
	})
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWithWriter(&buf, int(zerolog.InfoLevel), "json", false), "log_filter")
	logger.Info().Msg("built")
	require.Contains(t, buf.String(), `"component":"log_filter"`)
}

func stripANSI(s string) string {
	return regexp.MustCompile(`\x1b\[[0-9;]*m`).ReplaceAllString(s, "")
}
