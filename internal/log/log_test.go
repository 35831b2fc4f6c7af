package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLevelStringToSlogLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ConfigLevelStringToSlogLevel("trace"))
	assert.Equal(t, slog.LevelDebug, ConfigLevelStringToSlogLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ConfigLevelStringToSlogLevel("info"))
	assert.Equal(t, slog.LevelWarn, ConfigLevelStringToSlogLevel("warn"))
	assert.Equal(t, slog.LevelError, ConfigLevelStringToSlogLevel("bogus"))
}

func TestNewWritesFileAndMirrorsErrors(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	path := filepath.Join(t.TempDir(), "logs", "pressctl.log")
	var errOut bytes.Buffer

	logger, closer, err := New(Options{Level: LevelTrace, FilePath: path, ErrOut: &errOut})
	require.NoError(t, err)

	logger.Log(context.Background(), LevelTrace, "wire")
	logger.Error("request failed", slog.String("suggestion", "run login"))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"TRACE"`)
	assert.Contains(t, string(data), "request failed")

	assert.Equal(t, "Error: request failed\n  suggestion: run login\n", errOut.String())
}

func TestFromContextFallsBackToDiscard(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := slog.Default()
	ctx := context.WithValue(context.Background(), LoggerKey, l)
	assert.Same(t, l, FromContext(ctx))
}

func TestRequestContextMergesNonEmptyFields(t *testing.T) {
	ctx := WithRequestContext(context.Background(), RequestContext{CommandPath: "pressctl list blogs", Verb: "list"})
	ctx = WithRequestContext(ctx, RequestContext{Resource: "blogs", Verb: " "})

	rc := RequestContextFrom(ctx)
	assert.Equal(t, "list", rc.Verb)
	assert.Equal(t, "blogs", rc.Resource)

	attrs := RequestContextAttrs(ctx)
	require.Len(t, attrs, 3)
	assert.Equal(t, "command_path", attrs[0].Key)
}

func TestFriendlyHandlerFormatsGroupsAndMultiline(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewFriendlyErrorHandler(&buf))

	logger.WithGroup("http").Error("server responded 500", slog.String("body", "line one\n\nline two"))
	logger.Error("", slog.String("error", "boom"), slog.String("status", ""))

	assert.Equal(t,
		"Error: server responded 500\n  http.body: line one\n    line two\nError: boom\n",
		buf.String())
}
