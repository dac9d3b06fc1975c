package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetup_FileOnly_NoStdout(t *testing.T) {
	var stdout, file bytes.Buffer
	m := NewManager()
	m.stdout = &stdout

	m.Setup(&file, "info").Info("hello file")
	assert.Contains(t, file.String(), "hello file")
	assert.Empty(t, stdout.String())
}

func TestSetup_NoFile_WritesToStdout(t *testing.T) {
	var stdout bytes.Buffer
	m := NewManager()
	m.stdout = &stdout

	m.Setup(nil, "info").Info("hello console")
	assert.Contains(t, stdout.String(), "hello console")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager()
	log := m.Setup(&buf, "info")

	log.Debug("should be filtered")
	log.Info("should appear")
	assert.NotContains(t, buf.String(), "should be filtered")
	assert.Contains(t, buf.String(), "should appear")
}

func TestSetup_ExtraHandlersAndRFC3339(t *testing.T) {
	var file, extra bytes.Buffer
	m := NewManager()
	m.Setup(&file, "debug", slog.NewTextHandler(&extra, nil))
	m.Logger().Info("fan out", "kills", 3)

	assert.Contains(t, extra.String(), "kills=3")
	assert.Regexp(t, `time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`, file.String())
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	assert.Same(t, slog.Default(), NewManager().Logger())
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("broken pipe")
}
func (f failingHandler) WithAttrs([]slog.Attr) slog.Handler { return f }
func (f failingHandler) WithGroup(string) slog.Handler      { return f }

func TestMultiHandler_ContinuesPastFailures(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(failingHandler{}, nil, slog.NewTextHandler(&buf, nil))
	log := slog.New(h).With("session", "abc").WithGroup("arena")
	log.Info("still delivered", "kills", 1)

	assert.Contains(t, buf.String(), "still delivered")
	assert.Contains(t, buf.String(), "session=abc")
	assert.Contains(t, buf.String(), "arena.kills=1")
}

func TestMultiHandler_ReturnsJoinedErrors(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(failingHandler{}, slog.NewTextHandler(&buf, nil), failingHandler{})
	r := slog.NewRecord(time.Now(), slog.LevelWarn, "disk full", 0)

	err := h.Handle(context.Background(), r)
	require.Error(t, err)
	assert.Equal(t, "broken pipe\nbroken pipe", err.Error())
	assert.Contains(t, buf.String(), "disk full")

	ok := NewMultiHandler(slog.NewTextHandler(&buf, nil))
	assert.NoError(t, ok.Handle(context.Background(), r))
}

func TestMultiHandler_EnabledIfAny(t *testing.T) {
	quiet := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})
	loud := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})
	assert.True(t, NewMultiHandler(quiet, loud).Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, NewMultiHandler(quiet).Enabled(context.Background(), slog.LevelWarn))
}

func TestOpenFile(t *testing.T) {
	f, err := OpenFile("")
	require.NoError(t, err)
	assert.Nil(t, f)

	path := filepath.Join(t.TempDir(), "arena.log")
	f, err = OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	NewManager().Setup(f, "info").Info("to disk")
	assert.FileExists(t, path)
}
