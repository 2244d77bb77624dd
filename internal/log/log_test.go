package log

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatEntry(t *testing.T) {
	ts := time.Date(2026, 10, 17, 10, 45, 0, 0, time.UTC)

	got := formatEntry(ts, LevelError, CatAuth, "create user failed", "email", "a@kdu.ac.lk", "code", "email-already-in-use")
	require.Equal(t, "2026-10-17T10:45:00 [ERROR] [auth] create user failed email=a@kdu.ac.lk code=email-already-in-use\n", got)
}

func TestFormatEntry_OddFields(t *testing.T) {
	ts := time.Date(2026, 10, 17, 10, 45, 0, 0, time.UTC)

	got := formatEntry(ts, LevelInfo, CatStore, "write", "uid")
	require.True(t, strings.HasSuffix(got, " uid=<missing>\n"), got)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelInfo, ParseLevel("INFO"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel(" error "))
	require.Equal(t, LevelDebug, ParseLevel("nonsense"))
}

func TestInitWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { defaultLogger = nil })

	SetMinLevel(LevelWarn)
	Info(CatUI, "hidden")
	Warn(CatUI, "shown", "field", 1)
	ErrorErr(CatDB, "nil error", nil)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[WARN] [ui] shown field=1")
	require.Contains(t, out, "error=<nil>")
}

func TestDisabledLoggerWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { defaultLogger = nil })

	SetEnabled(false)
	Error(CatAuth, "quiet")
	require.Empty(t, buf.String())
}
