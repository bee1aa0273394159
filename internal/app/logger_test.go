package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger("info", "json", &buf)
	logger.Debug("hidden")
	logger.Info("shown", "stage", "load")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"stage":"load"`)

	buf.Reset()
	newLogger("debug", "text", &buf).Debug("visible")
	require.Contains(t, buf.String(), "msg=visible")
}

func TestResolveLogFormat(t *testing.T) {
	t.Parallel()

	require.Equal(t, "text", resolveLogFormat("text", &bytes.Buffer{}))
	require.Equal(t, "json", resolveLogFormat("auto", &bytes.Buffer{}), "non-terminal writers get json")
}
