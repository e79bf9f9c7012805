package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/xmrest/internal/constants"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}

	return entries
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := New(Options{Level: "debug", Format: FormatJSON, Output: &buf})

	logger.Debug("HTTP Request", map[string]interface{}{
		"method": "GET",
		"status": 200,
		"error":  errors.New("boom"),
	})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "debug", entries[0]["level"])
	assert.Equal(t, "HTTP Request", entries[0]["message"])
	assert.Equal(t, "GET", entries[0]["method"])
	assert.InDelta(t, 200, entries[0]["status"], 0)
	assert.Equal(t, "boom", entries[0]["error"])
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := New(Options{Level: "warn", Format: FormatJSON, Output: &buf})

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Warn("shown", nil)
	logger.Error("shown", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := New(Options{Level: "loud", Format: FormatJSON, Output: &buf})

	logger.Debug("hidden", nil)
	logger.Info("shown", nil)

	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestNew_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := New(Options{Level: "info", Format: FormatConsole, NoColor: true, Output: &buf})
	logger.Info("ping ok", map[string]interface{}{"resource": "widgets"})

	out := buf.String()
	assert.Contains(t, out, "ping ok")
	assert.Contains(t, out, "resource=widgets")
}

func TestWithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := New(Options{Level: "info", Format: FormatJSON, Output: &buf}).
		WithFields(map[string]interface{}{"component": "cli"})
	logger.Info("started", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "cli", entries[0]["component"])
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{name: "defaults", opts: Options{}},
		{name: "json debug", opts: Options{Level: "debug", Format: "json"}},
		{name: "upper case", opts: Options{Level: "WARN", Format: "Console"}},
		{name: "bad level", opts: Options{Level: "verbose"}, wantErr: constants.ErrInvalidLogLevel},
		{name: "bad format", opts: Options{Format: "xml"}, wantErr: constants.ErrInvalidLogFormat},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := testCase.opts
			opts.ApplyDefaults()

			err := opts.Validate()
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}
