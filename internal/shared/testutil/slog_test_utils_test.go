package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, logs := NewTestLogger(t)
	component := logger.With("component", "walker")

	component.Warn("unit_incomplete", slog.String("folder", "103"))
	logger.Debug("duplicate_match")

	records := logs.GetRecords()
	require.Len(t, records, 2)

	warn := AssertLogContains(t, logs, slog.LevelWarn, "unit_incomplete")
	assert.Equal(t, "walker", warn.Attrs["component"])
	assert.Equal(t, "103", warn.Attrs["folder"])

	assert.Empty(t, logs.Find(slog.LevelInfo, "duplicate_match"))
	assert.Len(t, logs.Find(slog.LevelDebug, "duplicate_match"), 1)
	AssertNoErrors(t, logs)
}
