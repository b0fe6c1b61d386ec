/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package logtest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/log"
)

func TestLogger(t *testing.T) {
	var b bytes.Buffer
	w := bufio.NewWriter(&b)
	logger := NewLoggerWithOpts(LoggerOpts{Output: w})

	logger.Error("test")
	require.NoError(t, w.Flush())

	var j map[string]string
	require.NoError(t, json.Unmarshal(b.Bytes(), &j))
	require.Equal(t, "error", j["level"])
	require.Equal(t, "test", j["msg"])
}

func TestRecorder(t *testing.T) {
	logRecorder := NewRecorder()
	logRecorder.Warn("message1", log.Int("num", 10), log.String("str", "abc"))
	logRecorder.Info("message2")

	require.Equal(t, 2, len(logRecorder.Entries()))

	logEntry, found := logRecorder.FindEntry("message1")
	require.True(t, found)
	require.Equal(t, log.LevelWarn, logEntry.Level)

	logFieldNum, found := logEntry.FindField("num")
	require.True(t, found)
	require.Equal(t, 10, int(logFieldNum.Int))

	logFieldStr, found := logEntry.FindField("str")
	require.True(t, found)
	require.Equal(t, "abc", string(logFieldStr.Bytes))

	logEntry, found = logRecorder.FindEntryByFilter(func(entry RecordedEntry) bool {
		return entry.Level == log.LevelInfo
	})
	require.True(t, found)
	require.Equal(t, "message2", logEntry.Text)

	logRecorder.Reset()
	require.Empty(t, logRecorder.Entries())
	_, found = logRecorder.FindEntry("message1")
	require.False(t, found)
}
