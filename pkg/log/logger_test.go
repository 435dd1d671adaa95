package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/github-code-crawler/pkg/log"
)

func TestCslLogger_PrefixesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewCslLoggerWithWriter(&buf)

	logger.Warn(context.Background(), "skipping %s", "octo/repo")

	assert.Contains(t, buf.String(), "[WARN] skipping octo/repo")
}

func TestSlogLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := log.NewWithWriter(&buf, "json", "info")
	require.NoError(t, err)

	logger.Debug(context.Background(), "hidden")
	logger.Notice(context.Background(), "saved %d files", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "NOTICE", record["level"])
	assert.Equal(t, "saved 3 files", record["msg"])
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := log.New("xml", "info")
	assert.Error(t, err)
}
