package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/simpledb-go/logger"
)

func TestInitLogger_SetsLevelAndWritesOutput(t *testing.T) {
	require.NoError(t, logger.InitLogger(logger.Config{Level: "debug"}))

	var buf bytes.Buffer
	logger.Logger.SetOutput(&buf)
	logger.Debug("hello from test")

	require.Contains(t, buf.String(), "hello from test")
	require.Contains(t, buf.String(), "DEBU")
}

func TestInitLogger_DefaultLevelIsInfo(t *testing.T) {
	require.NoError(t, logger.InitLogger(logger.Config{}))

	var buf bytes.Buffer
	logger.Logger.SetOutput(&buf)
	logger.Debug("should be suppressed at info level")

	require.Empty(t, buf.String())
}
