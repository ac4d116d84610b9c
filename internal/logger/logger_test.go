package logger

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zapcore"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	logger, err := NewLogger("debug")
	suite.NoError(err)
	suite.NotNil(logger.Logger)
	suite.True(logger.Core().Enabled(zapcore.DebugLevel))
}

func (suite *LoggerTestSuite) TestUnknownLevelFallsBackToInfo() {
	logger, err := NewLogger("loud")
	suite.NoError(err)
	suite.False(logger.Core().Enabled(zapcore.DebugLevel))
	suite.True(logger.Core().Enabled(zapcore.InfoLevel))
}

func (suite *LoggerTestSuite) TestLoggerSyncNilLogger() {
	logger := &Logger{Logger: nil}
	suite.NoError(logger.Sync())
}

func (suite *LoggerTestSuite) TestNop() {
	logger := Nop()
	logger.Info("discarded")
	suite.NotNil(logger.Logger)
}
