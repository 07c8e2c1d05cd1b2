package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New. production zap logger writing json to stderr with iso8601 timestamps
func New() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "time"
	config.DisableStacktrace = true

	return config.Build()
}

// NewDevelopment. human readable console logger, used by the command line tools
func NewDevelopment() (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config.Build()
}
