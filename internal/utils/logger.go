package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logFile      = "./guessroom.log"
	errorLogFile = "./guessroom-errors.log"
)

// NewCustomLogger builds the console logger of the process. Stroke traffic
// logs at debug level in bursts, so sampling stays on.
func NewCustomLogger(level zapcore.Level, outputToFiles bool) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.CallerKey = ""

	outputPaths := []string{"stdout"}
	errorOutputPaths := []string{"stderr"}

	if outputToFiles {
		outputPaths = append(outputPaths, logFile)
		errorOutputPaths = append(errorOutputPaths, errorLogFile)
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: level == zapcore.DebugLevel,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:          "console",
		EncoderConfig:     encoderConfig,
		OutputPaths:       outputPaths,
		ErrorOutputPaths:  errorOutputPaths,
		DisableStacktrace: true,
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to create logger %w", err)
	}

	return logger, nil
}

// ParseLevel maps a config log level to zap, defaulting to info when empty.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return l, nil
}
