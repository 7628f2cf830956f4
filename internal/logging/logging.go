// Package logging builds the zap logger used by the CLI and the pipeline.
package logging

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"partialgen/internal/config"
)

// New builds a logger writing to stderr: JSON for machines, a compact
// console encoding otherwise.
func New(cfg config.Log) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.JSON {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}

		logger, err := zc.Build()
		if err != nil {
			return nil, errors.Wrap(err, "building json logger")
		}

		return logger, nil
	}

	core := zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), level)

	return zap.New(core), nil
}

// ParseLevel maps a config level onto zap's. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}

	level, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zapcore.InfoLevel, errors.Wrapf(err, "log level %q", s)
	}

	return level, nil
}

func consoleEncoder() zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = ""
	ec.CallerKey = ""
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewConsoleEncoder(ec)
}
