// Package logger builds the zap logger shared by the CLI, runner and producers.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level       string
	Format      string
	Development bool
}

// New returns a logger writing to stderr, leaving stdout to console output. Unknown levels fall back to info and
// any format other than "console" produces JSON.
func New(cfg Config) (*zap.Logger, error) {
	return newWithSyncer(cfg, zapcore.AddSync(os.Stderr)), nil
}

func newWithSyncer(cfg Config, ws zapcore.WriteSyncer) *zap.Logger {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	options := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		options = append(options, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return zap.New(zapcore.NewCore(encoder, ws, level), options...)
}
