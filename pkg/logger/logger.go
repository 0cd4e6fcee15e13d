package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"medsched/config"
)

// NewLogger builds a JSON logger in production and a colored console logger elsewhere.
// Every entry carries the service name and version.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.MessageKey = "message"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeDuration = zapcore.SecondsDurationEncoder

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.LogLevel)),
		Encoding:         "json",
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"service": cfg.Name,
			"version": cfg.Version,
		},
	}

	if !cfg.IsProduction() {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.Development = true
	}

	return zcfg.Build(zap.AddCaller())
}

// ParseLevel falls back to info for empty or unknown names.
func ParseLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.InfoLevel
	}
	return parsed
}
