package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide zap logger. APP_ENV=development switches to the
// human-readable console encoder.
func New() *zap.Logger {
	if os.Getenv("APP_ENV") == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		log, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		return log
	}

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return log
}
