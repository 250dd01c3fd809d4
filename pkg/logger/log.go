package logger

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger monta o logger padrão da aplicação. Em desenvolvimento escreve
// no console em nível debug; em produção, JSON em nível info.
func NewLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "production" {
		l, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return l
	}

	cfg := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l
}
