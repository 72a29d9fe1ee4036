// Package logger builds the zap logger the catalog service runs on.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ham-store/internal/config"
)

const serviceName = "ham-store"

// New builds the service logger from the server config. Production logs
// JSON; everything else gets a colored console encoder for local work.
// Every entry carries the service name so shared log pipelines can tell
// this service apart.
func New(cfg config.ServerConfig) (*zap.Logger, error) {
	var zc zap.Config

	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
		zc.Encoding = "json"
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Containers collect stdout/stderr; never write log files.
	zc.OutputPaths = []string{"stdout"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.InitialFields = map[string]interface{}{"service": serviceName}

	return zc.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// NewWithDefaults builds a logger from the process environment, falling
// back to a bare production logger when construction fails.
func NewWithDefaults() *zap.Logger {
	log, err := New(config.Load().Server)
	if err != nil {
		log, _ = zap.NewProduction()
	}
	return log
}
