package logger

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/pkg/config"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// InitLogger builds the process-wide logger. Development environments get the
// human-readable console encoder, everything else gets production JSON.
func InitLogger(cfg *config.Config) {
	once.Do(func() {
		var zcfg zap.Config
		if cfg != nil && cfg.Server.Env == "development" {
			zcfg = zap.NewDevelopmentConfig()
		} else {
			zcfg = zap.NewProductionConfig()
		}
		zcfg.OutputPaths = []string{"stdout"}
		logger, err := zcfg.Build()
		if err != nil {
			panic(err)
		}
		if cfg != nil {
			logger = logger.With(zap.String("service", cfg.ServiceName))
		}
		instance = logger
	})
}

// GetLogger returns the process-wide logger, initializing a default one if
// InitLogger was never called.
func GetLogger() *zap.Logger {
	if instance == nil {
		InitLogger(nil)
	}
	return instance
}
