package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Get returns the process-wide logger, building it on first use.
func Get() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		instance = l
	})
	return instance
}

// Sugar returns the sugared form of the process logger.
func Sugar() *zap.SugaredLogger {
	return Get().Sugar()
}
