package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init builds the process-wide logger. Development mode uses a human-readable console encoder.
func Init(dev bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// L returns the process-wide logger. Before Init it is a no-op logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Set replaces the process-wide logger.
func Set(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

func Sync() {
	_ = L().Sync()
}
