package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log is the global logger. Init must be called before any module runs.
var Log *zap.Logger

// Init builds the global zap logger. Debug mode uses the development
// config (console encoder, Debug level), otherwise JSON at Info level.
func Init(debug bool) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	Log = l
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
