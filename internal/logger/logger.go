package logger

import "go.uber.org/zap"

// Log is the engine-wide logger. It discards everything until Init or
// InitDevelopment is called.
var Log = zap.NewNop()

// Init installs a production JSON logger.
func Init() {
	l, err := zap.NewProduction()
	if err != nil {
		return
	}
	Log = l
}

// InitDevelopment installs a console logger at debug level. DPanic calls
// panic with this logger, which turns broken lifetime contracts into crashes
// while developing.
func InitDevelopment() {
	l, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	Log = l
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
