package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

// Init configures the process-wide logger. Production environments get
// JSON output at info level, everything else gets console output at debug.
func Init(environment string) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	sugar = l.Sugar()
}

func logger() *zap.SugaredLogger {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return sugar
}

func Debug(msg string, keysAndValues ...any) {
	logger().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	logger().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	logger().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	logger().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	logger().Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
