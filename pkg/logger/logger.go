// Package logger holds the process wide zap logger and the request scoped
// log fields collected while a request is served.
package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once sync.Once
	root *zap.Logger
)

// Init builds the root logger. Only the first call has an effect.
func Init(level, env string) {
	once.Do(func() {
		root = build(level, env)
	})
}

func build(level, env string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(env, "development") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l
}

// Root returns the root logger, building it from LOG_LEVEL and APP_ENV when
// Init was never called.
func Root() *zap.Logger {
	once.Do(func() {
		root = build(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	})
	return root
}

func MustNamed(name string) *zap.SugaredLogger {
	return Root().Named(name).Sugar()
}

func Sync() {
	_ = Root().Sync()
}

type fieldsKey struct{}

// fieldSet is shared by every context derived from the request context, so
// fields added deep in a usecase reach the access log line.
type fieldSet struct {
	mu sync.Mutex
	kv []any
}

// WithFields returns ctx carrying an empty field set. A ctx that already has
// one is returned as is.
func WithFields(ctx context.Context) context.Context {
	if _, ok := ctx.Value(fieldsKey{}).(*fieldSet); ok {
		return ctx
	}
	return context.WithValue(ctx, fieldsKey{}, &fieldSet{})
}

// AddFields attaches key/value pairs to the request log line. It is a no-op
// unless ctx came from WithFields.
func AddFields(ctx context.Context, keysAndValues ...any) {
	fs, ok := ctx.Value(fieldsKey{}).(*fieldSet)
	if !ok {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.kv = append(fs.kv, keysAndValues...)
}

func Fields(ctx context.Context) []any {
	fs, ok := ctx.Value(fieldsKey{}).(*fieldSet)
	if !ok {
		return nil
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]any(nil), fs.kv...)
}
