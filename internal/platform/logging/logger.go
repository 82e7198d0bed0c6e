// Package logging wraps zap behind the key/value call style used across the
// service. Context-aware calls attach the active trace and span ids.
package logging

import (
	"context"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// frames between the caller and zap: the exported method and emit.
const wrapperDepth = 2

type Logger struct {
	sugar  *zap.SugaredLogger
	synced *atomic.Bool
}

var global atomic.Pointer[Logger]

// Default returns the process-wide logger, a no-op until SetDefault is called.
func Default() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return NewNop()
}

func SetDefault(l *Logger) {
	if l == nil {
		l = NewNop()
	}
	global.Store(l)
}

// NewJSON writes one JSON object per line to stdout.
func NewJSON(level Level, service string) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder
	enc.FunctionKey = zapcore.OmitKey

	z := zap.New(
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), level),
		zap.AddCaller(),
		zap.AddCallerSkip(wrapperDepth),
		zap.AddStacktrace(LevelError),
	)
	if service != "" {
		z = z.With(zap.String("service", service))
	}
	return FromZap(z)
}

// NewConsole is the colourless development encoder, used by CLIs and dev runs.
func NewConsole(level Level) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	z, err := cfg.Build(zap.AddCallerSkip(wrapperDepth))
	if err != nil {
		return NewNop()
	}
	return FromZap(z)
}

func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{sugar: z.Sugar(), synced: new(atomic.Bool)}
}

// Zap exposes the underlying logger for libraries that take one directly.
func (l *Logger) Zap() *zap.Logger {
	return l.orDefault().sugar.Desugar()
}

// Sync flushes buffered entries once; later calls are no-ops.
func (l *Logger) Sync() error {
	if l == nil || l.sugar == nil || !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	return l.sugar.Sync()
}

func (l *Logger) With(kv ...any) *Logger {
	base := l.orDefault()
	return &Logger{sugar: base.sugar.With(normalize(kv)...), synced: base.synced}
}

func (l *Logger) Named(name string) *Logger {
	base := l.orDefault()
	return &Logger{sugar: base.sugar.Named(name), synced: base.synced}
}

func (l *Logger) Debug(msg string, kv ...any) { l.emit(nil, LevelDebug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.emit(nil, LevelInfo, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.emit(nil, LevelWarn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.emit(nil, LevelError, msg, kv) }

func (l *Logger) DebugContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelDebug, msg, kv)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelInfo, msg, kv)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelWarn, msg, kv)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelError, msg, kv)
}

func (l *Logger) orDefault() *Logger {
	if l == nil || l.sugar == nil {
		return Default()
	}
	return l
}

func (l *Logger) emit(ctx context.Context, level Level, msg string, kv []any) {
	s := l.orDefault().sugar
	if !s.Desugar().Core().Enabled(level) {
		return
	}
	kv = normalize(kv)
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			kv = append(kv, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
		}
	}
	s.Logw(level, msg, kv...)
}

// normalize turns loose key/value pairs into typed fields so a bad key or a
// dangling value never makes zap complain. Errors keep their key.
func normalize(kv []any) []any {
	if len(kv) == 0 {
		return nil
	}
	out := make([]any, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, _ := kv[i].(string)
		if key == "" {
			key = "arg"
		}
		var val any
		if i+1 < len(kv) {
			val = kv[i+1]
		}
		if err, ok := val.(error); ok {
			out = append(out, zap.NamedError(key, err))
			continue
		}
		out = append(out, zap.Any(key, val))
	}
	return out
}
