package logx

import (
	"time"

	"github.com/rs/zerolog"
)

// ZerologAdapter backs Logger with a zerolog.Logger. It is used for the
// human-readable console format.
type ZerologAdapter struct {
	l zerolog.Logger
}

// NewZerologAdapter wraps l.
func NewZerologAdapter(l zerolog.Logger) Logger {
	return &ZerologAdapter{l: l}
}

func (z *ZerologAdapter) Debug(msg string, fields ...Field) { emit(z.l.Debug(), msg, fields) }
func (z *ZerologAdapter) Info(msg string, fields ...Field)  { emit(z.l.Info(), msg, fields) }
func (z *ZerologAdapter) Warn(msg string, fields ...Field)  { emit(z.l.Warn(), msg, fields) }
func (z *ZerologAdapter) Error(msg string, fields ...Field) { emit(z.l.Error(), msg, fields) }

// With returns a child logger carrying fields on every entry.
func (z *ZerologAdapter) With(fields ...Field) Logger {
	ctx := z.l.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &ZerologAdapter{l: ctx.Logger()}
}

// Sync is a no-op; zerolog writes directly to its writer.
func (z *ZerologAdapter) Sync() error { return nil }

func emit(ev *zerolog.Event, msg string, fields []Field) {
	// disabled level
	if ev == nil {
		return
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			ev = ev.Str(f.Key, v)
		case int:
			ev = ev.Int(f.Key, v)
		case int64:
			ev = ev.Int64(f.Key, v)
		case float64:
			ev = ev.Float64(f.Key, v)
		case bool:
			ev = ev.Bool(f.Key, v)
		case time.Duration:
			ev = ev.Dur(f.Key, v)
		case time.Time:
			ev = ev.Time(f.Key, v)
		case error:
			ev = ev.AnErr(f.Key, v)
		default:
			ev = ev.Interface(f.Key, v)
		}
	}
	ev.Msg(msg)
}
