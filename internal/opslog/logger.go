// Package opslog is a minimal hand-rolled JSON logger, kept as the
// alternate `--log.json` output path for cmd/admin alongside that
// command's primary zap logger. Adapted from
// prover-register/internal/logger/logger.go: same json.Encoder-backed
// shape, same level methods, with Infow/Errorw/Debugw/Sync added so a
// *Logger can stand in for a *zap.SugaredLogger wherever cmd/admin only
// needs that narrower surface.
package opslog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Logger writes one JSON object per line to its output encoder.
type Logger struct {
	output *json.Encoder
}

// NewJSONLogger builds a Logger writing to stderr.
func NewJSONLogger() *Logger {
	return &Logger{output: json.NewEncoder(os.Stderr)}
}

func (l *Logger) log(level string, msg string, fields ...interface{}) {
	entry := map[string]interface{}{
		"time":  time.Now().Format(time.RFC3339),
		"level": level,
		"msg":   msg,
	}
	for i := 0; i < len(fields)-1; i += 2 {
		if key, ok := fields[i].(string); ok {
			entry[key] = fields[i+1]
		}
	}
	l.output.Encode(entry)
}

func (l *Logger) Info(msg string, fields ...interface{})  { l.log("info", msg, fields...) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.log("error", msg, fields...) }
func (l *Logger) Debug(msg string, fields ...interface{}) { l.log("debug", msg, fields...) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.log("warn", msg, fields...) }

func (l *Logger) Fatal(msg string, fields ...interface{}) {
	l.log("fatal", msg, fields...)
	os.Exit(1)
}

// Printf adapts Logger to the standard library's *log.Logger surface.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.Info(fmt.Sprintf(format, v...))
}

// Infow, Errorw, Debugw and Sync give Logger the same narrow surface
// cmd/admin's primary zap.SugaredLogger exposes, so either can be
// passed through the same local interface depending on --log.json.
func (l *Logger) Infow(msg string, fields ...interface{})  { l.Info(msg, fields...) }
func (l *Logger) Errorw(msg string, fields ...interface{}) { l.Error(msg, fields...) }
func (l *Logger) Debugw(msg string, fields ...interface{}) { l.Debug(msg, fields...) }

// Sync is a no-op: json.Encoder writes are unbuffered, unlike zap's.
func (l *Logger) Sync() error { return nil }
