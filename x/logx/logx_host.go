//go:build !tinygo

package logx

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"halcode-go/errcode"
)

var (
	level = new(slog.LevelVar)

	mu   sync.RWMutex
	base *slog.Logger
)

func init() {
	level.Set(slog.LevelWarn)
	base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func SetLevel(l slog.Level) { level.Set(l) }
func Level() slog.Level     { return level.Level() }

// ParseLevel accepts debug, info, warn/warning and error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errcode.New(errcode.Error, "logx.level", "unknown level "+s)
}

// SetOutput sends every logger to w, as JSON lines when json is set.
func SetOutput(w io.Writer, json bool) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	SetLogger(slog.New(h))
}

// SetLogger replaces the base logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	base = l
	mu.Unlock()
}

// For returns the base logger tagged with c. Call it per use rather than
// caching the result, so SetOutput takes effect everywhere.
func For(c Component) *slog.Logger {
	mu.RLock()
	l := base
	mu.RUnlock()
	return l.With("component", string(c))
}

// Err is the attribute used for errors, with the stable code alongside.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Group("err", "code", string(errcode.Of(err)), "msg", err.Error())
}
