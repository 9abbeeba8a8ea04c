//go:build tinygo

package logx

type Level int8

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

var level = LevelWarn

func SetLevel(l Level) { level = l }

// Logger prints records above the current level with println.
type Logger struct{ c Component }

func For(c Component) Logger { return Logger{c: c} }

func (l Logger) Debug(msg string, args ...any) { l.log(LevelDebug, "DEBUG", msg, args) }
func (l Logger) Info(msg string, args ...any)  { l.log(LevelInfo, "INFO", msg, args) }
func (l Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, "WARN", msg, args) }
func (l Logger) Error(msg string, args ...any) { l.log(LevelError, "ERROR", msg, args) }

func (l Logger) log(at Level, name, msg string, args []any) {
	if at < level {
		return
	}
	var buf [96]byte
	println(string(appendRecord(buf[:0], name, l.c, msg, args)))
}

// Err is the attribute used for errors, with the stable code alongside.
func Err(err error) any { return errAttr{err: err} }
