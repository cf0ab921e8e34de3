package tablestore

import (
	"log"
	"os"

	"github.com/jjeffery/kv"
)

// Logger receives the accessor's log lines.
type Logger interface {
	Printf(format string, args ...any)
}

type NopLogger struct{}

func (NopLogger) Printf(format string, args ...any) {}

func StdLogger() Logger {
	return log.New(os.Stderr, "[tablestore] ", log.LstdFlags)
}

// logKV writes msg followed by the key/value pairs.
func logKV(l Logger, msg string, keyvals ...any) {
	if l == nil {
		return
	}

	l.Printf("%s %s", msg, kv.List(keyvals).String())
}
