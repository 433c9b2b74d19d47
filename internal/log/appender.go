package log

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/natefinch/lumberjack.v2"
)

// MultiWriter fans one log line out to every configured appender. A failed
// appender never blocks the others.
type MultiWriter struct {
	writers []io.Writer
}

func (m *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range m.writers {
		if _, e := w.Write(p); e != nil {
			err = e
		}
	}
	return len(p), err
}

func (m *MultiWriter) Add(w io.Writer) *MultiWriter {
	m.writers = append(m.writers, w)
	return m
}

// buildWriters turns appender configs into a single writer. With no
// appenders configured, stderr is used.
func buildWriters(appenders []AppenderConfig) (io.Writer, error) {
	if len(appenders) == 0 {
		return os.Stderr, nil
	}
	mw := &MultiWriter{}
	for _, a := range appenders {
		switch a.Type {
		case "console":
			mw.Add(os.Stderr)
		case "file":
			var opt FileAppenderOpt
			if err := mapstructure.Decode(a.Options, &opt); err != nil {
				return nil, fmt.Errorf("file appender options: %w", err)
			}
			if opt.Filename == "" {
				return nil, fmt.Errorf("file appender requires a filename")
			}
			mw.Add(&lumberjack.Logger{
				Filename:   opt.Filename,
				MaxSize:    opt.MaxSize,
				MaxBackups: opt.MaxBackups,
				MaxAge:     opt.MaxAge,
				Compress:   opt.Compress,
			})
		default:
			return nil, fmt.Errorf("unknown appender type %q", a.Type)
		}
	}
	return mw, nil
}
