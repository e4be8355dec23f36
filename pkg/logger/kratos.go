package logger

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sirupsen/logrus"
)

// KratosLogger forwards kratos framework logs to Log.
type KratosLogger struct{}

var _ log.Logger = KratosLogger{}

func (KratosLogger) Log(level log.Level, keyvals ...any) error {
	fields := logrus.Fields{}
	msg := ""
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		var val any = "(MISSING)"
		if i+1 < len(keyvals) {
			val = keyvals[i+1]
		}
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(val)
			continue
		}
		fields[key] = val
	}

	entry := Log.WithFields(fields).WithField("component", "kratos")
	switch level {
	case log.LevelDebug:
		entry.Debug(msg)
	case log.LevelWarn:
		entry.Warn(msg)
	case log.LevelError, log.LevelFatal:
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
	return nil
}
