//go:build debug
// +build debug

package hyper4d

import (
	"sync"

	"go.uber.org/zap"
)

var debugSugar = zap.Must(zap.NewDevelopment(zap.AddCallerSkip(1))).Sugar().Named("debug")

func DebugLog(format string, args ...interface{}) {
	debugSugar.Debugf(format, args...)
}

var onceFormats sync.Map

// DebugLogOnce logs a given format string only the first time it is seen.
func DebugLogOnce(format string, args ...interface{}) {
	if _, seen := onceFormats.LoadOrStore(format, struct{}{}); !seen {
		debugSugar.Debugf(format, args...)
	}
}
