//go:build !debug
// +build !debug

package hyper4d

func DebugLog(format string, args ...interface{}) {}

func DebugLogOnce(format string, args ...interface{}) {}
