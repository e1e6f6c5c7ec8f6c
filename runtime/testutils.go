package runtime

import (
	"bytes"
	"testing"
)

// QuietTest disables logging for the duration of a test
// Usage: defer QuietTest(t)()
func QuietTest(t *testing.T) func() {
	oldLevel := GetLogLevel()
	SetLogLevel(LogLevelOff)
	return func() {
		SetLogLevel(oldLevel)
	}
}

// CaptureLog redirects the global logger into a buffer until cleanup runs.
func CaptureLog(t *testing.T, level LogLevel) (*bytes.Buffer, func()) {
	buffer := &bytes.Buffer{}
	old := SetLogger(NewLogger(buffer, level))
	return buffer, func() {
		SetLogger(old)
	}
}

// VerboseTest enables debug logging if test is run with -v flag
func VerboseTest(t *testing.T) func() {
	oldLevel := GetLogLevel()
	if testing.Verbose() {
		SetLogLevel(LogLevelDebug)
	}
	return func() {
		SetLogLevel(oldLevel)
	}
}
