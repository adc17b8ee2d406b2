// internal/adapter/logger/types.go
package logger

// ErrorInfo is the "error" object attached to failed actions.
type ErrorInfo struct {
	Msg string `json:"msg"`
}

type nopLogger struct{}

// Nop discards everything; handy for tests and one-off tools.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Info(string, string, string, map[string]interface{})         {}
func (nopLogger) Debug(string, string, string, map[string]interface{})        {}
func (nopLogger) Warn(string, string, string, map[string]interface{}, error)  {}
func (nopLogger) Error(string, string, string, map[string]interface{}, error) {}
