package core

// Logger is any leveled logger. args may hold errors, maps of extra data and at most one
// Supervisor identifying who triggered the log entry.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Supervisor (Pengawas) identifies the author of plans. Authentication is done upstream;
// the engine only receives this identity.
type Supervisor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NopLogger discards everything. Pass it as &NopLogger{}.
type NopLogger struct{}

var _ Logger = (*NopLogger)(nil) // interface compliance check

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
