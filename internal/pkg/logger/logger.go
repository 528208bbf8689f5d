package logger

// Logger defines the logging interface.
// Messages carry alternating key/value pairs, e.g. Info("object created", "id", id).
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Fatal(msg string, keyvals ...interface{})
	Panic(msg string, keyvals ...interface{})
	// With returns a Logger that adds keyvals to every record.
	With(keyvals ...interface{}) Logger
}
