package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Warnf is the package-level warning logger. It defaults to log.Printf with a
// "Warning: " prefix and follows Logf through SetLogger.
var Warnf func(format string, v ...interface{}) = func(format string, v ...interface{}) {
	log.Printf("Warning: "+format, v...)
}

// SetLogger replaces both package loggers. Passing nil will set no-op loggers.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		Warnf = func(string, ...interface{}) {}
		return
	}
	Logf = f
	Warnf = func(format string, v ...interface{}) {
		f("Warning: "+format, v...)
	}
}
