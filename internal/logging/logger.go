// Package logging builds the zap loggers shared by the daemon, the lambda
// entry point and the services.
package logging

import "go.uber.org/zap"

// New returns a zap logger. Debug selects the development config
// (console encoder, debug level); otherwise production JSON at info level.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
