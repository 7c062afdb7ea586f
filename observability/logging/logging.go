// Package logging configures structured JSON logging for the risk services.
package logging

import (
	"log"
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON slog logger as the process default and returns it.
// Every line carries the service name; the environment, when provided, both
// tags the lines and selects verbosity — dev environments log at debug,
// everything else at info.
func Setup(service, env string) *slog.Logger {
	env = strings.TrimSpace(env)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       levelFor(env),
		ReplaceAttr: renameAttr,
	})

	logger := slog.New(handler).With("service", strings.TrimSpace(service))
	if env != "" {
		logger = logger.With("env", env)
	}
	slog.SetDefault(logger)

	// Route the standard library logger through the same handler so
	// third-party packages emit structured lines too.
	bridge := slog.NewLogLogger(logger.Handler(), slog.LevelInfo)
	bridge.SetFlags(0)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return logger
}

func levelFor(env string) slog.Level {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// renameAttr aligns slog's default keys with the field names the log
// pipeline indexes on.
func renameAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "timestamp"
	case slog.LevelKey:
		return slog.String("severity", strings.ToUpper(attr.Value.String()))
	case slog.MessageKey:
		attr.Key = "message"
	}
	return attr
}
