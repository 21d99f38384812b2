package main

import (
	"fmt"
	"time"

	"github.com/watchdag/watchdag/internal/config"
	"github.com/watchdag/watchdag/internal/logger"
)

func newLogger(verbose bool) (*logger.Logger, error) {
	level := "info"
	if verbose {
		level = "debug"
	}

	return logger.New(logger.Options{Level: level, HumanReadable: true})
}

// parseLogicalDate interprets the --logical-date flag. An empty value
// means the current wall clock.
func parseLogicalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid logical date %q: %w", raw, err)
	}

	return t.UTC(), nil
}

// selectSensors narrows a parsed file down to the sensors a command
// should act on. An empty id selects all of them.
func selectSensors(cfg *config.File, id string) ([]config.Sensor, error) {
	if id == "" {
		return cfg.Sensors, nil
	}

	for _, sc := range cfg.Sensors {
		if sc.ID == id {
			return []config.Sensor{sc}, nil
		}
	}

	return nil, fmt.Errorf("no sensor with id %q in configuration", id)
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}
