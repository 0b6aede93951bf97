package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// ConfigureLogger applies the level and format to the standard logrus logger.
func (l LogConfig) ConfigureLogger() error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	switch l.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", l.Format)
	}
	return nil
}
