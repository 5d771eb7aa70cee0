// Package rslog initializes the process-wide logrus logger that the
// engine, store, bench and cli packages write operator-visible lines to, matching
// the text formatter and level conventions exercised in the teacher
// repo's test init() blocks.
package rslog

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Level name constants accepted by Init.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Init configures the standard logrus logger: a text formatter with full
// timestamps, and the level named by level (one of the Level* constants).
func Init(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("rslog: invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return nil
}
