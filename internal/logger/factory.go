package logger

import (
	"github.com/charmbracelet/log"
)

// Setup points the global charm logger at Output and sets its level.
// Debug mode also turns on timestamps.
func Setup(debug bool) {
	log.SetOutput(Output)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)
}

// Default creates a plain charm log, without timestamps, that respects the global log level
func Default(prefix string) *log.Logger {
	return NewWithConfig(prefix, log.GetLevel(), false, false, log.TextFormatter)
}
