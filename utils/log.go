package utils

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Log returns the process logger. Packages log at debug level, the driver
// raises the level with SetVerbose.
func Log() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          "gltf_bake",
		})
		logger.SetLevel(log.InfoLevel)
	})
	return logger
}

func SetVerbose(verbose bool) {
	if verbose {
		Log().SetLevel(log.DebugLevel)
	} else {
		Log().SetLevel(log.InfoLevel)
	}
}
