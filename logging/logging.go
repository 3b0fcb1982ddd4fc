package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// GetLogger returns the process logger. Packages may grab it at init time,
// before InitLogger runs; InitLogger reconfigures the same instance.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.SetLevel(logrus.InfoLevel)
	})
	return logger
}

// InitLogger sets the level of the process logger.
func InitLogger(level logrus.Level) {
	GetLogger().SetLevel(level)
}
