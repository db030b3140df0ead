package config

import (
	"go.uber.org/zap"
)

// InitLogger installs the global zap logger. Quiet mode raises the level to
// errors only; development mode is deliberately not exposed, the service logs
// structured JSON everywhere.
func InitLogger(quiet bool) error {
	c := zap.NewProductionConfig()
	if quiet {
		c.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	logger, err := c.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
