package main

import (
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

// newLogger builds the process logger. Unknown levels fall back to info.
func newLogger(level string, output io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "unpackbot",
		Level:  lvl,
		Output: output,
	})
}

// hclogAdapter exposes an hclog.Logger as an unpack.Logger.
type hclogAdapter struct {
	logger hclog.Logger
}

var _ unpack.Logger = hclogAdapter{}

func (a hclogAdapter) LogDebug(msg string, keyValuePairs ...any) { a.logger.Debug(msg, keyValuePairs...) }
func (a hclogAdapter) LogInfo(msg string, keyValuePairs ...any)  { a.logger.Info(msg, keyValuePairs...) }
func (a hclogAdapter) LogWarn(msg string, keyValuePairs ...any)  { a.logger.Warn(msg, keyValuePairs...) }
func (a hclogAdapter) LogError(msg string, keyValuePairs ...any) { a.logger.Error(msg, keyValuePairs...) }
