package internal

import (
	"log/slog"
	"strconv"
	"sync/atomic"
)

var (
	quietMode   atomic.Bool // Indicates whether quiet mode is enabled.
	debugMode   atomic.Bool // Indicates whether debug logging is enabled.
	verboseMode atomic.Bool // Indicates whether verbose output is enabled.

	// Level shared by every handler installed through [LogLevel].
	level slog.LevelVar
)

// Parses the linker flags into usable runtime variables.
//
// The rawQuiet, rawDebug, and rawVerbose variables should be set via ldflags
// during the build process. If not set, they default to "false".
func init() {
	if v, err := strconv.ParseBool(rawQuiet); err == nil {
		quietMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawDebug); err == nil {
		debugMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawVerbose); err == nil {
		verboseMode.Store(v)
	}
	level.Set(resolveLevel())
}

// Enables or disables quiet mode.
func SetQuiet(enabled bool) {
	quietMode.Store(enabled)
	level.Set(resolveLevel())
}

// Returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode.Load()
}

// Enables or disables debug mode.
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
	level.Set(resolveLevel())
}

// Returns true if debug mode is enabled.
func IsDebug() bool {
	return debugMode.Load()
}

// Enables or disables verbose output.
//
// Verbose mode adds source locations to log records and raises scan
// verbosity; it does not change the log level.
func SetVerbose(enabled bool) {
	verboseMode.Store(enabled)
}

// Returns true if verbose output is enabled.
func IsVerbose() bool {
	return verboseMode.Load()
}

// Returns the level variable handlers should be configured with.
//
// The value tracks the current mode, so handlers created before flag parsing
// pick up the final level without being rebuilt.
func LogLevel() *slog.LevelVar {
	return &level
}

// Debug wins over quiet when both are set.
func resolveLevel() slog.Level {
	if debugMode.Load() {
		return slog.LevelDebug
	}
	if quietMode.Load() {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
