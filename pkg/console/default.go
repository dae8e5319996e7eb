package console

import (
	"os"
	"sync"
)

var (
	defaultMu      sync.Mutex
	defaultConsole *Console
)

// Default returns the process-wide console bound to stdout, creating it
// on first use.
func Default() *Console {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultConsole == nil {
		defaultConsole = New(Params{Writer: os.Stdout})
	}
	return defaultConsole
}

// SetDefault replaces the process-wide console and returns the previous
// one, or nil if none existed.
//
// The caller owns the returned console and should close it if it was in
// use.
func SetDefault(c *Console) *Console {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	previous := defaultConsole
	defaultConsole = c
	return previous
}

// PrintLine prints a static line on the default console.
func PrintLine(fields ...any) {
	Default().PrintLine(fields...)
}

// PrintJoined prints a static line with a custom field separator on the
// default console.
func PrintJoined(fields []any, separator string) {
	Default().PrintJoined(fields, separator)
}

// Printf prints a static formatted line on the default console.
func Printf(format string, args ...any) {
	Default().Printf(format, args...)
}

// PrintDynamic prints an editable line on the default console.
func PrintDynamic(fields ...any) *Entry {
	return Default().PrintDynamic(fields...)
}

// PrintDynamicJoined is PrintDynamic with a custom field separator.
func PrintDynamicJoined(fields []any, separator string) *Entry {
	return Default().PrintDynamicJoined(fields, separator)
}

// NotifyExternalLine tells the default console about text written
// directly to stdout.
func NotifyExternalLine(text string) {
	Default().NotifyExternalLine(text)
}

// SetMaxFPS changes the default console's redraw rate cap.
func SetMaxFPS(fps int) {
	Default().SetMaxFPS(fps)
}

// Flush redraws the default console's pending changes now.
func Flush() {
	Default().Flush()
}

// Close flushes and stops the default console.
func Close() {
	Default().Close()
}
