package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Logger is a named handle onto the shared sink. Handles are cheap
// values; two ForComponent calls with the same name are equivalent.
type Logger struct {
	name string
}

// Every logger writes through one sink, so swapping the output takes
// effect everywhere at once. The stdlib logger serializes writes.
var sink = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)

// debug gating: a global switch plus per-component overrides. The
// global switch wins when on; disabling a component only removes its
// own override.
var debug = struct {
	mu         sync.RWMutex
	all        bool
	components map[string]bool
}{components: make(map[string]bool)}

func init() {
	applyDebugEnv(os.Getenv("VIDMUX_DEBUG"))
}

// applyDebugEnv turns the VIDMUX_DEBUG value into debug settings:
// "1", "true" or "all" enable debug everywhere, anything else is read
// as a comma-separated list of component names.
func applyDebugEnv(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch strings.ToLower(value) {
	case "1", "true", "all":
		SetGlobalDebug(true)
		return
	}
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			EnableDebugFor(name)
		}
	}
}

// ForComponent returns a logger whose lines carry the component name,
// typically a source instance name or a subsystem like "engine".
func ForComponent(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	return &Logger{name: name}
}

// SetGlobalDebug enables or disables debug logging for every component.
func SetGlobalDebug(enabled bool) {
	debug.mu.Lock()
	debug.all = enabled
	debug.mu.Unlock()
}

// GlobalDebug reports whether debug logging is enabled everywhere.
func GlobalDebug() bool {
	debug.mu.RLock()
	defer debug.mu.RUnlock()
	return debug.all
}

// EnableDebugFor enables debug logging for one component.
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	debug.mu.Lock()
	debug.components[name] = true
	debug.mu.Unlock()
}

// DisableDebugFor removes a component's debug override. Global debug,
// if on, still applies.
func DisableDebugFor(name string) {
	debug.mu.Lock()
	delete(debug.components, name)
	debug.mu.Unlock()
}

// DebugEnabledFor reports whether debug lines from the named component
// would be written.
func DebugEnabledFor(name string) bool {
	debug.mu.RLock()
	defer debug.mu.RUnlock()
	return debug.all || debug.components[name]
}

// SetOutput redirects all loggers, existing handles included, to w.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	sink.SetOutput(w)
}

func (l *Logger) write(level, format string, args ...any) {
	sink.Println(level + " [" + l.name + "] " + fmt.Sprintf(format, args...))
}

// Infof logs an informational message with fmt.Sprintf semantics.
func (l *Logger) Infof(format string, args ...any) {
	l.write(LevelInfo, format, args...)
}

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.write(LevelWarn, format, args...)
}

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...any) {
	l.write(LevelError, format, args...)
}

// Debugf logs only when debug is enabled globally or for this logger's
// component.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.write(LevelDebug, format, args...)
}

// Level tags as they appear at the start of each line.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)
