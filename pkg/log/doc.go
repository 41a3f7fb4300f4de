package log

// Package log provides a small wrapper around Go's standard library logging
// facilities. It gives every part of vidmux a named logger with a consistent
// prefix so interleaved output from concurrent searches stays readable.
//
// Key Features
//
//   - Per component loggers via ForComponent(name)
//   - Automatic prefix in every line: `[name]`  (example: `[engine] search done`)
//   - Convenience level helpers: Infof, Warnf, Errorf, Debugf
//   - Debug logging can be enabled globally (SetGlobalDebug), per component
//     (EnableDebugFor / DisableDebugFor), or at startup through the
//     VIDMUX_DEBUG environment variable
//   - Uses the standard library *log.Logger* under the hood (no external deps)
//   - Central output writer (SetOutput) that all loggers share
//
// Basic Usage
//
//	import (
//		"vidmux/pkg/log"
//	)
//
//	func main() {
//		// Enable global debug logs if desired.
//		log.SetGlobalDebug(true)
//
//		// Acquire a logger for a component.
//		eng := log.ForComponent("engine")
//
//		eng.Infof("starting search")
//		eng.Warnf("source slow to respond")
//		eng.Debugf("raw payload: %v", "...") // printed because global debug enabled
//	}
//
// Selective Debug
//
//	// Only enable debug for the 'engine' component.
//	log.EnableDebugFor("engine")
//	log.ForComponent("engine").Debugf("visible")
//	log.ForComponent("cache").Debugf("NOT visible")
//
// The same selection works without code changes by setting VIDMUX_DEBUG to a
// comma-separated list of component names, or to "all" for everything.
//
// Thread Safety
//
// All exported functions are safe for concurrent use. Loggers write through
// a single shared sink, which also serializes their output.
//
// Testing
//
// Tests can redirect output by calling SetOutput with a bytes.Buffer,
// enabling assertions on log contents.
