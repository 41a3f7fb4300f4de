package main

import (
	// Import all source modules to trigger their init() functions
	_ "vidmux/pkg/sources/invidious"
	_ "vidmux/pkg/sources/peertube"
	_ "vidmux/pkg/sources/static"
)
