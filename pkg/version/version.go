package version

// Version represents the current version of vidmux
const Version = "0.4.1"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "vidmux version " + Version
}
