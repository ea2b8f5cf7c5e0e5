package version

// Version represents the current version of medialog
const Version = "0.3.0"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "medialog version " + Version
}
