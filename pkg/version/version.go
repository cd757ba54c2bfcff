package version

// DevVersion is the version of unpackaged development builds. Self-update
// is disabled while the binary reports it.
var DevVersion = "v0.0.0"

var version = "v0.0.0"

func GetVersion() string {
	return version
}
