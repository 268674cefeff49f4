// Package version holds build information set with -ldflags.
package version

var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

// String renders the version line shown by `gai --version`.
func String() string {
	s := Version
	if Commit != "" {
		s += " (" + Commit + ")"
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
