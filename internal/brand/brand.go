// Package brand centralizes naming constants so forks can rebrand the tool
// by editing a single file.
package brand

const (
	// Name is the product name used in user-facing output.
	Name = "Edgeban"

	// LowerName is the lowercase product name used for paths and identifiers.
	LowerName = "edgeban"

	// BinaryName is the installed executable name.
	BinaryName = "edgeban"

	// Description is the one-line product description shown in usage output.
	Description = "mirrors fail2ban bans into Cloudflare edge blocklists"

	// DefaultConfigDir is where the configuration file lives by default.
	DefaultConfigDir = "/etc/edgeban"

	// ConfigFileName is the default configuration file name.
	ConfigFileName = "edgeban.hcl"

	// DefaultStateDir holds the run-history database by default.
	DefaultStateDir = "/var/lib/edgeban"

	// StateFileName is the sqlite database file name inside the state dir.
	StateFileName = "state.db"
)

// Version and BuildTime are overridden at build time via
// -ldflags "-X github.com/edgeban/edgeban/internal/brand.Version=...".
var (
	Version   = "0.3.0"
	BuildTime = "unknown"
)

// UserAgent identifies the tool to the Cloudflare API.
func UserAgent() string {
	return BinaryName + "/" + Version
}

// DefaultConfigPath returns the full default configuration file path.
func DefaultConfigPath() string {
	return DefaultConfigDir + "/" + ConfigFileName
}
