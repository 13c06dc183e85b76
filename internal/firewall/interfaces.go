package firewall

// ChainSource exposes the read surface of a firewall backend: the
// chains carrying a recognized prefix, and the raw source-address
// tokens of the reject/drop rules inside one chain. Tokens are
// returned as found; validation happens in the Extractor.
type ChainSource interface {
	// Chains returns the names of chains whose name starts with
	// prefix, in stable order.
	Chains(prefix string) ([]string, error)

	// Sources returns the source-address text of every reject/drop
	// rule in the named chain. The chain must come from a prior
	// Chains call.
	Sources(chain string) ([]string, error)
}

// CommandRunner abstracts command execution for the iptables backend.
// Extraction only reads listings, so output capture is the whole
// surface.
type CommandRunner interface {
	Output(name string, args ...string) ([]byte, error)
}

// RealCommandRunner executes actual shell commands.
type RealCommandRunner struct{}

// DefaultCommandRunner is the default command runner.
var DefaultCommandRunner CommandRunner = &RealCommandRunner{}
