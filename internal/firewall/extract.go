package firewall

import (
	"fmt"
	"sort"

	"github.com/edgeban/edgeban/internal/logging"
	"github.com/edgeban/edgeban/internal/metrics"
	"github.com/edgeban/edgeban/internal/validation"
)

// Extractor turns raw chain contents into the canonical banned-IP set.
// It is deliberately strict: anything that is not a plain dotted-quad
// IPv4 address (CIDR ranges, IPv6, iptables placeholder tokens) is
// dropped, because every member ships to the edge blocklist verbatim.
type Extractor struct {
	source ChainSource
	prefix string
	logger *logging.Logger
}

// NewExtractor creates an Extractor reading chains with the given name
// prefix from source.
func NewExtractor(source ChainSource, prefix string, logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{
		source: source,
		prefix: prefix,
		logger: logger.WithComponent("firewall"),
	}
}

// Extract returns the deduplicated, sorted set of banned IPv4
// addresses. Failing to enumerate chains at all is an error, since
// pushing an empty set because inspection broke would unban everything
// at the edge. A single chain failing to read is logged and skipped;
// the remaining chains still contribute.
func (e *Extractor) Extract() ([]string, error) {
	chains, err := e.source.Chains(e.prefix)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s* chains: %w", e.prefix, err)
	}
	metrics.Get().ChainsScanned.Set(float64(len(chains)))

	if len(chains) == 0 {
		e.logger.Info("no intrusion-prevention chains found", "prefix", e.prefix)
		return nil, nil
	}

	seen := make(map[string]bool)
	for _, chain := range chains {
		sources, err := e.source.Sources(chain)
		if err != nil {
			e.logger.Warn("skipping unreadable chain", "chain", chain, "error", err)
			continue
		}

		kept, dropped := 0, 0
		for _, raw := range sources {
			if !validation.IsIPv4(raw) {
				dropped++
				continue
			}
			seen[raw] = true
			kept++
		}
		e.logger.Debug("scanned chain",
			"chain", chain, "rules", len(sources), "kept", kept, "dropped", dropped)
	}

	ips := make([]string, 0, len(seen))
	for ip := range seen {
		ips = append(ips, ip)
	}
	sort.Strings(ips)

	e.logger.Info("extracted banned addresses",
		"chains", len(chains), "addresses", len(ips))
	return ips, nil
}
