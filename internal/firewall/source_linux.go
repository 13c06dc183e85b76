//go:build linux
// +build linux

package firewall

import (
	"fmt"

	"github.com/google/nftables"

	"github.com/edgeban/edgeban/internal/config"
)

// NewChainSource builds the configured inspection backend.
func NewChainSource(cfg *config.SourceConfig, runner CommandRunner) (ChainSource, error) {
	switch cfg.Backend {
	case "iptables":
		return NewIPTablesSource(runner, cfg.IPTablesPath), nil
	case "nftables":
		conn, err := nftables.New()
		if err != nil {
			return nil, fmt.Errorf("opening netlink connection: %w", err)
		}
		return NewNFTablesSource(NewRealNFTablesConn(conn), cfg.Table), nil
	default:
		return nil, fmt.Errorf("unknown firewall backend %q", cfg.Backend)
	}
}
