//go:build !linux
// +build !linux

package firewall

import (
	"fmt"

	"github.com/edgeban/edgeban/internal/config"
)

// NewChainSource builds the configured inspection backend. Only the
// iptables text backend is available off Linux (useful for development
// against canned output); nftables needs netlink.
func NewChainSource(cfg *config.SourceConfig, runner CommandRunner) (ChainSource, error) {
	switch cfg.Backend {
	case "iptables":
		return NewIPTablesSource(runner, cfg.IPTablesPath), nil
	case "nftables":
		return nil, fmt.Errorf("nftables backend requires linux")
	default:
		return nil, fmt.Errorf("unknown firewall backend %q", cfg.Backend)
	}
}
