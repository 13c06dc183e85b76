//go:build linux

package firewall

import (
	"testing"

	"github.com/google/nftables"

	"github.com/edgeban/edgeban/internal/testutil"
)

// TestLiveNFTablesEnumeration lists chains on the running kernel. It
// only asserts that enumeration works, not that ban chains exist; on a
// host without fail2ban the result is legitimately empty.
func TestLiveNFTablesEnumeration(t *testing.T) {
	testutil.RequireLiveFirewall(t)

	conn, err := nftables.New()
	if err != nil {
		t.Fatalf("opening netlink connection: %v", err)
	}

	src := NewNFTablesSource(NewRealNFTablesConn(conn), "")
	chains, err := src.Chains("f2b-")
	if err != nil {
		t.Fatalf("enumerating chains: %v", err)
	}
	t.Logf("found %d ban chains", len(chains))

	for _, chain := range chains {
		ips, err := src.Sources(chain)
		if err != nil {
			t.Errorf("reading chain %s: %v", chain, err)
			continue
		}
		t.Logf("chain %s: %d banned addresses", chain, len(ips))
	}
}
