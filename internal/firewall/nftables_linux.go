//go:build linux
// +build linux

package firewall

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/google/nftables"
	"github.com/google/nftables/expr"
)

const (
	// IPv4 header offsets (RFC 791)
	IPv4SrcOffset = 12
	IPv4AddrLen   = 4
)

// NFTablesSource reads fail2ban chains over netlink. It understands
// both shapes fail2ban produces: one rule per address (payload load at
// the source offset plus compare) and set-backed rules (payload load
// plus lookup into a named set holding the banned addresses).
type NFTablesSource struct {
	conn NFTablesConn

	// table restricts scanning to one table name; empty scans all
	// tables, which is the useful default since fail2ban may install
	// into ip/filter (iptables-nft) or its own inet table.
	table string

	// chains maps name to the chain objects found by Chains. A name
	// can map to several chains when the same chain name exists in
	// more than one table or family.
	chains map[string][]*nftables.Chain
}

// NewNFTablesSource creates a source reading from conn. table may be
// empty to scan every table.
func NewNFTablesSource(conn NFTablesConn, table string) *NFTablesSource {
	return &NFTablesSource{conn: conn, table: table}
}

// Chains lists chain names carrying the prefix, sorted.
func (s *NFTablesSource) Chains(prefix string) ([]string, error) {
	chains, err := s.conn.ListChains()
	if err != nil {
		return nil, fmt.Errorf("listing chains: %w", err)
	}

	s.chains = make(map[string][]*nftables.Chain)
	var names []string
	for _, c := range chains {
		if !strings.HasPrefix(c.Name, prefix) {
			continue
		}
		if s.table != "" && c.Table.Name != s.table {
			continue
		}
		if _, seen := s.chains[c.Name]; !seen {
			names = append(names, c.Name)
		}
		s.chains[c.Name] = append(s.chains[c.Name], c)
	}

	sort.Strings(names)
	return names, nil
}

// Sources returns the source addresses of all reject/drop rules in the
// named chain, including addresses held in sets the rules look up.
func (s *NFTablesSource) Sources(chain string) ([]string, error) {
	objs := s.chains[chain]
	if objs == nil {
		return nil, fmt.Errorf("unknown chain %q (not seen by Chains)", chain)
	}

	var out []string
	for _, c := range objs {
		rules, err := s.conn.GetRules(c.Table, c)
		if err != nil {
			return nil, fmt.Errorf("reading rules of %s: %w", chain, err)
		}
		for _, rule := range rules {
			srcs, err := s.ruleSources(c.Table, rule)
			if err != nil {
				return nil, err
			}
			out = append(out, srcs...)
		}
	}
	return out, nil
}

// ruleSources decodes one rule. A rule contributes addresses when it
// both matches on the IPv4 source field and ends in a drop or reject
// verdict. Everything else (returns, jumps, counters-only rules) is
// ignored.
func (s *NFTablesSource) ruleSources(table *nftables.Table, rule *nftables.Rule) ([]string, error) {
	var (
		srcLoaded bool
		addrs     []string
		setNames  []string
		rejects   bool
	)

	for _, e := range rule.Exprs {
		switch ex := e.(type) {
		case *expr.Payload:
			srcLoaded = ex.Base == expr.PayloadBaseNetworkHeader &&
				ex.Offset == IPv4SrcOffset &&
				ex.Len == IPv4AddrLen
		case *expr.Cmp:
			if srcLoaded && ex.Op == expr.CmpOpEq && len(ex.Data) == net.IPv4len {
				addrs = append(addrs, net.IP(ex.Data).String())
			}
		case *expr.Lookup:
			if srcLoaded {
				setNames = append(setNames, ex.SetName)
			}
		case *expr.Verdict:
			if ex.Kind == expr.VerdictDrop {
				rejects = true
			}
		case *expr.Reject:
			rejects = true
		}
	}

	if !rejects {
		return nil, nil
	}

	for _, name := range setNames {
		elems, err := s.setElements(table, name)
		if err != nil {
			return nil, fmt.Errorf("resolving set %s: %w", name, err)
		}
		addrs = append(addrs, elems...)
	}
	return addrs, nil
}

// setElements reads a named set's members, keeping IPv4 keys only.
func (s *NFTablesSource) setElements(table *nftables.Table, name string) ([]string, error) {
	set, err := s.conn.GetSetByName(table, name)
	if err != nil {
		return nil, err
	}
	elems, err := s.conn.GetSetElements(set)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, el := range elems {
		// Interval sets carry boundary markers; skip them.
		if el.IntervalEnd {
			continue
		}
		if len(el.Key) == net.IPv4len {
			out = append(out, net.IP(el.Key).String())
		}
	}
	return out, nil
}
