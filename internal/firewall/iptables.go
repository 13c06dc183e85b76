package firewall

import (
	"fmt"
	"sort"
	"strings"
)

// rejectTargets are the iptables targets that count as a ban.
var rejectTargets = map[string]bool{
	"REJECT": true,
	"DROP":   true,
}

// IPTablesSource reads fail2ban chains by parsing "iptables -L -n"
// output. It exists for hosts where fail2ban still drives legacy
// iptables; the numeric flag keeps sources as dotted quads instead of
// resolved names.
type IPTablesSource struct {
	runner CommandRunner
	path   string
}

// NewIPTablesSource creates a source executing the iptables binary at
// path through runner.
func NewIPTablesSource(runner CommandRunner, path string) *IPTablesSource {
	if path == "" {
		path = "iptables"
	}
	return &IPTablesSource{runner: runner, path: path}
}

// Chains lists chain names carrying the prefix, sorted. Chain header
// lines look like "Chain f2b-sshd (1 references)".
func (s *IPTablesSource) Chains(prefix string) ([]string, error) {
	out, err := s.runner.Output(s.path, "-L", "-n")
	if err != nil {
		return nil, fmt.Errorf("%s -L failed: %w", s.path, err)
	}

	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "Chain ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if strings.HasPrefix(fields[1], prefix) {
			names = append(names, fields[1])
		}
	}

	sort.Strings(names)
	return names, nil
}

// Sources returns the source column of every REJECT/DROP rule in the
// chain. Listing format with -n:
//
//	target     prot opt source               destination
//	REJECT     all  --  203.0.113.7          0.0.0.0/0    reject-with ...
func (s *IPTablesSource) Sources(chain string) ([]string, error) {
	out, err := s.runner.Output(s.path, "-L", chain, "-n")
	if err != nil {
		return nil, fmt.Errorf("%s -L %s failed: %w", s.path, chain, err)
	}

	var srcs []string
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		if rejectTargets[fields[0]] {
			srcs = append(srcs, fields[3])
		}
	}
	return srcs, nil
}
