// Package config defines the edgeban configuration schema and loaders.
//
// The primary format is HCL; JSON is accepted as a fallback for
// machine-generated configs. A legacy flat credential format (one
// "domain;field = value" line per entry) can be imported, see legacy.go.
package config

import (
	"sort"
	"strings"
	"time"

	"github.com/edgeban/edgeban/internal/brand"
)

// Defaults for optional settings. The list and rule names are
// deliberately stable: the rule description doubles as the idempotency
// key at the edge, so changing it orphans previously created rules.
const (
	DefaultChainPrefix     = "f2b-"
	DefaultBackend         = "nftables"
	DefaultIPTablesPath    = "iptables"
	DefaultListName        = "fail2ban_blocklist"
	DefaultListDescription = "IP addresses banned by fail2ban"
	DefaultItemComment     = "managed by " + brand.LowerName
	DefaultRuleDescription = "Block IPs banned by fail2ban"
	DefaultListScope       = "account"
	DefaultPace            = "10s"
	DefaultTimeout         = "30s"
	DefaultInterval        = "5m"
	DefaultAttempts        = 1
	DefaultMetricsListen   = ":9321"
)

// Config is the top-level structure for the edgeban configuration.
type Config struct {
	Domains []Domain `hcl:"domain,block" json:"domains"`

	Sync    *SyncConfig    `hcl:"sync,block" json:"sync,omitempty"`
	Source  *SourceConfig  `hcl:"source,block" json:"source,omitempty"`
	List    *ListConfig    `hcl:"list,block" json:"list,omitempty"`
	Rule    *RuleConfig    `hcl:"rule,block" json:"rule,omitempty"`
	Metrics *MetricsConfig `hcl:"metrics,block" json:"metrics,omitempty"`
	Log     *LogConfig     `hcl:"log,block" json:"log,omitempty"`

	// State directory (overrides default /var/lib/edgeban)
	StateDir string `hcl:"state_dir,optional" json:"state_dir,omitempty"`
}

// Domain holds the edge credentials and identifiers for one zone.
type Domain struct {
	Name      string `hcl:"name,label" json:"name"`
	Email     string `hcl:"email" json:"email"`
	APIKey    string `hcl:"api_key" json:"api_key"`
	AccountID string `hcl:"account_id" json:"account_id"`
	ZoneID    string `hcl:"zone_id" json:"zone_id"`
}

// SyncConfig tunes the sync run behaviour.
type SyncConfig struct {
	// Pace is the delay between consecutive domains (e.g. "10s").
	// This is a rate-limit courtesy to the edge API, not a knob to
	// tune for speed.
	Pace string `hcl:"pace,optional" json:"pace,omitempty"`

	// Timeout bounds each individual API call (e.g. "30s").
	Timeout string `hcl:"timeout,optional" json:"timeout,omitempty"`

	// Attempts is the per-call attempt budget. 1 means no retry.
	Attempts int `hcl:"attempts,optional" json:"attempts,omitempty"`

	// Interval between sync passes in daemon mode (e.g. "5m").
	Interval string `hcl:"interval,optional" json:"interval,omitempty"`
}

// SourceConfig selects and tunes the firewall inspection backend.
type SourceConfig struct {
	// Backend is "nftables" (native netlink) or "iptables" (parses
	// iptables -L -n output).
	Backend string `hcl:"backend,optional" json:"backend,omitempty"`

	// ChainPrefix marks chains as intrusion-prevention-managed.
	ChainPrefix string `hcl:"chain_prefix,optional" json:"chain_prefix,omitempty"`

	// Table restricts the nftables scan to one table name. Empty
	// scans every table, which finds fail2ban chains whether they
	// live in ip/filter (iptables-nft) or fail2ban's own inet table.
	Table string `hcl:"table,optional" json:"table,omitempty"`

	// IPTablesPath overrides the iptables binary location.
	IPTablesPath string `hcl:"iptables_path,optional" json:"iptables_path,omitempty"`
}

// ListConfig names the edge IP list.
type ListConfig struct {
	Name        string `hcl:"name,optional" json:"name,omitempty"`
	Description string `hcl:"description,optional" json:"description,omitempty"`

	// Comment is attached to every list item.
	Comment string `hcl:"comment,optional" json:"comment,omitempty"`

	// Scope is "account" (one list shared by all domains under the
	// same account) or "domain" (a per-domain list with a derived
	// name suffix).
	Scope string `hcl:"scope,optional" json:"scope,omitempty"`
}

// RuleConfig names the zone firewall rule.
type RuleConfig struct {
	// Description is the sole idempotency key for the block rule.
	Description string `hcl:"description,optional" json:"description,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint (daemon mode).
type MetricsConfig struct {
	Enabled bool   `hcl:"enabled,optional" json:"enabled"`
	Listen  string `hcl:"listen,optional" json:"listen,omitempty"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `hcl:"level,optional" json:"level,omitempty"` // debug, info, warn, error
	JSON  bool   `hcl:"json,optional" json:"json,omitempty"`
}

// New returns a Config with all optional blocks populated with defaults.
func New() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in missing optional blocks and fields. Loaders
// call this after decoding so the rest of the program never checks for
// nil blocks or empty settings.
func (c *Config) ApplyDefaults() {
	if c.Sync == nil {
		c.Sync = &SyncConfig{}
	}
	if c.Sync.Pace == "" {
		c.Sync.Pace = DefaultPace
	}
	if c.Sync.Timeout == "" {
		c.Sync.Timeout = DefaultTimeout
	}
	if c.Sync.Attempts <= 0 {
		c.Sync.Attempts = DefaultAttempts
	}
	if c.Sync.Interval == "" {
		c.Sync.Interval = DefaultInterval
	}

	if c.Source == nil {
		c.Source = &SourceConfig{}
	}
	if c.Source.Backend == "" {
		c.Source.Backend = DefaultBackend
	}
	if c.Source.ChainPrefix == "" {
		c.Source.ChainPrefix = DefaultChainPrefix
	}
	if c.Source.IPTablesPath == "" {
		c.Source.IPTablesPath = DefaultIPTablesPath
	}

	if c.List == nil {
		c.List = &ListConfig{}
	}
	if c.List.Name == "" {
		c.List.Name = DefaultListName
	}
	if c.List.Description == "" {
		c.List.Description = DefaultListDescription
	}
	if c.List.Comment == "" {
		c.List.Comment = DefaultItemComment
	}
	if c.List.Scope == "" {
		c.List.Scope = DefaultListScope
	}

	if c.Rule == nil {
		c.Rule = &RuleConfig{}
	}
	if c.Rule.Description == "" {
		c.Rule.Description = DefaultRuleDescription
	}

	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = DefaultMetricsListen
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.StateDir == "" {
		c.StateDir = brand.DefaultStateDir
	}
}

// Pace returns the inter-domain pacing delay.
func (c *Config) Pace() time.Duration {
	return parseDurationOr(c.Sync.Pace, DefaultPace)
}

// Timeout returns the per-call API timeout.
func (c *Config) Timeout() time.Duration {
	return parseDurationOr(c.Sync.Timeout, DefaultTimeout)
}

// Interval returns the daemon sync interval.
func (c *Config) Interval() time.Duration {
	return parseDurationOr(c.Sync.Interval, DefaultInterval)
}

func parseDurationOr(s, fallback string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// SortedDomains returns the configured domains deduplicated by name
// (first occurrence wins) in ascending name order. The sync engine
// iterates this so processing order is deterministic.
func (c *Config) SortedDomains() []Domain {
	seen := make(map[string]bool, len(c.Domains))
	out := make([]Domain, 0, len(c.Domains))
	for _, d := range c.Domains {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DuplicateDomains returns the names that appear more than once, for
// warning at load time.
func (c *Config) DuplicateDomains() []string {
	counts := make(map[string]int, len(c.Domains))
	for _, d := range c.Domains {
		counts[d.Name]++
	}
	var dups []string
	for name, n := range counts {
		if n > 1 {
			dups = append(dups, name)
		}
	}
	sort.Strings(dups)
	return dups
}

// FindDomain returns the first domain with the given name.
func (c *Config) FindDomain(name string) (Domain, bool) {
	for _, d := range c.Domains {
		if d.Name == name {
			return d, true
		}
	}
	return Domain{}, false
}

// ListNameFor returns the effective list name for a domain. Account
// scope shares one name; domain scope derives a suffixed name that
// still satisfies the edge's lowercase-alnum-underscore constraint.
func (c *Config) ListNameFor(domain string) string {
	if c.List.Scope != "domain" {
		return c.List.Name
	}
	return c.List.Name + "_" + sanitizeListSuffix(domain)
}

func sanitizeListSuffix(domain string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(domain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
