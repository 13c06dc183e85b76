package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Sync.Pace != DefaultPace {
		t.Errorf("Sync.Pace = %q, want %q", cfg.Sync.Pace, DefaultPace)
	}
	if cfg.Sync.Attempts != 1 {
		t.Errorf("Sync.Attempts = %d, want 1", cfg.Sync.Attempts)
	}
	if cfg.Source.Backend != "nftables" {
		t.Errorf("Source.Backend = %q, want nftables", cfg.Source.Backend)
	}
	if cfg.Source.ChainPrefix != "f2b-" {
		t.Errorf("Source.ChainPrefix = %q, want f2b-", cfg.Source.ChainPrefix)
	}
	if cfg.List.Name != "fail2ban_blocklist" {
		t.Errorf("List.Name = %q, want fail2ban_blocklist", cfg.List.Name)
	}
	if cfg.Rule.Description == "" {
		t.Error("Rule.Description should have a default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestApplyDefaults_PreservesExplicit(t *testing.T) {
	cfg := &Config{
		Sync:   &SyncConfig{Pace: "2s", Attempts: 3},
		Source: &SourceConfig{Backend: "iptables"},
	}
	cfg.ApplyDefaults()

	if cfg.Sync.Pace != "2s" {
		t.Errorf("Sync.Pace = %q, want 2s", cfg.Sync.Pace)
	}
	if cfg.Sync.Attempts != 3 {
		t.Errorf("Sync.Attempts = %d, want 3", cfg.Sync.Attempts)
	}
	if cfg.Source.Backend != "iptables" {
		t.Errorf("Source.Backend = %q, want iptables", cfg.Source.Backend)
	}
	// Unset fields inside the explicit block still get defaults
	if cfg.Source.ChainPrefix != DefaultChainPrefix {
		t.Errorf("Source.ChainPrefix = %q, want default", cfg.Source.ChainPrefix)
	}
}

func TestDurations(t *testing.T) {
	cfg := New()
	if cfg.Pace() != 10*time.Second {
		t.Errorf("Pace() = %v, want 10s", cfg.Pace())
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", cfg.Timeout())
	}
	if cfg.Interval() != 5*time.Minute {
		t.Errorf("Interval() = %v, want 5m", cfg.Interval())
	}

	cfg.Sync.Pace = "250ms"
	if cfg.Pace() != 250*time.Millisecond {
		t.Errorf("Pace() = %v, want 250ms", cfg.Pace())
	}

	// Unparseable values fall back to the default rather than zero.
	cfg.Sync.Pace = "soon"
	if cfg.Pace() != 10*time.Second {
		t.Errorf("Pace() = %v, want fallback 10s", cfg.Pace())
	}
}

func TestSortedDomains(t *testing.T) {
	cfg := New()
	cfg.Domains = []Domain{
		{Name: "b.com", Email: "first@b.com"},
		{Name: "a.com"},
		{Name: "b.com", Email: "second@b.com"},
		{Name: "c.com"},
	}

	got := cfg.SortedDomains()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Name != "a.com" || got[1].Name != "b.com" || got[2].Name != "c.com" {
		t.Errorf("order = %v, want a.com, b.com, c.com", []string{got[0].Name, got[1].Name, got[2].Name})
	}
	// First definition wins for duplicates
	if got[1].Email != "first@b.com" {
		t.Errorf("duplicate resolution kept %q, want first@b.com", got[1].Email)
	}

	dups := cfg.DuplicateDomains()
	if len(dups) != 1 || dups[0] != "b.com" {
		t.Errorf("DuplicateDomains() = %v, want [b.com]", dups)
	}
}

func TestFindDomain(t *testing.T) {
	cfg := New()
	cfg.Domains = []Domain{{Name: "a.com", ZoneID: "z1"}}

	d, ok := cfg.FindDomain("a.com")
	if !ok || d.ZoneID != "z1" {
		t.Errorf("FindDomain(a.com) = %+v, %v", d, ok)
	}
	if _, ok := cfg.FindDomain("missing.com"); ok {
		t.Error("FindDomain(missing.com) should not be found")
	}
}

func TestListNameFor(t *testing.T) {
	cfg := New()

	if got := cfg.ListNameFor("example.com"); got != "fail2ban_blocklist" {
		t.Errorf("account scope name = %q, want fail2ban_blocklist", got)
	}

	cfg.List.Scope = "domain"
	if got := cfg.ListNameFor("example.com"); got != "fail2ban_blocklist_example_com" {
		t.Errorf("domain scope name = %q, want fail2ban_blocklist_example_com", got)
	}
	if got := cfg.ListNameFor("My-Site.co.uk"); got != "fail2ban_blocklist_my_site_co_uk" {
		t.Errorf("sanitized name = %q", got)
	}
}
