package config

import (
	"strings"
	"testing"
)

func TestRenderHCL_Minimal(t *testing.T) {
	cfg := New()
	cfg.Domains = []Domain{{
		Name: "example.com", Email: "e@x.com", APIKey: "k",
		AccountID: "a", ZoneID: "z",
	}}

	out := string(RenderHCL(cfg))

	if !strings.Contains(out, `domain "example.com"`) {
		t.Errorf("missing domain block:\n%s", out)
	}
	if !strings.Contains(out, `api_key`) {
		t.Errorf("missing api_key attribute:\n%s", out)
	}
	// All-default optional blocks are omitted entirely
	for _, block := range []string{"sync {", "source {", "list {", "rule {", "metrics {", "log {"} {
		if strings.Contains(out, block) {
			t.Errorf("default-only block %q should be omitted:\n%s", block, out)
		}
	}
}

func TestRenderHCL_NonDefaults(t *testing.T) {
	cfg := New()
	cfg.Domains = []Domain{{
		Name: "example.com", Email: "e@x.com", APIKey: "k",
		AccountID: "a", ZoneID: "z",
	}}
	cfg.Sync.Pace = "3s"
	cfg.Source.Backend = "iptables"
	cfg.Log.JSON = true

	out := string(RenderHCL(cfg))

	if !strings.Contains(out, `pace = "3s"`) {
		t.Errorf("missing non-default pace:\n%s", out)
	}
	if !strings.Contains(out, `backend = "iptables"`) {
		t.Errorf("missing non-default backend:\n%s", out)
	}
	if !strings.Contains(out, "json = true") {
		t.Errorf("missing non-default log json:\n%s", out)
	}
	// Unchanged siblings stay out
	if strings.Contains(out, "timeout") {
		t.Errorf("default timeout should be omitted:\n%s", out)
	}
}

func TestRenderHCL_RoundTrip(t *testing.T) {
	cfg := New()
	cfg.Domains = []Domain{
		{Name: "a.com", Email: "e@a.com", APIKey: "k1", AccountID: "acc1", ZoneID: "z1"},
		{Name: "b.com", Email: "e@b.com", APIKey: "k2", AccountID: "acc2", ZoneID: "z2"},
	}
	cfg.Sync.Pace = "1s"

	result, err := LoadHCL(RenderHCL(cfg), "rendered.hcl")
	if err != nil {
		t.Fatalf("rendered HCL does not parse: %v", err)
	}

	if len(result.Config.Domains) != 2 {
		t.Errorf("round trip lost domains: %+v", result.Config.Domains)
	}
	if result.Config.Sync.Pace != "1s" {
		t.Errorf("round trip Sync.Pace = %q, want 1s", result.Config.Sync.Pace)
	}
	if result.Config.Domains[1].AccountID != "acc2" {
		t.Errorf("round trip AccountID = %q, want acc2", result.Config.Domains[1].AccountID)
	}
}
