package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLegacy = `# edge credentials, one line per field
example.com;email      = ops@example.com
example.com;api_key    = 0123abcd
example.com;account_id = 9a7806061c88ada191ed06f989cc3dac
example.com;zone_id    = 023e105f4ecef8ad9ca31a8372d0c353

other.org;email      = "admin@other.org"
other.org;api_key    = ffff0000
other.org;account_id = acc2
other.org;zone_id    = zone2
`

func TestImportLegacy(t *testing.T) {
	cfg, err := ImportLegacy([]byte(sampleLegacy))
	if err != nil {
		t.Fatalf("ImportLegacy() error = %v", err)
	}

	if len(cfg.Domains) != 2 {
		t.Fatalf("len(Domains) = %d, want 2", len(cfg.Domains))
	}

	// Domains come out sorted by name
	if cfg.Domains[0].Name != "example.com" || cfg.Domains[1].Name != "other.org" {
		t.Errorf("domain order = %v", []string{cfg.Domains[0].Name, cfg.Domains[1].Name})
	}

	d := cfg.Domains[0]
	if d.Email != "ops@example.com" {
		t.Errorf("Email = %q", d.Email)
	}
	if d.APIKey != "0123abcd" {
		t.Errorf("APIKey = %q", d.APIKey)
	}
	if d.AccountID != "9a7806061c88ada191ed06f989cc3dac" {
		t.Errorf("AccountID = %q", d.AccountID)
	}
	if d.ZoneID != "023e105f4ecef8ad9ca31a8372d0c353" {
		t.Errorf("ZoneID = %q", d.ZoneID)
	}

	// Quoted values are unquoted by the env parser
	if cfg.Domains[1].Email != "admin@other.org" {
		t.Errorf("quoted Email = %q", cfg.Domains[1].Email)
	}

	// Imported config gets defaults so it validates standalone
	if cfg.List.Name != DefaultListName {
		t.Errorf("List.Name = %q, want default", cfg.List.Name)
	}
	if errs := cfg.Validate(); errs.HasErrors() {
		t.Errorf("imported config should validate: %v", errs)
	}
}

func TestImportLegacy_UnknownField(t *testing.T) {
	_, err := ImportLegacy([]byte("example.com;token = abc\n"))
	if err == nil {
		t.Fatal("unknown field accepted")
	}
	if !strings.Contains(err.Error(), "token") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestImportLegacy_Empty(t *testing.T) {
	if _, err := ImportLegacy([]byte("# just a comment\n")); err == nil {
		t.Fatal("empty legacy config accepted")
	}
}

func TestImportLegacy_PartialDomain(t *testing.T) {
	cfg, err := ImportLegacy([]byte("half.com;email = a@half.com\n"))
	if err != nil {
		t.Fatalf("ImportLegacy() error = %v", err)
	}
	// Import preserves what was there; validation catches the gaps.
	if errs := cfg.Validate(); !errs.HasErrors() {
		t.Error("half-configured import should fail validation")
	}
}

func TestImportLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloudflare.conf")
	if err := os.WriteFile(path, []byte(sampleLegacy), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ImportLegacyFile(path)
	if err != nil {
		t.Fatalf("ImportLegacyFile() error = %v", err)
	}
	if len(cfg.Domains) != 2 {
		t.Errorf("len(Domains) = %d, want 2", len(cfg.Domains))
	}

	if _, err := ImportLegacyFile(filepath.Join(t.TempDir(), "missing.conf")); err == nil {
		t.Error("missing file accepted")
	}
}
