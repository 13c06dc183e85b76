package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Legacy credential files are env-style files with one line per
// credential field, keyed as "domain;field":
//
//	example.com;email      = ops@example.com
//	example.com;api_key    = 0123abcd
//	example.com;account_id = 9a7806061c88ada191ed06f989cc3dac
//	example.com;zone_id    = 023e105f4ecef8ad9ca31a8372d0c353
//
// Fields outside {email, api_key, account_id, zone_id} are rejected.
// Domains are derived by splitting the keys and deduplicating.

var legacyFields = map[string]bool{
	"email":      true,
	"api_key":    true,
	"account_id": true,
	"zone_id":    true,
}

// ImportLegacyFile reads a legacy credential file and converts it into
// a Config with defaults applied.
func ImportLegacyFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy config: %w", err)
	}
	return ImportLegacy(data)
}

// ImportLegacy converts legacy credential bytes into a Config.
func ImportLegacy(data []byte) (*Config, error) {
	// The files are dotenv-shaped (comments, quoting, loose spacing)
	// except for the ";" in key names, which the env parser rejects.
	// Rewrite "domain;field" to "domain.field" before parsing; the
	// field is recovered from the last dot segment since no legacy
	// field name contains a dot.
	env, err := godotenv.UnmarshalBytes(normalizeLegacyKeys(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse legacy config: %w", err)
	}

	byDomain := make(map[string]*Domain)
	for key, value := range env {
		idx := strings.LastIndex(key, ".")
		if idx <= 0 || idx == len(key)-1 {
			return nil, fmt.Errorf("malformed legacy key %q (want domain;field)", key)
		}
		domain, field := key[:idx], key[idx+1:]
		if !legacyFields[field] {
			return nil, fmt.Errorf("unknown legacy field %q for domain %q", field, domain)
		}

		d := byDomain[domain]
		if d == nil {
			d = &Domain{Name: domain}
			byDomain[domain] = d
		}
		switch field {
		case "email":
			d.Email = value
		case "api_key":
			d.APIKey = value
		case "account_id":
			d.AccountID = value
		case "zone_id":
			d.ZoneID = value
		}
	}

	if len(byDomain) == 0 {
		return nil, fmt.Errorf("legacy config contains no domains")
	}

	names := make([]string, 0, len(byDomain))
	for name := range byDomain {
		names = append(names, name)
	}
	sort.Strings(names)

	cfg := New()
	for _, name := range names {
		cfg.Domains = append(cfg.Domains, *byDomain[name])
	}
	return cfg, nil
}

// normalizeLegacyKeys rewrites the ";" separator in each line's key
// portion to ".". Only the key part (before the first "=") is touched
// so values keep any semicolons they contain.
func normalizeLegacyKeys(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		lines[i] = strings.ReplaceAll(line[:eq], ";", ".") + line[eq:]
	}
	return []byte(strings.Join(lines, "\n"))
}
