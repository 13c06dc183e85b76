package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// LoadResult contains the loaded config and metadata about the load.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// LoadFile loads a config file (HCL or JSON, by extension) and applies
// defaults. Validation is the caller's responsibility so commands can
// decide between fail-fast (sync, daemon) and report-everything (check).
func LoadFile(path string) (*Config, error) {
	result, err := LoadFileResult(path)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// LoadFileResult loads a config file and returns load warnings
// alongside the config.
func LoadFileResult(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".hcl":
		return LoadHCL(data, path)
	case ".json":
		return LoadJSON(data)
	default:
		// Try HCL first, fall back to JSON
		result, err := LoadHCL(data, path)
		if err != nil {
			if jsonResult, jerr := LoadJSON(data); jerr == nil {
				return jsonResult, nil
			}
			return nil, err
		}
		return result, nil
	}
}

// LoadHCL loads config from HCL bytes.
func LoadHCL(data []byte, filename string) (*LoadResult, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL parse error: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("HCL decode error: %s", diags.Error())
	}

	return finishLoad(&cfg), nil
}

// LoadJSON loads config from JSON bytes.
func LoadJSON(data []byte) (*LoadResult, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}

	return finishLoad(&cfg), nil
}

// finishLoad applies defaults and collects load-time warnings that are
// not hard errors (duplicate domains keep their first definition).
func finishLoad(cfg *Config) *LoadResult {
	cfg.ApplyDefaults()

	var warnings []string
	for _, name := range cfg.DuplicateDomains() {
		warnings = append(warnings,
			fmt.Sprintf("domain %q defined more than once; first definition wins", name))
	}

	return &LoadResult{Config: cfg, Warnings: warnings}
}

// SaveHCL saves config as HCL using hclwrite for formatting.
func SaveHCL(cfg *Config, path string) error {
	data, err := GenerateHCL(cfg)
	if err != nil {
		return err
	}
	return writeConfigFile(path, data)
}

// GenerateHCL generates HCL bytes from Config.
func GenerateHCL(cfg *Config) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(cfg, f.Body())
	return f.Bytes(), nil
}

// writeConfigFile writes with restrictive permissions; configs carry
// API keys.
func writeConfigFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
