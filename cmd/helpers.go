// Package cmd implements the CLI subcommands. Each RunXxx function is
// invoked from main after flag parsing and returns an error instead of
// exiting, so main owns the process exit code.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/edgeban/edgeban/internal/brand"
	"github.com/edgeban/edgeban/internal/cloudflare"
	"github.com/edgeban/edgeban/internal/config"
	"github.com/edgeban/edgeban/internal/firewall"
	"github.com/edgeban/edgeban/internal/i18n"
	"github.com/edgeban/edgeban/internal/logging"
	"github.com/edgeban/edgeban/internal/mirror"
	"github.com/edgeban/edgeban/internal/state"
)

// Printer renders CLI output in the system locale.
var Printer = i18n.NewCLIPrinter()

// loadConfig loads and validates the configuration. Validation errors
// are fatal; warnings are printed and the config is still returned.
func loadConfig(configFile string) (*config.Config, error) {
	result, err := config.LoadFileResult(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", configFile, err)
	}
	for _, w := range result.Warnings {
		Printer.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	verrs := result.Config.Validate()
	for _, w := range verrs.Warnings() {
		Printer.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if verrs.HasErrors() {
		return nil, fmt.Errorf("configuration invalid: %s", verrs.Error())
	}
	return result.Config, nil
}

// setupLogging reconfigures the default logger from the config.
func setupLogging(cfg *config.Config) {
	logging.SetDefault(logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Output: os.Stderr,
		JSON:   cfg.Log.JSON,
	}))
}

// newExtractor builds the firewall reader for the configured backend.
func newExtractor(cfg *config.Config) (*firewall.Extractor, error) {
	source, err := firewall.NewChainSource(cfg.Source, firewall.DefaultCommandRunner)
	if err != nil {
		return nil, fmt.Errorf("initializing %s backend: %w", cfg.Source.Backend, err)
	}
	return firewall.NewExtractor(source, cfg.Source.ChainPrefix, logging.Default()), nil
}

// newEngine builds the sync engine with a per-domain Cloudflare client.
func newEngine(cfg *config.Config, dryRun bool) *mirror.Engine {
	factory := func(d config.Domain) mirror.Provider {
		return cloudflare.NewClient(d.Email, d.APIKey,
			cloudflare.WithTimeout(cfg.Timeout()),
			cloudflare.WithLogger(logging.Default().WithDomain(d.Name)),
		)
	}
	return mirror.NewEngine(cfg, factory, mirror.WithDryRun(dryRun))
}

// openStore opens the run-history database under the configured state
// directory, creating the directory when missing.
func openStore(cfg *config.Config) (*state.Store, error) {
	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", cfg.StateDir, err)
	}
	path := filepath.Join(cfg.StateDir, brand.StateFileName)
	s, err := state.Open(state.Options{Path: path})
	if err != nil {
		return nil, fmt.Errorf("opening state database %s: %w", path, err)
	}
	return s, nil
}

// rememberListIDs caches resolved list IDs from a finished run. Purely
// informational, so failures only log.
func rememberListIDs(store *state.Store, cfg *config.Config, report *mirror.Report) {
	for _, res := range report.Domains {
		if res.ListID == "" {
			continue
		}
		d, ok := cfg.FindDomain(res.Domain)
		if !ok {
			continue
		}
		if err := store.RememberListID(d.AccountID, res.ListName, res.ListID); err != nil {
			logging.Warn("failed to cache list id", "domain", res.Domain, "err", err)
		}
	}
}
