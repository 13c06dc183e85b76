package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/edgeban/edgeban/internal/brand"
	"github.com/edgeban/edgeban/internal/config"
)

// RunCheck validates the configuration file and summarizes what a sync
// would touch. It never contacts the firewall or the provider.
func RunCheck(configFile string, verbose bool) error {
	if configFile == "" {
		return fmt.Errorf("usage: %s check [-v] [config-file]", brand.BinaryName)
	}

	result, err := config.LoadFileResult(configFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	cfg := result.Config

	for _, w := range result.Warnings {
		Printer.Printf("Warning: %s\n", w)
	}

	verrs := cfg.Validate()
	for _, w := range verrs.Warnings() {
		Printer.Printf("Warning: %s\n", w)
	}
	if verrs.HasErrors() {
		return fmt.Errorf("configuration invalid: %s", verrs.Error())
	}

	Printer.Printf("Configuration valid!\n")
	Printer.Printf("Domains: %d\n", len(cfg.SortedDomains()))
	Printer.Printf("Backend: %s (chains %s*)\n", cfg.Source.Backend, cfg.Source.ChainPrefix)
	Printer.Printf("List: %s (%s scope)\n", cfg.List.Name, cfg.List.Scope)
	Printer.Printf("Pacing: %s between domains\n", cfg.Pace())

	if verbose {
		Printer.Println()
		printDomainSummary(cfg)

		Printer.Println()
		Printer.Printf("Rule description: %q\n", cfg.Rule.Description)
		Printer.Println("Note: block rules are matched by description and never updated after")
		Printer.Println("creation. Changing the rule description or list name orphans rules")
		Printer.Println("created under the old names; remove those in the provider dashboard.")
	}

	return nil
}

func printDomainSummary(cfg *config.Config) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)

	Printer.Fprintln(w, "DOMAIN\tEMAIL\tACCOUNT\tZONE\tLIST")
	for _, d := range cfg.SortedDomains() {
		Printer.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.Name, d.Email, truncateID(d.AccountID), truncateID(d.ZoneID), cfg.ListNameFor(d.Name))
	}
	w.Flush()
}

// truncateID shortens provider IDs so the table stays readable.
func truncateID(id string) string {
	if len(id) <= 10 {
		return id
	}
	return id[:10] + "…"
}
