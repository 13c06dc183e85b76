package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/edgeban/edgeban/internal/brand"
	"github.com/edgeban/edgeban/internal/config"
)

// RunImport converts a legacy "domain;field" credential file into an
// HCL configuration. The result goes to stdout unless -o names a file.
func RunImport(args []string) error {
	var output string

	// Parse flags from args, not os.Args
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	fs.StringVar(&output, "output", "", "Write the configuration to this file instead of stdout")
	fs.StringVar(&output, "o", "", "Output file (short)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		Printer.Fprintf(os.Stderr, "Usage: %s import [-o <file>] <legacy-conf>\n", brand.BinaryName)
		return fmt.Errorf("import needs exactly one legacy config file")
	}
	input := fs.Arg(0)

	cfg, err := config.ImportLegacyFile(input)
	if err != nil {
		return err
	}

	verrs := cfg.Validate()
	for _, w := range verrs.Warnings() {
		Printer.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if verrs.HasErrors() {
		return fmt.Errorf("legacy config %s is incomplete: %s", input, verrs.Error())
	}

	rendered := config.RenderHCL(cfg)

	if output == "" {
		os.Stdout.Write(rendered)
		return nil
	}

	// The file holds API keys, keep it private.
	if err := os.WriteFile(output, rendered, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	Printer.Printf("Imported %d domain(s) from %s\n", len(cfg.Domains), input)
	Printer.Printf("Configuration written to %s\n", output)
	return nil
}
