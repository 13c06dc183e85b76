package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgeban/edgeban/internal/mirror"
	"github.com/edgeban/edgeban/internal/state"
)

// runHistoryKeep caps the number of reports retained in the state
// database.
const runHistoryKeep = 100

// RunSync performs one extract-and-mirror pass over all configured
// domains. Per-domain failures are reported but do not fail the
// process unless strict is set; a nonzero exit otherwise means the run
// never got as far as talking to the provider.
func RunSync(configFile string, dryRun, strict bool) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor, err := newExtractor(cfg)
	if err != nil {
		return err
	}
	ips, err := extractor.Extract()
	if err != nil {
		return fmt.Errorf("reading firewall state: %w", err)
	}

	var store *state.Store
	if !dryRun {
		store, err = openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	engine := newEngine(cfg, dryRun)
	report := engine.Run(ctx, cfg.SortedDomains(), ips)

	if store != nil {
		if err := store.SaveRun(report); err != nil {
			Printer.Fprintf(os.Stderr, "warning: failed to record run: %v\n", err)
		} else if err := store.PruneRuns(runHistoryKeep); err != nil {
			Printer.Fprintf(os.Stderr, "warning: failed to prune run history: %v\n", err)
		}
		rememberListIDs(store, cfg, report)
	}

	printReport(report)

	if strict && !report.OK() {
		return fmt.Errorf("%d of %d domains failed", len(report.FailedDomains()), len(report.Domains))
	}
	return nil
}

// printReport renders the per-domain outcome table.
func printReport(report *mirror.Report) {
	if report.DryRun {
		Printer.Printf("Dry run: %d banned addresses, %d domains, nothing pushed\n",
			report.IPCount, len(report.Domains))
		return
	}

	for _, res := range report.Domains {
		switch {
		case res.Skipped:
			Printer.Printf("  %s: FAILED (%s)\n", res.Domain, res.Errors[0].Message)
		case !res.OK():
			Printer.Printf("  %s: PARTIAL (%s: %s)\n",
				res.Domain, res.Errors[0].Stage, res.Errors[0].Message)
		default:
			extra := ""
			if res.ListCreated {
				extra += ", list created"
			}
			if res.RuleCreated {
				extra += ", rule created"
			}
			Printer.Printf("  %s: OK (%d addresses%s)\n", res.Domain, res.Pushed, extra)
		}
	}

	status := "complete"
	if report.Interrupted {
		status = "interrupted"
	}
	Printer.Printf("Sync %s: %d addresses, %d/%d domains OK (run %s)\n",
		status, report.IPCount,
		len(report.Domains)-len(report.FailedDomains()), len(report.Domains),
		report.RunID)
}
