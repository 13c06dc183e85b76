package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/edgeban/edgeban/internal/mirror"
)

// RunStatus prints the recent sync run history from the state store.
func RunStatus(configFile string, limit int) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(limit)
	if err != nil {
		return fmt.Errorf("reading run history: %w", err)
	}
	if len(runs) == 0 {
		Printer.Println("No sync runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	Printer.Fprintln(w, "RUN\tSTARTED\tDURATION\tIPS\tDOMAINS\tRESULT")
	for _, run := range runs {
		Printer.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			shortID(run.RunID),
			run.Started.Local().Format("2006-01-02 15:04:05"),
			run.Duration().Round(time.Millisecond),
			run.IPCount,
			len(run.Domains),
			runResult(run),
		)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runResult(run *mirror.Report) string {
	switch {
	case run.DryRun:
		return "dry-run"
	case run.Interrupted:
		return "interrupted"
	case run.OK():
		return "ok"
	default:
		return fmt.Sprintf("failed(%d)", len(run.FailedDomains()))
	}
}
