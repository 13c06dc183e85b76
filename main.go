package main

import (
	"flag"
	"os"

	"github.com/edgeban/edgeban/cmd"
	"github.com/edgeban/edgeban/internal/brand"
	"github.com/edgeban/edgeban/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sync":
		// One-shot pass: read bans, push to every domain
		syncFlags := flag.NewFlagSet("sync", flag.ExitOnError)
		configFile := syncFlags.String("config", brand.DefaultConfigPath(), "Configuration file")
		syncFlags.StringVar(configFile, "c", brand.DefaultConfigPath(), "Configuration file (short)")

		dryRun := syncFlags.Bool("dry-run", false, "Log what would change without calling the API")
		syncFlags.BoolVar(dryRun, "n", false, "Dry run (short)")

		strict := syncFlags.Bool("strict", false, "Exit non-zero when any domain fails")

		syncFlags.Parse(os.Args[2:])

		if err := cmd.RunSync(*configFile, *dryRun, *strict); err != nil {
			printer.Fprintf(os.Stderr, "Sync failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("verbose", false, "Verbose output")
		checkFlags.BoolVar(verbose, "v", false, "Verbose output (short)")
		checkFlags.Parse(os.Args[2:])

		configFile := brand.DefaultConfigPath()
		if len(checkFlags.Args()) > 0 {
			configFile = checkFlags.Arg(0)
		}

		if err := cmd.RunCheck(configFile, *verbose); err != nil {
			printer.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

	case "daemon":
		// Continuous sync on the configured interval
		daemonFlags := flag.NewFlagSet("daemon", flag.ExitOnError)
		configFile := daemonFlags.String("config", brand.DefaultConfigPath(), "Configuration file")
		daemonFlags.StringVar(configFile, "c", brand.DefaultConfigPath(), "Configuration file (short)")
		daemonFlags.Parse(os.Args[2:])

		if err := cmd.RunDaemon(*configFile); err != nil {
			printer.Fprintf(os.Stderr, "Daemon failed: %v\n", err)
			os.Exit(1)
		}

	case "diff":
		// Compare local bans against the remote list; exit 1 on drift
		diffFlags := flag.NewFlagSet("diff", flag.ExitOnError)
		configFile := diffFlags.String("config", brand.DefaultConfigPath(), "Configuration file")
		diffFlags.StringVar(configFile, "c", brand.DefaultConfigPath(), "Configuration file (short)")

		domain := diffFlags.String("domain", "", "Domain whose list to compare (default: first configured)")
		diffFlags.StringVar(domain, "d", "", "Domain (short)")

		diffFlags.Parse(os.Args[2:])

		if err := cmd.RunDiff(*configFile, *domain); err != nil {
			printer.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

	case "status":
		statusFlags := flag.NewFlagSet("status", flag.ExitOnError)
		configFile := statusFlags.String("config", brand.DefaultConfigPath(), "Configuration file")
		statusFlags.StringVar(configFile, "c", brand.DefaultConfigPath(), "Configuration file (short)")

		limit := statusFlags.Int("limit", 10, "Number of runs to show")
		statusFlags.IntVar(limit, "l", 10, "Number of runs (short)")

		statusFlags.Parse(os.Args[2:])

		if err := cmd.RunStatus(*configFile, *limit); err != nil {
			printer.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}

	case "import":
		// Legacy credential file -> HCL config
		if err := cmd.RunImport(os.Args[2:]); err != nil {
			printer.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}

	case "version":
		printer.Printf("%s version %s\n", brand.Name, brand.Version)
		printer.Printf("Build: %s\n", brand.BuildTime)

	case "help", "-h", "--help":
		printUsage()

	default:
		printer.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

Commands:
  sync      Mirror current bans to every configured domain once
            Options: --config (-c) <file>, --dry-run (-n), --strict
  daemon    Sync continuously on the configured interval
            Options: --config (-c) <file>
  check     Validate the configuration file
            Options: --verbose (-v) [config-file]
  diff      Compare local bans against the remote list
            Options: --config (-c) <file>, --domain (-d) <name>
  status    Show recent sync runs
            Options: --config (-c) <file>, --limit (-l) <n>
  import    Convert a legacy credential file to HCL
            Options: -o <file> <legacy-conf>
  version   Print version information

Examples:
  %s sync                           # One-shot sync
  %s sync --dry-run                 # Show what would change
  %s daemon                         # Run until SIGTERM
  %s check -v /etc/%s/%s
  %s diff -d example.com
  %s import -o %s old.conf
`,
		brand.Name, brand.Description,
		brand.BinaryName,
		brand.BinaryName, brand.BinaryName, brand.BinaryName,
		brand.BinaryName, brand.LowerName, brand.ConfigFileName,
		brand.BinaryName, brand.BinaryName, brand.ConfigFileName)
}
