package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/edgeban/edgeban/internal/cloudflare"
	"github.com/edgeban/edgeban/internal/config"
	"github.com/edgeban/edgeban/internal/logging"
	"github.com/edgeban/edgeban/internal/state"
)

// RunDiff compares the local banned set against the remote list of one
// domain. Returns an error when they differ so the exit code can drive
// scripts, same as a failed sync would.
func RunDiff(configFile, domainName string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	d, err := pickDomain(cfg, domainName)
	if err != nil {
		return err
	}
	listName := cfg.ListNameFor(d.Name)

	extractor, err := newExtractor(cfg)
	if err != nil {
		return err
	}
	local, err := extractor.Extract()
	if err != nil {
		return fmt.Errorf("reading firewall state: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := cloudflare.NewClient(d.Email, d.APIKey,
		cloudflare.WithTimeout(cfg.Timeout()),
		cloudflare.WithLogger(logging.Default().WithDomain(d.Name)),
	)

	// The state database only shortcuts list lookup; a missing or
	// broken one never blocks the diff.
	store, err := openStore(cfg)
	if err != nil {
		logging.Warn("state database unavailable, resolving list by name", "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	remote, err := fetchRemoteSet(ctx, client, store, d, listName)
	if err != nil {
		return err
	}
	if remote == nil {
		Printer.Printf("Remote list %q does not exist yet; a sync would create it with %d addresses.\n",
			listName, len(local))
		if len(local) == 0 {
			return nil
		}
		return fmt.Errorf("local bans differ from remote list")
	}

	diff := difflib.UnifiedDiff{
		A:        ipLines(remote),
		B:        ipLines(local),
		FromFile: "remote " + listName,
		ToFile:   "local " + cfg.Source.ChainPrefix + "* chains",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("rendering diff: %w", err)
	}

	if text == "" {
		Printer.Printf("No changes detected (%d addresses).\n", len(local))
		return nil
	}

	fmt.Print(text)
	return fmt.Errorf("local bans differ from remote list")
}

// fetchRemoteSet returns the sorted remote membership, or nil when the
// list has not been created. A cached list ID from an earlier run skips
// the name lookup; a stale ID falls back to resolving by name.
func fetchRemoteSet(ctx context.Context, client *cloudflare.Client, store *state.Store, d config.Domain, listName string) ([]string, error) {
	if store != nil {
		if id, err := store.CachedListID(d.AccountID, listName); err == nil {
			items, err := client.GetListItems(ctx, d.AccountID, id)
			if err == nil {
				return sortedIPs(items), nil
			}
			logging.Debug("cached list id did not resolve, looking up by name",
				"list", listName, "err", err)
		}
	}

	lists, err := client.ListIPLists(ctx, d.AccountID)
	if err != nil {
		return nil, fmt.Errorf("looking up list %q: %w", listName, err)
	}

	var listID string
	for _, l := range lists {
		if l.Name == listName {
			listID = l.ID
			break
		}
	}
	if listID == "" {
		return nil, nil
	}
	if store != nil {
		if err := store.RememberListID(d.AccountID, listName, listID); err != nil {
			logging.Warn("failed to cache list id", "domain", d.Name, "err", err)
		}
	}

	items, err := client.GetListItems(ctx, d.AccountID, listID)
	if err != nil {
		return nil, fmt.Errorf("reading items of list %q: %w", listName, err)
	}
	return sortedIPs(items), nil
}

func sortedIPs(items []cloudflare.ListItem) []string {
	ips := make([]string, 0, len(items))
	for _, item := range items {
		ips = append(ips, item.IP)
	}
	sort.Strings(ips)
	return ips
}

func pickDomain(cfg *config.Config, name string) (config.Domain, error) {
	domains := cfg.SortedDomains()
	if name == "" {
		return domains[0], nil
	}
	d, ok := cfg.FindDomain(name)
	if !ok {
		return config.Domain{}, fmt.Errorf("domain %q not found in configuration", name)
	}
	return d, nil
}

func ipLines(ips []string) []string {
	out := make([]string, len(ips))
	for i, ip := range ips {
		out[i] = ip + "\n"
	}
	return out
}
