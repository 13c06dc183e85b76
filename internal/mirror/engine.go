// Package mirror pushes the locally banned IP set to the edge provider
// for every configured domain. Domains are processed one at a time in
// name order with a pacing delay between them, and one domain's failure
// never stops the rest of the batch.
package mirror

import (
	"context"
	"sort"
	"time"

	"github.com/edgeban/edgeban/internal/clock"
	"github.com/edgeban/edgeban/internal/config"
	"github.com/edgeban/edgeban/internal/logging"
	"github.com/edgeban/edgeban/internal/metrics"
)

// Provider is the slice of the edge API the engine drives. Each domain
// gets its own Provider because credentials differ per domain.
type Provider interface {
	EnsureList(ctx context.Context, accountID, name, description string) (listID string, created bool, err error)
	ReplaceListItems(ctx context.Context, accountID, listID string, ips []string, comment string) error
	EnsureRule(ctx context.Context, zoneID, listName, description string) (created bool, err error)
}

// ProviderFactory builds a Provider from one domain's credentials.
type ProviderFactory func(d config.Domain) Provider

// Engine mirrors a banned IP set into provider lists and block rules.
type Engine struct {
	cfg     *config.Config
	factory ProviderFactory
	logger  *logging.Logger
	clk     clock.Clock
	sleep   func(ctx context.Context, d time.Duration) error
	retry   RetryConfig
	dryRun  bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l.WithComponent("mirror")
	}
}

// WithClock sets the time source.
func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) {
		e.clk = c
	}
}

// WithDryRun makes Run report intended work without any provider calls.
func WithDryRun(enabled bool) EngineOption {
	return func(e *Engine) {
		e.dryRun = enabled
	}
}

// WithSleep replaces the pacing sleep.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) EngineOption {
	return func(e *Engine) {
		e.sleep = fn
	}
}

// WithRetry overrides the per-call retry settings.
func WithRetry(cfg RetryConfig) EngineOption {
	return func(e *Engine) {
		e.retry = cfg
	}
}

// NewEngine creates an Engine for cfg. The factory is called once per
// domain per run.
func NewEngine(cfg *config.Config, factory ProviderFactory, opts ...EngineOption) *Engine {
	cfg.ApplyDefaults()
	e := &Engine{
		cfg:     cfg,
		factory: factory,
		logger:  logging.Default().WithComponent("mirror"),
		clk:     &clock.RealClock{},
		sleep:   ctxSleep,
		retry:   DefaultRetryConfig(cfg.Sync.Attempts),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run mirrors ips to every domain in name order. The returned Report
// always covers the domains that were attempted; Run only returns early
// when the context is cancelled, and marks the report interrupted.
func (e *Engine) Run(ctx context.Context, domains []config.Domain, ips []string) *Report {
	ordered := orderDomains(domains)
	report := newReport(len(ips), e.dryRun, e.clk.Now())
	pace := e.cfg.Pace()

	e.logger.Info("starting sync run",
		"run_id", report.RunID, "domains", len(ordered), "ips", len(ips), "dry_run", e.dryRun)

	for i, d := range ordered {
		if i > 0 && pace > 0 {
			e.logger.Debug("pacing before next domain", "domain", d.Name, "pace", pace)
			if err := e.sleep(ctx, pace); err != nil {
				e.logger.Warn("sync run interrupted", "err", err)
				report.Interrupted = true
				break
			}
		}

		res := e.syncDomain(ctx, d, ips)
		report.Domains = append(report.Domains, res)
		if !e.dryRun {
			metrics.Get().RecordDomain(d.Name, res.OK())
		}
	}

	report.Finished = e.clk.Now()
	if !e.dryRun {
		metrics.Get().RecordRun(report.OK(), report.Duration(), len(ips))
	}

	if report.OK() {
		e.logger.Info("sync run finished", "run_id", report.RunID, "domains", len(report.Domains))
	} else {
		e.logger.Warn("sync run finished with errors",
			"run_id", report.RunID, "failed", report.FailedDomains())
	}
	return report
}

// syncDomain pushes the set to one domain. A list-resolution failure
// abandons the domain since the remaining steps need the list ID; an
// items or rule failure is recorded and the next step still runs.
func (e *Engine) syncDomain(ctx context.Context, d config.Domain, ips []string) DomainResult {
	listName := e.cfg.ListNameFor(d.Name)
	res := DomainResult{Domain: d.Name, ListName: listName}
	log := e.logger.WithDomain(d.Name)

	if e.dryRun {
		log.Info("dry run: would replace list and ensure block rule",
			"list", listName, "ips", len(ips))
		return res
	}

	p := e.factory(d)

	var listID string
	var listCreated bool
	err := Retry(ctx, e.retry, func() error {
		var err error
		listID, listCreated, err = p.EnsureList(ctx, d.AccountID, listName, e.cfg.List.Description)
		return err
	})
	if err != nil {
		log.Error("list resolution failed, skipping domain", "list", listName, "err", err)
		res.fail(StageList, err)
		res.Skipped = true
		return res
	}
	res.ListID = listID
	res.ListCreated = listCreated
	if listCreated {
		metrics.Get().ListsCreated.Inc()
	}

	err = Retry(ctx, e.retry, func() error {
		return p.ReplaceListItems(ctx, d.AccountID, listID, ips, e.cfg.List.Comment)
	})
	if err != nil {
		log.Error("replacing list items failed", "list", listName, "err", err)
		res.fail(StageItems, err)
	} else {
		res.Pushed = len(ips)
		log.Info("replaced list items", "list", listName, "ips", len(ips))
	}

	var ruleCreated bool
	err = Retry(ctx, e.retry, func() error {
		var err error
		ruleCreated, err = p.EnsureRule(ctx, d.ZoneID, listName, e.cfg.Rule.Description)
		return err
	})
	if err != nil {
		log.Error("ensuring block rule failed", "err", err)
		res.fail(StageRule, err)
	} else {
		res.RuleCreated = ruleCreated
		if ruleCreated {
			metrics.Get().RulesCreated.Inc()
		}
	}

	return res
}

// orderDomains deduplicates by name (first occurrence wins) and sorts
// ascending, so runs are deterministic no matter the config order.
func orderDomains(domains []config.Domain) []config.Domain {
	seen := make(map[string]bool, len(domains))
	out := make([]config.Domain, 0, len(domains))
	for _, d := range domains {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
