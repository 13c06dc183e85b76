package mirror

import (
	"time"

	"github.com/google/uuid"
)

// Stage names the step of a domain sync an error belongs to.
type Stage string

const (
	StageList  Stage = "list"
	StageItems Stage = "items"
	StageRule  Stage = "rule"
)

// StageError is one failed step of a domain sync.
type StageError struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// DomainResult is the outcome of syncing a single domain.
type DomainResult struct {
	Domain      string       `json:"domain"`
	ListName    string       `json:"list_name"`
	ListID      string       `json:"list_id,omitempty"`
	ListCreated bool         `json:"list_created,omitempty"`
	RuleCreated bool         `json:"rule_created,omitempty"`
	Pushed      int          `json:"pushed"`
	Skipped     bool         `json:"skipped,omitempty"`
	Errors      []StageError `json:"errors,omitempty"`
}

// OK reports whether the domain synced without errors.
func (d *DomainResult) OK() bool {
	return len(d.Errors) == 0
}

func (d *DomainResult) fail(stage Stage, err error) {
	d.Errors = append(d.Errors, StageError{Stage: stage, Message: err.Error()})
}

// Report is the full record of one sync run. It is returned to the
// caller and persisted to the state store as run history.
type Report struct {
	RunID       string         `json:"run_id"`
	Started     time.Time      `json:"started"`
	Finished    time.Time      `json:"finished"`
	DryRun      bool           `json:"dry_run,omitempty"`
	Interrupted bool           `json:"interrupted,omitempty"`
	IPCount     int            `json:"ip_count"`
	Domains     []DomainResult `json:"domains"`
}

func newReport(ipCount int, dryRun bool, started time.Time) *Report {
	return &Report{
		RunID:   uuid.New().String(),
		Started: started,
		DryRun:  dryRun,
		IPCount: ipCount,
	}
}

// OK reports whether every domain synced cleanly and the run was not
// cut short.
func (r *Report) OK() bool {
	if r.Interrupted {
		return false
	}
	for i := range r.Domains {
		if !r.Domains[i].OK() {
			return false
		}
	}
	return true
}

// FailedDomains returns the names of domains that recorded errors.
func (r *Report) FailedDomains() []string {
	var out []string
	for i := range r.Domains {
		if !r.Domains[i].OK() {
			out = append(out, r.Domains[i].Domain)
		}
	}
	return out
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
