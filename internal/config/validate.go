package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/edgeban/edgeban/internal/validation"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field    string
	Message  string
	Severity string // "error" (default), "warning"
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if any entry has error severity.
func (e ValidationErrors) HasErrors() bool {
	for _, err := range e {
		if err.Severity != "warning" {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-severity entries.
func (e ValidationErrors) Warnings() ValidationErrors {
	var out ValidationErrors
	for _, err := range e {
		if err.Severity == "warning" {
			out = append(out, err)
		}
	}
	return out
}

// Validate validates the entire configuration. Credentials are checked
// for presence, not correctness; a bad key surfaces as an API error on
// the first sync.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, c.validateDomains()...)
	errs = append(errs, c.validateSync()...)
	errs = append(errs, c.validateSource()...)
	errs = append(errs, c.validateNaming()...)

	return errs
}

func (c *Config) validateDomains() ValidationErrors {
	var errs ValidationErrors

	if len(c.Domains) == 0 {
		errs = append(errs, ValidationError{
			Field:   "domain",
			Message: "no domains configured; nothing to sync",
		})
		return errs
	}

	seen := make(map[string]bool, len(c.Domains))
	for i, d := range c.Domains {
		field := fmt.Sprintf("domain[%s]", d.Name)
		if d.Name == "" {
			field = fmt.Sprintf("domain[%d]", i)
			errs = append(errs, ValidationError{Field: field, Message: "missing name label"})
			continue
		}

		if err := validation.ValidateDomainName(d.Name); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
		}
		if seen[d.Name] {
			errs = append(errs, ValidationError{
				Field:    field,
				Message:  "duplicate domain; first definition wins",
				Severity: "warning",
			})
		}
		seen[d.Name] = true

		// All four credential fields are required; a half-configured
		// domain would fail every run, so reject it up front.
		if d.Email == "" {
			errs = append(errs, ValidationError{Field: field, Message: "email is required"})
		}
		if d.APIKey == "" {
			errs = append(errs, ValidationError{Field: field, Message: "api_key is required"})
		}
		if d.AccountID == "" {
			errs = append(errs, ValidationError{Field: field, Message: "account_id is required"})
		}
		if d.ZoneID == "" {
			errs = append(errs, ValidationError{Field: field, Message: "zone_id is required"})
		}
	}

	return errs
}

func (c *Config) validateSync() ValidationErrors {
	var errs ValidationErrors

	for _, f := range []struct {
		field string
		value string
	}{
		{"sync.pace", c.Sync.Pace},
		{"sync.timeout", c.Sync.Timeout},
		{"sync.interval", c.Sync.Interval},
	} {
		d, err := time.ParseDuration(f.value)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   f.field,
				Message: fmt.Sprintf("invalid duration %q", f.value),
			})
			continue
		}
		if d < 0 {
			errs = append(errs, ValidationError{
				Field:   f.field,
				Message: "duration cannot be negative",
			})
		}
	}

	if c.Sync.Attempts < 1 || c.Sync.Attempts > 10 {
		errs = append(errs, ValidationError{
			Field:   "sync.attempts",
			Message: fmt.Sprintf("attempts must be 1-10, got %d", c.Sync.Attempts),
		})
	}

	return errs
}

func (c *Config) validateSource() ValidationErrors {
	var errs ValidationErrors

	switch c.Source.Backend {
	case "nftables", "iptables":
	default:
		errs = append(errs, ValidationError{
			Field:   "source.backend",
			Message: fmt.Sprintf("unknown backend %q (must be nftables or iptables)", c.Source.Backend),
		})
	}

	if err := validation.ValidateIdentifier(c.Source.ChainPrefix); err != nil {
		errs = append(errs, ValidationError{
			Field:   "source.chain_prefix",
			Message: err.Error(),
		})
	}

	if c.Source.Table != "" {
		if err := validation.ValidateIdentifier(c.Source.Table); err != nil {
			errs = append(errs, ValidationError{
				Field:   "source.table",
				Message: err.Error(),
			})
		}
	}

	return errs
}

func (c *Config) validateNaming() ValidationErrors {
	var errs ValidationErrors

	if err := validation.ValidateListName(c.List.Name); err != nil {
		errs = append(errs, ValidationError{Field: "list.name", Message: err.Error()})
	}

	switch c.List.Scope {
	case "account", "domain":
	default:
		errs = append(errs, ValidationError{
			Field:   "list.scope",
			Message: fmt.Sprintf("unknown scope %q (must be account or domain)", c.List.Scope),
		})
	}

	// Derived per-domain names must also fit the edge's constraints.
	if c.List.Scope == "domain" {
		for _, d := range c.Domains {
			if d.Name == "" {
				continue
			}
			if err := validation.ValidateListName(c.ListNameFor(d.Name)); err != nil {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("domain[%s]", d.Name),
					Message: fmt.Sprintf("derived list name invalid: %v", err),
				})
			}
		}
	}

	if c.Rule.Description == "" {
		errs = append(errs, ValidationError{
			Field:   "rule.description",
			Message: "rule description cannot be empty (it is the idempotency key)",
		})
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown log level %q", c.Log.Level),
		})
	}

	return errs
}
