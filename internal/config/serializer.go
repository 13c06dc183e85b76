package config

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/edgeban/edgeban/internal/brand"
)

// RenderHCL hand-builds a minimal HCL document for cfg: domains always,
// optional blocks only where a value differs from its default. Unlike
// GenerateHCL (a full mechanical dump) this is the renderer the import
// command uses, so converted configs stay as small as the legacy files
// they came from.
func RenderHCL(cfg *Config) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for i, d := range cfg.Domains {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("domain", []string{d.Name})
		b := block.Body()
		b.SetAttributeValue("email", cty.StringVal(d.Email))
		b.SetAttributeValue("api_key", cty.StringVal(d.APIKey))
		b.SetAttributeValue("account_id", cty.StringVal(d.AccountID))
		b.SetAttributeValue("zone_id", cty.StringVal(d.ZoneID))
	}

	if cfg.Sync != nil {
		b := newOptionalBlock(body, "sync")
		if cfg.Sync.Pace != DefaultPace {
			b.set("pace", cty.StringVal(cfg.Sync.Pace))
		}
		if cfg.Sync.Timeout != DefaultTimeout {
			b.set("timeout", cty.StringVal(cfg.Sync.Timeout))
		}
		if cfg.Sync.Attempts != DefaultAttempts {
			b.set("attempts", cty.NumberIntVal(int64(cfg.Sync.Attempts)))
		}
		if cfg.Sync.Interval != DefaultInterval {
			b.set("interval", cty.StringVal(cfg.Sync.Interval))
		}
	}

	if cfg.Source != nil {
		b := newOptionalBlock(body, "source")
		if cfg.Source.Backend != DefaultBackend {
			b.set("backend", cty.StringVal(cfg.Source.Backend))
		}
		if cfg.Source.ChainPrefix != DefaultChainPrefix {
			b.set("chain_prefix", cty.StringVal(cfg.Source.ChainPrefix))
		}
		if cfg.Source.Table != "" {
			b.set("table", cty.StringVal(cfg.Source.Table))
		}
		if cfg.Source.IPTablesPath != DefaultIPTablesPath {
			b.set("iptables_path", cty.StringVal(cfg.Source.IPTablesPath))
		}
	}

	if cfg.List != nil {
		b := newOptionalBlock(body, "list")
		if cfg.List.Name != DefaultListName {
			b.set("name", cty.StringVal(cfg.List.Name))
		}
		if cfg.List.Description != DefaultListDescription {
			b.set("description", cty.StringVal(cfg.List.Description))
		}
		if cfg.List.Comment != DefaultItemComment {
			b.set("comment", cty.StringVal(cfg.List.Comment))
		}
		if cfg.List.Scope != DefaultListScope {
			b.set("scope", cty.StringVal(cfg.List.Scope))
		}
	}

	if cfg.Rule != nil && cfg.Rule.Description != DefaultRuleDescription {
		b := newOptionalBlock(body, "rule")
		b.set("description", cty.StringVal(cfg.Rule.Description))
	}

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		b := newOptionalBlock(body, "metrics")
		b.set("enabled", cty.BoolVal(true))
		if cfg.Metrics.Listen != DefaultMetricsListen {
			b.set("listen", cty.StringVal(cfg.Metrics.Listen))
		}
	}

	if cfg.Log != nil {
		b := newOptionalBlock(body, "log")
		if cfg.Log.Level != "" && cfg.Log.Level != "info" {
			b.set("level", cty.StringVal(cfg.Log.Level))
		}
		if cfg.Log.JSON {
			b.set("json", cty.BoolVal(true))
		}
	}

	if cfg.StateDir != "" && cfg.StateDir != brand.DefaultStateDir {
		body.AppendNewline()
		body.SetAttributeValue("state_dir", cty.StringVal(cfg.StateDir))
	}

	return f.Bytes()
}

// optionalBlock defers block creation until the first attribute is set,
// so blocks holding only defaults never appear in the output.
type optionalBlock struct {
	parent *hclwrite.Body
	name   string
	body   *hclwrite.Body
}

func newOptionalBlock(parent *hclwrite.Body, name string) *optionalBlock {
	return &optionalBlock{parent: parent, name: name}
}

func (o *optionalBlock) set(attr string, val cty.Value) {
	if o.body == nil {
		o.parent.AppendNewline()
		o.body = o.parent.AppendNewBlock(o.name, nil).Body()
	}
	o.body.SetAttributeValue(attr, val)
}
