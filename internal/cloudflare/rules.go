package cloudflare

import (
	"context"
	"fmt"
	"net/http"
)

// ListFirewallRules returns all firewall rules of the zone.
func (c *Client) ListFirewallRules(ctx context.Context, zoneID string) ([]FirewallRule, error) {
	var rules []FirewallRule
	path := fmt.Sprintf("/zones/%s/firewall/rules", zoneID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// CreateBlockRule creates a block rule matching members of listName.
func (c *Client) CreateBlockRule(ctx context.Context, zoneID, listName, description string) error {
	// The endpoint takes an array of rules; we always submit one.
	rules := []FirewallRule{{
		Action:      "block",
		Description: description,
		Priority:    1,
		Paused:      false,
		Filter: Filter{
			Expression:  fmt.Sprintf("ip.src in $%s", listName),
			Description: description,
			Paused:      false,
		},
	}}

	path := fmt.Sprintf("/zones/%s/firewall/rules", zoneID)
	if err := c.doRequest(ctx, http.MethodPost, path, rules, nil); err != nil {
		return err
	}
	return nil
}

// EnsureRule makes sure the zone has a block rule referencing
// listName. The rule description is the sole idempotency key: if any
// existing rule carries it, nothing happens. The existing rule is
// never updated, even when its action or expression has drifted from
// the current configuration. The bool reports whether a create
// happened.
func (c *Client) EnsureRule(ctx context.Context, zoneID, listName, description string) (bool, error) {
	rules, err := c.ListFirewallRules(ctx, zoneID)
	if err != nil {
		return false, fmt.Errorf("looking up firewall rules: %w", err)
	}

	for _, r := range rules {
		if r.Description == description {
			c.logger.Debug("rule already exists", "rule", description, "id", r.ID)
			return false, nil
		}
	}

	if err := c.CreateBlockRule(ctx, zoneID, listName, description); err != nil {
		return false, fmt.Errorf("creating block rule: %w", err)
	}
	c.logger.Info("created block rule", "rule", description, "list", listName)
	return true, nil
}
