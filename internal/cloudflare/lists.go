package cloudflare

import (
	"context"
	"fmt"
	"net/http"
)

// ListIPLists returns all lists under the account.
func (c *Client) ListIPLists(ctx context.Context, accountID string) ([]IPList, error) {
	var lists []IPList
	path := fmt.Sprintf("/accounts/%s/rules/lists", accountID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateIPList creates a kind=ip list and returns it.
func (c *Client) CreateIPList(ctx context.Context, accountID, name, description string) (*IPList, error) {
	body := map[string]string{
		"name":        name,
		"kind":        "ip",
		"description": description,
	}

	var list IPList
	path := fmt.Sprintf("/accounts/%s/rules/lists", accountID)
	if err := c.doRequest(ctx, http.MethodPost, path, body, &list); err != nil {
		return nil, err
	}
	if list.ID == "" {
		return nil, &ValidationError{Op: "create list", Message: "response carries no list ID"}
	}
	return &list, nil
}

// EnsureList resolves the named list's ID, creating the list if the
// account does not have it yet. The bool reports whether a create
// happened. Idempotent: a second call finds the list by name and never
// creates a duplicate.
func (c *Client) EnsureList(ctx context.Context, accountID, name, description string) (string, bool, error) {
	lists, err := c.ListIPLists(ctx, accountID)
	if err != nil {
		return "", false, fmt.Errorf("looking up list %q: %w", name, err)
	}

	for _, l := range lists {
		if l.Name == name {
			c.logger.Debug("list already exists", "list", name, "id", l.ID)
			return l.ID, false, nil
		}
	}

	created, err := c.CreateIPList(ctx, accountID, name, description)
	if err != nil {
		return "", false, fmt.Errorf("creating list %q: %w", name, err)
	}
	c.logger.Info("created list", "list", name, "id", created.ID)
	return created.ID, true, nil
}

// ReplaceListItems overwrites the list's entire membership with ips in
// a single call. An empty slice is valid and intentionally empties the
// list. Each entry carries the same comment.
func (c *Client) ReplaceListItems(ctx context.Context, accountID, listID string, ips []string, comment string) error {
	// An explicit empty array, not null: the endpoint replaces
	// membership with exactly what it receives.
	items := make([]ListItem, 0, len(ips))
	for _, ip := range ips {
		items = append(items, ListItem{IP: ip, Comment: comment})
	}

	path := fmt.Sprintf("/accounts/%s/rules/lists/%s/items", accountID, listID)
	if err := c.doRequest(ctx, http.MethodPut, path, items, nil); err != nil {
		return fmt.Errorf("replacing items of list %s: %w", listID, err)
	}
	return nil
}

// GetListItems reads the list's current membership.
func (c *Client) GetListItems(ctx context.Context, accountID, listID string) ([]ListItem, error) {
	var items []ListItem
	path := fmt.Sprintf("/accounts/%s/rules/lists/%s/items", accountID, listID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, fmt.Errorf("reading items of list %s: %w", listID, err)
	}
	return items, nil
}
