package cloudflare

import "encoding/json"

// Envelope is the Cloudflare v4 response wrapper. Every response must
// carry success=true before result is trusted.
type Envelope struct {
	Success bool            `json:"success"`
	Errors  []ResponseError `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// ResponseError is one entry of the envelope's errors array.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// firstError returns a human-readable message for a failed envelope.
func (e *Envelope) firstError() string {
	if len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Errors[0].Message
	}
	return "unknown API error"
}

// IPList is an account-level named list of IP addresses.
type IPList struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	NumItems    int    `json:"num_items,omitempty"`
}

// ListItem is one member of an IP list.
type ListItem struct {
	ID      string `json:"id,omitempty"`
	IP      string `json:"ip"`
	Comment string `json:"comment,omitempty"`
}

// FirewallRule is a zone-level firewall rule.
type FirewallRule struct {
	ID          string `json:"id,omitempty"`
	Action      string `json:"action"`
	Description string `json:"description"`
	Priority    int    `json:"priority,omitempty"`
	Paused      bool   `json:"paused"`
	Filter      Filter `json:"filter"`
}

// Filter is the match expression attached to a firewall rule.
type Filter struct {
	ID          string `json:"id,omitempty"`
	Expression  string `json:"expression"`
	Description string `json:"description,omitempty"`
	Paused      bool   `json:"paused"`
}
