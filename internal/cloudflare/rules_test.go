package cloudflare

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureRule_FindsExisting(t *testing.T) {
	var posts int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/zones/zone1/firewall/rules", r.URL.Path)
			w.Write([]byte(`{"success": true, "errors": [], "result": [
				{"id": "r1", "action": "challenge", "description": "something else"},
				{"id": "r2", "action": "block", "description": "Block IPs banned by fail2ban",
				 "filter": {"id": "f2", "expression": "ip.src in $fail2ban_blocklist"}}
			]}`))
		case http.MethodPost:
			posts++
			w.Write([]byte(`{"success": true, "errors": [], "result": []}`))
		}
	})

	created, err := c.EnsureRule(context.Background(), "zone1", "fail2ban_blocklist", "Block IPs banned by fail2ban")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Zero(t, posts, "matching description must not be recreated")
}

func TestEnsureRule_CreatesWhenAbsent(t *testing.T) {
	var rules []FirewallRule
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"success": true, "errors": [], "result": [
				{"id": "r1", "action": "block", "description": "unrelated rule"}
			]}`))
		case http.MethodPost:
			assert.Equal(t, "/zones/zone1/firewall/rules", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &rules))
			w.Write([]byte(`{"success": true, "errors": [], "result": [{"id": "new-rule"}]}`))
		}
	})

	created, err := c.EnsureRule(context.Background(), "zone1", "fail2ban_blocklist", "Block IPs banned by fail2ban")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, rules, 1)
	assert.Equal(t, "block", rules[0].Action)
	assert.Equal(t, "Block IPs banned by fail2ban", rules[0].Description)
	assert.Equal(t, 1, rules[0].Priority)
	assert.False(t, rules[0].Paused)
	assert.Equal(t, "ip.src in $fail2ban_blocklist", rules[0].Filter.Expression)
}

func TestEnsureRule_MatchIgnoresOtherFields(t *testing.T) {
	// An existing rule with the right description is left alone even when its
	// filter points somewhere else. Drift is reported by check, not repaired.
	var posts int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"success": true, "errors": [], "result": [
				{"id": "r1", "action": "challenge", "description": "Block IPs banned by fail2ban",
				 "filter": {"id": "f1", "expression": "ip.src in $stale_list"}}
			]}`))
		case http.MethodPost:
			posts++
			w.Write([]byte(`{"success": true, "errors": [], "result": []}`))
		}
	})

	created, err := c.EnsureRule(context.Background(), "zone1", "fail2ban_blocklist", "Block IPs banned by fail2ban")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Zero(t, posts)
}

func TestEnsureRule_ListFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success": false, "errors": [{"code": 1, "message": "bad gateway"}], "result": null}`))
	})

	_, err := c.EnsureRule(context.Background(), "zone1", "fail2ban_blocklist", "Block IPs banned by fail2ban")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "looking up firewall rules")
}
