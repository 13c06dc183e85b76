package testutil

import (
	"os"
	"testing"
)

// RequireLiveFirewall skips the test unless the EDGEBAN_LIVE_TEST
// environment variable is set. Tests behind this gate read the real
// kernel firewall state and need root plus an nftables-capable kernel.
func RequireLiveFirewall(t *testing.T) {
	t.Helper()
	if os.Getenv("EDGEBAN_LIVE_TEST") == "" {
		t.Skip("Skipping test: requires EDGEBAN_LIVE_TEST environment")
	}
}
