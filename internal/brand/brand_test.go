package brand

import (
	"strings"
	"testing"
)

func TestDefaultConfigPath(t *testing.T) {
	if got := DefaultConfigPath(); got != "/etc/edgeban/edgeban.hcl" {
		t.Errorf("DefaultConfigPath() = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, BinaryName+"/") {
		t.Errorf("UserAgent() = %q, want %q prefix", ua, BinaryName+"/")
	}
	if !strings.Contains(ua, Version) {
		t.Errorf("UserAgent() = %q does not contain version %q", ua, Version)
	}
}
