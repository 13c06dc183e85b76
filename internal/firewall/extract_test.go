package firewall

import (
	"errors"
	"reflect"
	"testing"
)

// fakeSource is a hand-rolled ChainSource for extractor tests.
type fakeSource struct {
	chains    map[string][]string
	chainsErr error
	failing   map[string]error
}

func (f *fakeSource) Chains(prefix string) ([]string, error) {
	if f.chainsErr != nil {
		return nil, f.chainsErr
	}
	var names []string
	for name := range f.chains {
		names = append(names, name)
	}
	for name := range f.failing {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeSource) Sources(chain string) ([]string, error) {
	if err, ok := f.failing[chain]; ok {
		return nil, err
	}
	return f.chains[chain], nil
}

func TestExtract_DeduplicatesAcrossChains(t *testing.T) {
	src := &fakeSource{chains: map[string][]string{
		"f2b-sshd":   {"1.2.3.4"},
		"f2b-apache": {"1.2.3.4", "5.6.7.8"},
	}}

	got, err := NewExtractor(src, "f2b-", nil).Extract()
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []string{"1.2.3.4", "5.6.7.8"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_FiltersMalformedTokens(t *testing.T) {
	src := &fakeSource{chains: map[string][]string{
		"f2b-sshd": {
			"203.0.113.7",
			"0.0.0.0/0",      // destination placeholder
			"anywhere",       // non-numeric listing
			"1.2.3.4.5",      // five octets
			"300.1.1.1",      // octet out of range
			"10.0.0.1 extra", // trailing text
			"2001:db8::1",    // IPv6
			"",
		},
	}}

	got, err := NewExtractor(src, "f2b-", nil).Extract()
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []string{"203.0.113.7"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_SortedOutput(t *testing.T) {
	src := &fakeSource{chains: map[string][]string{
		"f2b-a": {"9.9.9.9", "1.1.1.1", "5.5.5.5"},
	}}

	got, err := NewExtractor(src, "f2b-", nil).Extract()
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []string{"1.1.1.1", "5.5.5.5", "9.9.9.9"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want sorted %v", got, want)
	}
}

func TestExtract_SkipsUnreadableChain(t *testing.T) {
	src := &fakeSource{
		chains:  map[string][]string{"f2b-sshd": {"1.2.3.4"}},
		failing: map[string]error{"f2b-broken": errors.New("permission denied")},
	}

	got, err := NewExtractor(src, "f2b-", nil).Extract()
	if err != nil {
		t.Fatalf("Extract() error = %v (per-chain failures must not be fatal)", err)
	}

	want := []string{"1.2.3.4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_EnumerationFailureIsFatal(t *testing.T) {
	src := &fakeSource{chainsErr: errors.New("netlink receive: operation not permitted")}

	if _, err := NewExtractor(src, "f2b-", nil).Extract(); err == nil {
		t.Fatal("Extract() should fail when chains cannot be enumerated at all")
	}
}

func TestExtract_NoChains(t *testing.T) {
	src := &fakeSource{chains: map[string][]string{}}

	got, err := NewExtractor(src, "f2b-", nil).Extract()
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Extract() = %v, want empty", got)
	}
}
