package firewall

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

const iptablesFullListing = `Chain INPUT (policy ACCEPT)
target     prot opt source               destination
f2b-sshd   tcp  --  0.0.0.0/0            0.0.0.0/0            multiport dports 22

Chain FORWARD (policy DROP)
target     prot opt source               destination

Chain f2b-sshd (1 references)
target     prot opt source               destination
REJECT     all  --  1.2.3.4              0.0.0.0/0            reject-with icmp-port-unreachable
RETURN     all  --  0.0.0.0/0            0.0.0.0/0

Chain f2b-apache (1 references)
target     prot opt source               destination
REJECT     all  --  5.6.7.8              0.0.0.0/0            reject-with icmp-port-unreachable
`

const iptablesChainListing = `Chain f2b-sshd (1 references)
target     prot opt source               destination
REJECT     all  --  1.2.3.4              0.0.0.0/0            reject-with icmp-port-unreachable
DROP       all  --  9.9.9.9              0.0.0.0/0
RETURN     all  --  0.0.0.0/0            0.0.0.0/0
`

func TestIPTablesSource_Chains(t *testing.T) {
	runner := new(MockCommandRunner)
	runner.On("Output", "iptables", "-L", "-n").Return([]byte(iptablesFullListing), nil)

	src := NewIPTablesSource(runner, "")
	got, err := src.Chains("f2b-")
	assert.NoError(t, err)
	assert.Equal(t, []string{"f2b-apache", "f2b-sshd"}, got)

	runner.AssertExpectations(t)
}

func TestIPTablesSource_Chains_NoMatches(t *testing.T) {
	runner := new(MockCommandRunner)
	runner.On("Output", "iptables", "-L", "-n").Return([]byte(iptablesFullListing), nil)

	src := NewIPTablesSource(runner, "")
	got, err := src.Chains("fail2ban-")
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestIPTablesSource_Chains_CommandError(t *testing.T) {
	runner := new(MockCommandRunner)
	runner.On("Output", "iptables", "-L", "-n").Return(nil, errors.New("exit status 3"))

	src := NewIPTablesSource(runner, "")
	_, err := src.Chains("f2b-")
	assert.Error(t, err)
}

func TestIPTablesSource_Sources(t *testing.T) {
	runner := new(MockCommandRunner)
	runner.On("Output", "iptables", "-L", "f2b-sshd", "-n").Return([]byte(iptablesChainListing), nil)

	src := NewIPTablesSource(runner, "")
	got, err := src.Sources("f2b-sshd")
	assert.NoError(t, err)

	// REJECT and DROP sources are collected; RETURN (and the header
	// lines) are not. The 0.0.0.0/0 placeholder is left for the
	// extractor's strict filter.
	want := []string{"1.2.3.4", "9.9.9.9"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sources() = %v, want %v", got, want)
	}
}

func TestIPTablesSource_CustomPath(t *testing.T) {
	runner := new(MockCommandRunner)
	runner.On("Output", "/usr/sbin/iptables-legacy", "-L", "-n").Return([]byte(""), nil)

	src := NewIPTablesSource(runner, "/usr/sbin/iptables-legacy")
	got, err := src.Chains("f2b-")
	assert.NoError(t, err)
	assert.Empty(t, got)

	runner.AssertExpectations(t)
}

func TestIPTablesSource_EndToEndExtract(t *testing.T) {
	runner := new(MockCommandRunner)
	runner.On("Output", "iptables", "-L", "-n").Return([]byte(iptablesFullListing), nil)
	runner.On("Output", "iptables", "-L", "f2b-apache", "-n").Return([]byte(
		"Chain f2b-apache (1 references)\n"+
			"target     prot opt source               destination\n"+
			"REJECT     all  --  1.2.3.4              0.0.0.0/0\n"+
			"REJECT     all  --  5.6.7.8              0.0.0.0/0\n"), nil)
	runner.On("Output", "iptables", "-L", "f2b-sshd", "-n").Return([]byte(
		"Chain f2b-sshd (1 references)\n"+
			"target     prot opt source               destination\n"+
			"REJECT     all  --  1.2.3.4              0.0.0.0/0\n"), nil)

	src := NewIPTablesSource(runner, "")
	got, err := NewExtractor(src, "f2b-", nil).Extract()
	assert.NoError(t, err)
	assert.Equal(t, []string{"1.2.3.4", "5.6.7.8"}, got)
}
