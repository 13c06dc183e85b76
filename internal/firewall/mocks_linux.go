//go:build linux
// +build linux

package firewall

import (
	"github.com/google/nftables"
	"github.com/stretchr/testify/mock"
)

// MockNFTablesConn is a mock implementation of NFTablesConn for testing.
type MockNFTablesConn struct {
	mock.Mock
}

func (m *MockNFTablesConn) ListChains() ([]*nftables.Chain, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*nftables.Chain), args.Error(1)
}

func (m *MockNFTablesConn) GetRules(t *nftables.Table, c *nftables.Chain) ([]*nftables.Rule, error) {
	args := m.Called(t, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*nftables.Rule), args.Error(1)
}

func (m *MockNFTablesConn) GetSetByName(t *nftables.Table, name string) (*nftables.Set, error) {
	args := m.Called(t, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nftables.Set), args.Error(1)
}

func (m *MockNFTablesConn) GetSetElements(s *nftables.Set) ([]nftables.SetElement, error) {
	args := m.Called(s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]nftables.SetElement), args.Error(1)
}
