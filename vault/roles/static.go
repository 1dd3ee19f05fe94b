// Package roles provides a static, configuration-driven role registry. The
// core only consumes the RoleRegistry interface; deployments with an external
// access-control system plug their own implementation in.
package roles

import (
	"sync"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// Static is an in-memory role registry seeded from configuration.
type Static struct {
	mu      sync.RWMutex
	members map[types.Role]map[types.Address]bool
}

var _ types.RoleRegistry = (*Static)(nil)

// NewStatic builds a registry from role membership lists.
func NewStatic(membership map[types.Role][]types.Address) *Static {
	s := &Static{members: make(map[types.Role]map[types.Address]bool)}
	for role, accounts := range membership {
		for _, acct := range accounts {
			s.grant(acct, role)
		}
	}
	return s
}

// HasRole reports whether the account holds the role.
func (s *Static) HasRole(account types.Address, role types.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members[role][account]
}

// Grant adds the account to the role.
func (s *Static) Grant(account types.Address, role types.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grant(account, role)
}

// Revoke removes the account from the role.
func (s *Static) Revoke(account types.Address, role types.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members[role], account)
}

func (s *Static) grant(account types.Address, role types.Role) {
	if s.members[role] == nil {
		s.members[role] = make(map[types.Address]bool)
	}
	s.members[role][account] = true
}
