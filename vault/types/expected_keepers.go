package types

import (
	"context"

	"cosmossdk.io/math"
)

// TokenConduit is the custody/transfer collaborator. The core calls it to pull
// collateral into vault custody and to disburse base-unit funds, and trusts the
// implementation to enforce that the destination is a registered settlement
// entity.
type TokenConduit interface {
	MoveTokens(ctx context.Context, kind Address, from, to Address, amount math.Int) error
}

// RoleRegistry is the access-control collaborator. The core defines the roles
// it needs (protocol-admin, manager, strategy-admin) but not their storage.
type RoleRegistry interface {
	HasRole(account Address, role Role) bool
}

// SignerRecoverer recovers the signing address from a structured-data digest
// and a 65-byte r||s||v signature. The core's logic is "given a recovered
// signer, compare to the expected owner", independent of the curve.
type SignerRecoverer interface {
	Recover(digest [32]byte, signature []byte) (Address, error)
}
