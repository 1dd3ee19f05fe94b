package types

import (
	"time"

	"cosmossdk.io/math"
)

// WithdrawalRequest is an off-chain-authorized, nonce-bound, time-bounded intent
// to redeem shares. It is constructed by the share owner, signed under the vault's
// structured-data domain, and settled by the manager. Consumed exactly once.
type WithdrawalRequest struct {
	Owner          Address  `json:"owner"`
	To             Address  `json:"to"`
	Shares         math.Int `json:"shares"`
	MinAssets      math.Int `json:"min_assets"`
	// Nonce and ExpirationTime are hashed as uint96 words; uint64 narrows the
	// signable range, so signers producing values at or above 2^64 are not
	// representable here.
	Nonce          uint64 `json:"nonce"`
	ExpirationTime uint64 `json:"expiration_time"` // unix seconds
}

// NewWithdrawalRequest creates a new WithdrawalRequest instance.
func NewWithdrawalRequest(owner, to Address, shares, minAssets math.Int, nonce uint64, expiration time.Time) WithdrawalRequest {
	return WithdrawalRequest{
		Owner:          owner,
		To:             to,
		Shares:         shares,
		MinAssets:      minAssets,
		Nonce:          nonce,
		ExpirationTime: uint64(expiration.Unix()),
	}
}

// ValidateBasic does a sanity check on the provided data.
func (r WithdrawalRequest) ValidateBasic() error {
	if r.Owner.IsZero() {
		return ErrInvalidRequest.Wrap("owner cannot be the zero address")
	}
	if r.To.IsZero() {
		return ErrInvalidRequest.Wrap("payout recipient cannot be the zero address")
	}
	if r.Shares.IsNil() || !r.Shares.IsPositive() {
		return ErrZeroAmount.Wrap("share amount must be positive")
	}
	if r.MinAssets.IsNil() || r.MinAssets.IsNegative() {
		return ErrInvalidRequest.Wrap("minimum assets cannot be negative")
	}
	return nil
}

// ExpiresAt returns the expiration instant.
func (r WithdrawalRequest) ExpiresAt() time.Time {
	return time.Unix(int64(r.ExpirationTime), 0).UTC()
}
