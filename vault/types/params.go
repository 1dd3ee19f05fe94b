package types

import (
	"fmt"
)

// Params carries the static configuration of a vault instance.
type Params struct {
	// BaseAsset is the token reference of the base accounting unit.
	BaseAsset Address
	// BaseDecimals is the base unit's decimal precision (commonly 8).
	BaseDecimals uint8
	// DomainName and DomainVersion identify the structured-data signing domain.
	DomainName    string
	DomainVersion string
	// ChainID is the signing domain's chain identifier.
	ChainID uint64
	// ManagedWithdrawOnly permanently disables the direct withdraw/redeem entry
	// points, forcing all exits through the signed-settlement path.
	ManagedWithdrawOnly bool
	// FreezeHooksAfterExecution extends the post-execution hook-list freeze to
	// appends as well as removals and reorders.
	FreezeHooksAfterExecution bool
}

// DefaultParams returns the params used when configuration leaves them unset.
func DefaultParams(baseAsset Address) Params {
	return Params{
		BaseAsset:     baseAsset,
		BaseDecimals:  8,
		DomainName:    "FountFi",
		DomainVersion: "1",
		ChainID:       1,
	}
}

// Validate does a sanity check on the provided params.
func (p Params) Validate() error {
	if p.BaseAsset.IsZero() {
		return fmt.Errorf("base asset cannot be the zero address")
	}
	if p.BaseDecimals > SharePrecision {
		return fmt.Errorf("base decimals %d exceed share precision %d", p.BaseDecimals, SharePrecision)
	}
	if p.DomainName == "" || p.DomainVersion == "" {
		return fmt.Errorf("signing domain name and version must be set")
	}
	return nil
}
