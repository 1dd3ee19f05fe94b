package types

import (
	"cosmossdk.io/math"
)

// CollateralKind is a whitelisted depositable asset: its token reference, native
// decimal precision and 1e18 fixed-point conversion rate to the base unit.
//
// Invariant: Rate > 0 whenever Allowed is true. The base kind is a CollateralKind
// like any other, but its conversion is defined as identity regardless of the
// stored rate.
type CollateralKind struct {
	Token    Address  `json:"token"`
	Decimals uint8    `json:"decimals"`
	Rate     math.Int `json:"rate"`
	Allowed  bool     `json:"allowed"`
}

// OneRate is the identity conversion rate (1e18).
func OneRate() math.Int {
	return Pow10(uint8(RateScale))
}

// Pow10 returns 10^exp as a math.Int.
func Pow10(exp uint8) math.Int {
	return math.NewIntWithDecimal(1, int(exp))
}
