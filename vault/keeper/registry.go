package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// AddCollateral whitelists a collateral kind with its conversion rate and
// native decimal precision. Protocol-admin only.
func (k *Keeper) AddCollateral(ctx context.Context, caller types.Address, token types.Address, rate math.Int, decimals uint8) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.requireRole(caller, types.RoleProtocolAdmin, types.ErrNotProtocolAdmin); err != nil {
		return err
	}
	if token.IsZero() {
		return types.ErrInvalidCollateral.Wrap("token cannot be the zero address")
	}
	if rec, ok := k.collateral[token]; ok && rec.Allowed {
		return types.ErrInvalidCollateral.Wrapf("collateral %s already allowed", token)
	}
	if rate.IsNil() || !rate.IsPositive() {
		return types.ErrInvalidRate.Wrapf("rate for %s must be positive", token)
	}

	k.collateral[token] = types.CollateralKind{
		Token:    token,
		Decimals: decimals,
		Rate:     rate,
		Allowed:  true,
	}
	k.allowedIndex[token] = len(k.allowedOrder)
	k.allowedOrder = append(k.allowedOrder, token)

	k.emit(types.EventTypeAddCollateral,
		types.AttributeKeyKind, token.String(),
		types.AttributeKeyRate, rate.String(),
		types.AttributeKeyDecimals, math.NewInt(int64(decimals)).String(),
	)
	k.Logger().Info("collateral added",
		"token", token.String(),
		"rate", rate.String(),
		"decimals", decimals,
	)
	return nil
}

// RemoveCollateral logically deletes a kind: clears its rate and decimals and
// removes it from the ordered enumeration using swap-with-last. Any tracked
// balance of the kind remains on the ledger; valuation of that balance fails
// until the kind is re-added.
func (k *Keeper) RemoveCollateral(ctx context.Context, caller types.Address, token types.Address) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.requireRole(caller, types.RoleProtocolAdmin, types.ErrNotProtocolAdmin); err != nil {
		return err
	}
	rec, ok := k.collateral[token]
	if !ok || !rec.Allowed {
		return types.ErrCollateralNotAllowed.Wrapf("collateral %s is not allowed", token)
	}

	k.collateral[token] = types.CollateralKind{Token: token, Rate: math.ZeroInt(), Allowed: false}

	// Swap-with-last: the last allowed kind relocates into the freed slot.
	idx := k.allowedIndex[token]
	last := len(k.allowedOrder) - 1
	if idx != last {
		moved := k.allowedOrder[last]
		k.allowedOrder[idx] = moved
		k.allowedIndex[moved] = idx
	}
	k.allowedOrder = k.allowedOrder[:last]
	delete(k.allowedIndex, token)

	k.emit(types.EventTypeRemoveCollateral, types.AttributeKeyKind, token.String())
	k.Logger().Info("collateral removed", "token", token.String())
	return nil
}

// UpdateRate replaces a kind's conversion rate. Protocol-admin only.
func (k *Keeper) UpdateRate(ctx context.Context, caller types.Address, token types.Address, newRate math.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.requireRole(caller, types.RoleProtocolAdmin, types.ErrNotProtocolAdmin); err != nil {
		return err
	}
	rec, ok := k.collateral[token]
	if !ok || !rec.Allowed {
		return types.ErrCollateralNotAllowed.Wrapf("collateral %s is not allowed", token)
	}
	if newRate.IsNil() || !newRate.IsPositive() {
		return types.ErrInvalidRate.Wrapf("rate for %s must be positive", token)
	}

	oldRate := rec.Rate
	rec.Rate = newRate
	k.collateral[token] = rec

	k.emit(types.EventTypeUpdateRate,
		types.AttributeKeyKind, token.String(),
		types.AttributeKeyOldRate, oldRate.String(),
		types.AttributeKeyNewRate, newRate.String(),
	)
	k.Logger().Info("collateral rate updated",
		"token", token.String(),
		"old_rate", oldRate.String(),
		"new_rate", newRate.String(),
	)
	return nil
}

// ConvertToBase values amount of the given kind in base units, rounding down.
func (k *Keeper) ConvertToBase(token types.Address, amount math.Int) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.convertToBaseLocked(token, amount)
}

// ConvertFromBase is the inverse scaling of ConvertToBase, rounding down.
// Round-tripping through both directions may lose precision bounded by the
// scaling factor; exact reproduction is not guaranteed.
func (k *Keeper) ConvertFromBase(token types.Address, baseAmount math.Int) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.convertFromBaseLocked(token, baseAmount)
}

func (k *Keeper) convertToBaseLocked(token types.Address, amount math.Int) (math.Int, error) {
	rec, ok := k.collateral[token]
	if !ok || !rec.Allowed {
		return math.Int{}, types.ErrCollateralNotAllowed.Wrapf("collateral %s is not allowed", token)
	}
	// The base kind converts by identity regardless of its stored rate.
	if token == k.params.BaseAsset {
		return amount, nil
	}
	if amount.IsZero() {
		return math.ZeroInt(), nil
	}
	scale := k.scaleFactor(rec.Decimals)
	return amount.Mul(rec.Rate).Quo(scale), nil
}

func (k *Keeper) convertFromBaseLocked(token types.Address, baseAmount math.Int) (math.Int, error) {
	rec, ok := k.collateral[token]
	if !ok || !rec.Allowed {
		return math.Int{}, types.ErrCollateralNotAllowed.Wrapf("collateral %s is not allowed", token)
	}
	if token == k.params.BaseAsset {
		return baseAmount, nil
	}
	if baseAmount.IsZero() {
		return math.ZeroInt(), nil
	}
	scale := k.scaleFactor(rec.Decimals)
	return baseAmount.Mul(scale).Quo(rec.Rate), nil
}

// scaleFactor returns 10^(rateScale + decimals - baseDecimals). Non-negative
// because base decimals never exceed the rate scale.
func (k *Keeper) scaleFactor(decimals uint8) math.Int {
	exp := int(types.RateScale) + int(decimals) - int(k.params.BaseDecimals)
	return math.NewIntWithDecimal(1, exp)
}

// GetCollateral returns the stored record for a kind.
func (k *Keeper) GetCollateral(token types.Address) (types.CollateralKind, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	rec, ok := k.collateral[token]
	return rec, ok
}

// AllowedCollateral enumerates currently-allowed kinds in registry order.
func (k *Keeper) AllowedCollateral() []types.CollateralKind {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]types.CollateralKind, 0, len(k.allowedOrder))
	for _, token := range k.allowedOrder {
		out = append(out, k.collateral[token])
	}
	return out
}
