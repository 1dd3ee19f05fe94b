package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// TrackCollateral records a collateral inflow on the ledger. Only the vault
// entry point itself may call this; the deposit path does so after custody has
// moved. Exposed so an external strategy wiring the same ledger can reuse it.
func (k *Keeper) TrackCollateral(ctx context.Context, caller types.Address, token types.Address, amount math.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if caller != k.vaultAddr {
		return types.ErrOnlyVault.Wrapf("caller %s is not the vault", caller)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount.Wrap("collateral amount must be positive")
	}
	if rec, ok := k.collateral[token]; !ok || !rec.Allowed {
		return types.ErrCollateralNotAllowed.Wrapf("collateral %s is not allowed", token)
	}
	k.trackCollateralLocked(token, amount)
	return nil
}

// trackCollateralLocked increments a kind's balance and, for a newly seen
// kind, appends it to the held-kind enumeration. Held kinds are append-only: a
// kind stays enumerable even after its balance drains to zero.
func (k *Keeper) trackCollateralLocked(token types.Address, amount math.Int) {
	bal, ok := k.collateralBalances[token]
	if !ok {
		bal = math.ZeroInt()
	}
	k.collateralBalances[token] = bal.Add(amount)
	if !k.heldSeen[token] {
		k.heldSeen[token] = true
		k.heldKinds = append(k.heldKinds, token)
	}
}

// DepositRedemptionFunds pulls base-unit funds from the manager into the
// vault's custody, earmarked for redemptions. This does not go through the
// collateral path: the funds are liquidity, not collateral value tracked per
// kind, and live on a logically distinct account so valuation can never double
// count a tracked base-kind deposit.
func (k *Keeper) DepositRedemptionFunds(ctx context.Context, caller types.Address, amount math.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.requireRole(caller, types.RoleManager, types.ErrOnlyManager); err != nil {
		return err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount.Wrap("redemption funding must be positive")
	}

	if err := k.conduit.MoveTokens(ctx, k.params.BaseAsset, caller, k.vaultAddr, amount); err != nil {
		return err
	}
	k.redemptionFunds = k.redemptionFunds.Add(amount)

	k.emit(types.EventTypeFundRedemptions, types.AttributeKeyAmount, amount.String())
	k.Logger().Info("redemption funds deposited",
		"manager", caller.String(),
		"amount", amount.String(),
		"total_float", k.redemptionFunds.String(),
	)
	return nil
}

// TotalValue sums the base-unit value of all tracked collateral with nonzero
// balance, plus the redemption float. It returns an error if a held kind with
// a nonzero balance is no longer allowed: value must fail loudly rather than
// silently exclude a kind.
func (k *Keeper) TotalValue() (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.totalValueLocked()
}

func (k *Keeper) totalValueLocked() (math.Int, error) {
	total := k.redemptionFunds
	for _, token := range k.heldKinds {
		bal := k.collateralBalances[token]
		if bal.IsZero() {
			continue
		}
		value, err := k.convertToBaseLocked(token, bal)
		if err != nil {
			return math.Int{}, err
		}
		total = total.Add(value)
	}
	return total, nil
}

// disburseLocked deducts a base-unit payout from the ledger, redemption float
// first, then the tracked base-kind balance, and moves the tokens out through
// the conduit.
func (k *Keeper) disburseLocked(ctx context.Context, to types.Address, amount math.Int) error {
	if err := k.deductDisbursementLocked(amount); err != nil {
		return err
	}
	return k.conduit.MoveTokens(ctx, k.params.BaseAsset, k.vaultAddr, to, amount)
}

func (k *Keeper) deductDisbursementLocked(amount math.Int) error {
	fromFloat := math.MinInt(amount, k.redemptionFunds)
	remainder := amount.Sub(fromFloat)

	baseBal, ok := k.collateralBalances[k.params.BaseAsset]
	if !ok {
		baseBal = math.ZeroInt()
	}
	if remainder.GT(baseBal) {
		return types.ErrInsufficientFunds.Wrapf(
			"payout %s exceeds float %s plus base balance %s",
			amount, k.redemptionFunds, baseBal,
		)
	}

	k.redemptionFunds = k.redemptionFunds.Sub(fromFloat)
	if remainder.IsPositive() {
		k.collateralBalances[k.params.BaseAsset] = baseBal.Sub(remainder)
	}
	return nil
}

// CollateralBalance returns the tracked balance of a kind in native decimals.
func (k *Keeper) CollateralBalance(token types.Address) math.Int {
	k.mu.Lock()
	defer k.mu.Unlock()
	bal, ok := k.collateralBalances[token]
	if !ok {
		return math.ZeroInt()
	}
	return bal
}

// HeldKinds enumerates every kind ever deposited, in first-seen order.
func (k *Keeper) HeldKinds() []types.Address {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]types.Address, len(k.heldKinds))
	copy(out, k.heldKinds)
	return out
}

// RedemptionFunds returns the base-unit float earmarked for redemptions.
func (k *Keeper) RedemptionFunds() math.Int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.redemptionFunds
}
