package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// ConvertToShares returns the shares minted for a base-unit value at the
// current exchange ratio, rounding down.
func (k *Keeper) ConvertToShares(baseAmount math.Int) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.convertToSharesLocked(baseAmount)
}

// ConvertToAssets returns the base-unit value of a share amount at the current
// exchange ratio, rounding down.
func (k *Keeper) ConvertToAssets(shareAmount math.Int) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.convertToAssetsLocked(shareAmount)
}

// shareOffset is 10^(sharePrecision - baseDecimals): the decimal-offset
// bootstrap ratio of an empty vault, economically 1:1.
func (k *Keeper) shareOffset() math.Int {
	return pow10(types.SharePrecision - k.params.BaseDecimals)
}

func (k *Keeper) convertToSharesLocked(baseAmount math.Int) (math.Int, error) {
	if k.totalShares.IsZero() {
		return baseAmount.Mul(k.shareOffset()), nil
	}
	totalValue, err := k.totalValueLocked()
	if err != nil {
		return math.Int{}, err
	}
	if totalValue.IsZero() {
		// Shares outstanding against zero value: minting at any ratio would be
		// unbounded, so the vault refuses new value until recapitalized.
		return math.Int{}, types.ErrInsufficientFunds.Wrap("vault has shares outstanding but zero value")
	}
	return baseAmount.Mul(k.totalShares).Quo(totalValue), nil
}

func (k *Keeper) convertToAssetsLocked(shareAmount math.Int) (math.Int, error) {
	if k.totalShares.IsZero() {
		return shareAmount.Quo(k.shareOffset()), nil
	}
	totalValue, err := k.totalValueLocked()
	if err != nil {
		return math.Int{}, err
	}
	return shareAmount.Mul(totalValue).Quo(k.totalShares), nil
}

// Deposit accepts collateral from the caller, gated by deposit hooks, and
// mints proportional shares to the receiver. Hooks see the base-unit-converted
// value of the inflow, not the raw collateral amount. Shares are priced
// against the pre-deposit totals.
func (k *Keeper) Deposit(ctx context.Context, caller types.Address, token types.Address, amount math.Int, receiver types.Address) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if amount.IsNil() || !amount.IsPositive() {
		return math.Int{}, types.ErrZeroAmount.Wrap("deposit amount must be positive")
	}
	if receiver.IsZero() {
		return math.Int{}, types.ErrInvalidRequest.Wrap("receiver cannot be the zero address")
	}

	value, err := k.convertToBaseLocked(token, amount)
	if err != nil {
		return math.Int{}, err
	}
	shares, err := k.convertToSharesLocked(value)
	if err != nil {
		return math.Int{}, err
	}

	hctx := types.HookContext{
		Operator:  caller,
		Receiver:  receiver,
		Asset:     token,
		BaseValue: value,
		Shares:    shares,
		Now:       k.now(),
	}
	if err := k.runHooksLocked(types.OpDeposit, hctx); err != nil {
		return math.Int{}, err
	}

	if err := k.conduit.MoveTokens(ctx, token, caller, k.vaultAddr, amount); err != nil {
		return math.Int{}, err
	}

	k.trackCollateralLocked(token, amount)
	k.mintLocked(receiver, shares)
	k.markExecutedLocked(types.OpDeposit)

	k.emit(types.EventTypeDeposit,
		types.AttributeKeyKind, token.String(),
		types.AttributeKeyAmount, amount.String(),
		types.AttributeKeyBaseValue, value.String(),
		types.AttributeKeyShares, shares.String(),
		types.AttributeKeyReceiver, receiver.String(),
	)
	k.Logger().Info("collateral deposited",
		"depositor", caller.String(),
		"token", token.String(),
		"amount", amount.String(),
		"base_value", value.String(),
		"shares_minted", shares.String(),
		"receiver", receiver.String(),
	)
	return shares, nil
}

// Withdraw burns the owner's shares and disburses the converted base-unit
// amount to the recipient, gated by withdraw hooks. When caller differs from
// owner, the caller spends allowance. On a managed-withdrawal vault this entry
// point is permanently disabled; all exits go through the signed path.
func (k *Keeper) Withdraw(ctx context.Context, caller, owner, to types.Address, shares math.Int) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.params.ManagedWithdrawOnly {
		return math.Int{}, types.ErrUseRedeem.Wrap("this vault settles withdrawals via signed requests only")
	}
	if shares.IsNil() || !shares.IsPositive() {
		return math.Int{}, types.ErrZeroAmount.Wrap("share amount must be positive")
	}

	snap := k.snapshotLocked()
	if caller != owner {
		if err := k.spendAllowanceLocked(owner, caller, shares); err != nil {
			return math.Int{}, err
		}
	}

	assets, err := k.convertToAssetsLocked(shares)
	if err != nil {
		return math.Int{}, err
	}

	hctx := types.HookContext{
		Operator:  caller,
		Receiver:  to,
		Asset:     k.params.BaseAsset,
		BaseValue: assets,
		Shares:    shares,
		Now:       k.now(),
	}
	if err := k.runHooksLocked(types.OpWithdraw, hctx); err != nil {
		k.restoreLocked(snap)
		return math.Int{}, err
	}

	if err := k.burnLocked(owner, shares); err != nil {
		k.restoreLocked(snap)
		return math.Int{}, err
	}
	if err := k.disburseLocked(ctx, to, assets); err != nil {
		k.restoreLocked(snap)
		return math.Int{}, err
	}
	k.markExecutedLocked(types.OpWithdraw)

	k.emit(types.EventTypeWithdraw,
		types.AttributeKeyOwner, owner.String(),
		types.AttributeKeyReceiver, to.String(),
		types.AttributeKeyShares, shares.String(),
		types.AttributeKeyBaseValue, assets.String(),
	)
	k.Logger().Info("shares redeemed",
		"owner", owner.String(),
		"recipient", to.String(),
		"shares_burned", shares.String(),
		"assets", assets.String(),
	)
	return assets, nil
}

// TransferShares moves shares between holders, gated by transfer hooks.
func (k *Keeper) TransferShares(ctx context.Context, from, to types.Address, amount math.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount.Wrap("transfer amount must be positive")
	}
	if to.IsZero() {
		return types.ErrInvalidRequest.Wrap("transfer recipient cannot be the zero address")
	}

	hctx := types.HookContext{
		Operator: from,
		Receiver: to,
		Shares:   amount,
		Now:      k.now(),
	}
	if err := k.runHooksLocked(types.OpTransfer, hctx); err != nil {
		return err
	}

	if err := k.burnLocked(from, amount); err != nil {
		return err
	}
	k.mintLocked(to, amount)
	k.markExecutedLocked(types.OpTransfer)

	k.emit(types.EventTypeTransferShares,
		types.AttributeKeyOwner, from.String(),
		types.AttributeKeyReceiver, to.String(),
		types.AttributeKeyShares, amount.String(),
	)
	return nil
}

// Approve lets spender redeem up to amount of the owner's shares. A zero
// amount revokes a prior approval.
func (k *Keeper) Approve(owner, spender types.Address, amount math.Int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidRequest.Wrap("allowance cannot be negative")
	}
	if k.shareAllowance[owner] == nil {
		k.shareAllowance[owner] = make(map[types.Address]math.Int)
	}
	k.shareAllowance[owner][spender] = amount
	return nil
}

// Allowance returns the remaining shares spender may redeem on behalf of owner.
func (k *Keeper) Allowance(owner, spender types.Address) math.Int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if inner, ok := k.shareAllowance[owner]; ok {
		if amt, ok := inner[spender]; ok {
			return amt
		}
	}
	return math.ZeroInt()
}

func (k *Keeper) spendAllowanceLocked(owner, spender types.Address, amount math.Int) error {
	inner := k.shareAllowance[owner]
	if inner == nil {
		return types.ErrInsufficientAllowance.Wrapf("%s has no allowance from %s", spender, owner)
	}
	allowed, ok := inner[spender]
	if !ok {
		allowed = math.ZeroInt()
	}
	if allowed.LT(amount) {
		return types.ErrInsufficientAllowance.Wrapf("allowance %s is less than %s", allowed, amount)
	}
	inner[spender] = allowed.Sub(amount)
	return nil
}

// mintLocked credits shares. Total shares always equal the sum over holders.
func (k *Keeper) mintLocked(to types.Address, shares math.Int) {
	bal, ok := k.sharesOf[to]
	if !ok {
		bal = math.ZeroInt()
	}
	k.sharesOf[to] = bal.Add(shares)
	k.totalShares = k.totalShares.Add(shares)
}

func (k *Keeper) burnLocked(from types.Address, shares math.Int) error {
	bal, ok := k.sharesOf[from]
	if !ok {
		bal = math.ZeroInt()
	}
	if bal.LT(shares) {
		return types.ErrInsufficientShares.Wrapf("balance %s is less than %s", bal, shares)
	}
	k.sharesOf[from] = bal.Sub(shares)
	k.totalShares = k.totalShares.Sub(shares)
	return nil
}

// TotalShares returns the shares outstanding.
func (k *Keeper) TotalShares() math.Int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.totalShares
}

// ShareBalance returns a holder's share balance.
func (k *Keeper) ShareBalance(holder types.Address) math.Int {
	k.mu.Lock()
	defer k.mu.Unlock()
	bal, ok := k.sharesOf[holder]
	if !ok {
		return math.ZeroInt()
	}
	return bal
}
