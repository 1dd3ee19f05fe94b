package keeper

import (
	"context"
	"strconv"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/vault/eip712"
	"github.com/sovafoundation/fountfi-open/vault/types"
)

// Redeem settles one signed withdrawal request. Manager only. Validation order:
// expiry, nonce, signature, hook approval, minimum-output floor; state mutates
// only after the whole request validates, so a failed call leaves the nonce
// unused and no shares burned.
func (k *Keeper) Redeem(ctx context.Context, caller types.Address, req types.WithdrawalRequest, signature []byte) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.requireRole(caller, types.RoleManager, types.ErrOnlyManager); err != nil {
		return math.Int{}, err
	}

	snap := k.snapshotLocked()
	payout, err := k.redeemOneLocked(req, signature)
	if err != nil {
		k.restoreLocked(snap)
		return math.Int{}, err
	}
	if err := k.conduit.MoveTokens(ctx, k.params.BaseAsset, k.vaultAddr, req.To, payout); err != nil {
		k.restoreLocked(snap)
		return math.Int{}, err
	}
	k.markExecutedLocked(types.OpWithdraw)

	k.emitRedeemLocked(req, payout)
	return payout, nil
}

// BatchRedeem settles several signed requests atomically: any element's
// failure rolls the whole batch back, leaving every nonce unused and every
// share unburned. Returns the per-request payouts in input order.
func (k *Keeper) BatchRedeem(ctx context.Context, caller types.Address, reqs []types.WithdrawalRequest, signatures [][]byte) ([]math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.requireRole(caller, types.RoleManager, types.ErrOnlyManager); err != nil {
		return nil, err
	}
	if len(reqs) != len(signatures) {
		return nil, types.ErrInvalidArrayLengths.Wrapf("%d requests, %d signatures", len(reqs), len(signatures))
	}
	if len(reqs) == 0 {
		return nil, types.ErrInvalidRequest.Wrap("batch cannot be empty")
	}

	snap := k.snapshotLocked()
	payouts := make([]math.Int, 0, len(reqs))
	for i, req := range reqs {
		payout, err := k.redeemOneLocked(req, signatures[i])
		if err != nil {
			k.restoreLocked(snap)
			return nil, sdkWrapIndex(err, i)
		}
		payouts = append(payouts, payout)
	}
	// All elements validated and staged; only now move funds out.
	for i, req := range reqs {
		if err := k.conduit.MoveTokens(ctx, k.params.BaseAsset, k.vaultAddr, req.To, payouts[i]); err != nil {
			k.restoreLocked(snap)
			return nil, sdkWrapIndex(err, i)
		}
	}
	k.markExecutedLocked(types.OpWithdraw)

	for i, req := range reqs {
		k.emitRedeemLocked(req, payouts[i])
	}
	k.emit(types.EventTypeBatchRedeem, types.AttributeKeyCount, strconv.Itoa(len(reqs)))
	k.Logger().Info("batch settled", "requests", len(reqs))
	return payouts, nil
}

// redeemOneLocked validates a single request and stages its state transitions:
// nonce marked, shares burned, disbursement deducted. The caller owns snapshot
// and rollback.
func (k *Keeper) redeemOneLocked(req types.WithdrawalRequest, signature []byte) (math.Int, error) {
	if err := req.ValidateBasic(); err != nil {
		return math.Int{}, err
	}
	now := k.now()
	if now.After(req.ExpiresAt()) {
		return math.Int{}, types.ErrWithdrawalRequestExpired.Wrapf("expired at %s", req.ExpiresAt())
	}

	// Nonce check and marking precede signature verification; the replay-safety
	// invariant only needs the marking to commit atomically with success, which
	// the caller's snapshot guarantees.
	if k.usedNonces[req.Owner][req.Nonce] {
		return math.Int{}, types.ErrWithdrawNonceReuse.Wrapf("owner %s nonce %d", req.Owner, req.Nonce)
	}
	if k.usedNonces[req.Owner] == nil {
		k.usedNonces[req.Owner] = make(map[uint64]bool)
	}
	k.usedNonces[req.Owner][req.Nonce] = true

	digest := eip712.RequestDigest(k.domain, req)
	signer, err := k.recoverer.Recover(digest, signature)
	if err != nil {
		return math.Int{}, types.ErrWithdrawInvalidSignature.Wrap(err.Error())
	}
	if signer != req.Owner {
		return math.Int{}, types.ErrWithdrawInvalidSignature.Wrapf("recovered %s, expected %s", signer, req.Owner)
	}

	assets, err := k.convertToAssetsLocked(req.Shares)
	if err != nil {
		return math.Int{}, err
	}

	hctx := types.HookContext{
		Operator:  req.Owner,
		Receiver:  req.To,
		Asset:     k.params.BaseAsset,
		BaseValue: assets,
		Shares:    req.Shares,
		Now:       now,
	}
	if err := k.runHooksLocked(types.OpWithdraw, hctx); err != nil {
		return math.Int{}, err
	}

	if assets.LT(req.MinAssets) {
		return math.Int{}, types.ErrInsufficientOutputAssets.Wrapf("assets %s below minimum %s", assets, req.MinAssets)
	}

	if err := k.burnLocked(req.Owner, req.Shares); err != nil {
		return math.Int{}, err
	}
	if err := k.deductDisbursementLocked(assets); err != nil {
		return math.Int{}, err
	}
	return assets, nil
}

// NonceUsed reports whether a settlement has consumed the (owner, nonce) pair.
func (k *Keeper) NonceUsed(owner types.Address, nonce uint64) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.usedNonces[owner][nonce]
}

func (k *Keeper) emitRedeemLocked(req types.WithdrawalRequest, payout math.Int) {
	k.emit(types.EventTypeRedeem,
		types.AttributeKeyOwner, req.Owner.String(),
		types.AttributeKeyReceiver, req.To.String(),
		types.AttributeKeyShares, req.Shares.String(),
		types.AttributeKeyBaseValue, payout.String(),
		types.AttributeKeyNonce, strconv.FormatUint(req.Nonce, 10),
	)
	k.Logger().Info("signed withdrawal settled",
		"owner", req.Owner.String(),
		"recipient", req.To.String(),
		"shares_burned", req.Shares.String(),
		"payout", payout.String(),
		"nonce", req.Nonce,
	)
}

// snapshot captures the state settlement can touch. Hook lists and the
// registry are not mutated by redemption and are excluded.
type snapshot struct {
	totalShares        math.Int
	redemptionFunds    math.Int
	sharesOf           map[types.Address]math.Int
	collateralBalances map[types.Address]math.Int
	usedNonces         map[types.Address]map[uint64]bool
	shareAllowance     map[types.Address]map[types.Address]math.Int
}

func (k *Keeper) snapshotLocked() snapshot {
	s := snapshot{
		totalShares:        k.totalShares,
		redemptionFunds:    k.redemptionFunds,
		sharesOf:           make(map[types.Address]math.Int, len(k.sharesOf)),
		collateralBalances: make(map[types.Address]math.Int, len(k.collateralBalances)),
		usedNonces:         make(map[types.Address]map[uint64]bool, len(k.usedNonces)),
		shareAllowance:     make(map[types.Address]map[types.Address]math.Int, len(k.shareAllowance)),
	}
	for a, v := range k.sharesOf {
		s.sharesOf[a] = v
	}
	for a, v := range k.collateralBalances {
		s.collateralBalances[a] = v
	}
	for a, inner := range k.usedNonces {
		cp := make(map[uint64]bool, len(inner))
		for n, used := range inner {
			cp[n] = used
		}
		s.usedNonces[a] = cp
	}
	for a, inner := range k.shareAllowance {
		cp := make(map[types.Address]math.Int, len(inner))
		for sp, amt := range inner {
			cp[sp] = amt
		}
		s.shareAllowance[a] = cp
	}
	return s
}

func (k *Keeper) restoreLocked(s snapshot) {
	k.totalShares = s.totalShares
	k.redemptionFunds = s.redemptionFunds
	k.sharesOf = s.sharesOf
	k.collateralBalances = s.collateralBalances
	k.usedNonces = s.usedNonces
	k.shareAllowance = s.shareAllowance
}

func sdkWrapIndex(err error, i int) error {
	return sdkerrors.Wrapf(err, "batch element %d", i)
}
