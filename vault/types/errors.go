package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// vault module sentinel errors.
//
// Grouped by taxonomy: validation (caller-correctable input), authorization
// (wrong caller), state (precondition violation), integrity (security-relevant
// rejection; must abort all side effects).
var (
	// Validation
	ErrZeroAmount          = sdkerrors.Register(ModuleName, 1101, "amount cannot be zero")
	ErrInvalidArrayLengths = sdkerrors.Register(ModuleName, 1102, "parallel arrays must have equal length")
	ErrInvalidCollateral   = sdkerrors.Register(ModuleName, 1103, "invalid collateral")
	ErrInvalidRate         = sdkerrors.Register(ModuleName, 1104, "conversion rate cannot be zero")
	ErrInvalidRequest      = sdkerrors.Register(ModuleName, 1105, "invalid withdrawal request")

	// Authorization
	ErrOnlyVault        = sdkerrors.Register(ModuleName, 1110, "caller is not the vault entry point")
	ErrOnlyManager      = sdkerrors.Register(ModuleName, 1111, "caller is not the manager")
	ErrNotStrategyAdmin = sdkerrors.Register(ModuleName, 1112, "caller is not the strategy admin")
	ErrNotProtocolAdmin = sdkerrors.Register(ModuleName, 1113, "caller is not the protocol admin")
	ErrUseRedeem        = sdkerrors.Register(ModuleName, 1114, "direct withdrawals are disabled, use a signed redeem")

	// State
	ErrCollateralNotAllowed       = sdkerrors.Register(ModuleName, 1120, "collateral not allowed")
	ErrCollateralAlreadyAllowed   = sdkerrors.Register(ModuleName, 1121, "collateral already allowed")
	ErrWithdrawNonceReuse         = sdkerrors.Register(ModuleName, 1122, "withdrawal nonce already used")
	ErrWithdrawalRequestExpired   = sdkerrors.Register(ModuleName, 1123, "withdrawal request expired")
	ErrHookIndexOutOfBounds       = sdkerrors.Register(ModuleName, 1124, "hook index out of bounds")
	ErrHookHasProcessedOperations = sdkerrors.Register(ModuleName, 1125, "hook list is frozen: operations already processed")
	ErrReorderInvalidLength       = sdkerrors.Register(ModuleName, 1126, "reorder permutation has wrong length")
	ErrReorderIndexOutOfBounds    = sdkerrors.Register(ModuleName, 1127, "reorder permutation index out of bounds")
	ErrReorderDuplicateIndex      = sdkerrors.Register(ModuleName, 1128, "reorder permutation contains a duplicate index")
	ErrInsufficientShares         = sdkerrors.Register(ModuleName, 1129, "insufficient share balance")
	ErrInsufficientAllowance      = sdkerrors.Register(ModuleName, 1130, "insufficient share allowance")
	ErrInsufficientFunds          = sdkerrors.Register(ModuleName, 1131, "insufficient base-unit funds for disbursement")

	// Integrity
	ErrHookCheckFailed         = sdkerrors.Register(ModuleName, 1140, "hook check failed")
	ErrWithdrawInvalidSignature = sdkerrors.Register(ModuleName, 1141, "withdrawal signature does not match owner")
	ErrInsufficientOutputAssets = sdkerrors.Register(ModuleName, 1142, "output assets below requested minimum")
)
