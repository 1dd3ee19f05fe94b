package keeper

import (
	"fmt"
	"sync"
	"time"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/vault/eip712"
	"github.com/sovafoundation/fountfi-open/vault/types"
)

// Keeper is the accounting entity of a single vault instance: the collateral
// registry, the ledger, share accounting, the hook pipeline and signed
// settlement all live behind it. All mutations of one keeper are serialized
// behind its mutex; there is no ambient state.
type Keeper struct {
	mu     sync.Mutex
	logger log.Logger

	params    types.Params
	vaultAddr types.Address
	domain    eip712.Domain

	conduit   types.TokenConduit
	roles     types.RoleRegistry
	recoverer types.SignerRecoverer
	events    types.EventSink
	nowFn     func() time.Time

	// registry: kind records plus the insertion-ordered allowed enumeration
	// with a reverse index for swap-with-last removal.
	collateral   map[types.Address]types.CollateralKind
	allowedOrder []types.Address
	allowedIndex map[types.Address]int

	// ledger: per-kind balances in native decimals, the append-only held-kind
	// enumeration, and base-unit funds earmarked for redemptions. Redemption
	// funding is a logically distinct account and is never mixed into the base
	// kind's collateral balance.
	collateralBalances map[types.Address]math.Int
	heldKinds          []types.Address
	heldSeen           map[types.Address]bool
	redemptionFunds    math.Int

	// shares
	totalShares    math.Int
	sharesOf       map[types.Address]math.Int
	shareAllowance map[types.Address]map[types.Address]math.Int

	// settlement: write-once (owner, nonce) set, never cleared.
	usedNonces map[types.Address]map[uint64]bool

	// hook pipeline
	hooks        map[types.OperationKind][]types.HookRecord
	lastExecuted map[types.OperationKind]time.Time
}

// Option customizes keeper construction.
type Option func(*Keeper)

// WithClock overrides the time source. Tests use this to drive expiration.
func WithClock(now func() time.Time) Option {
	return func(k *Keeper) { k.nowFn = now }
}

// NewKeeper builds a vault keeper. vaultAddr is the settlement entity's own
// account: custody destination for the conduit and the verifying-contract
// identity of the signing domain.
func NewKeeper(
	logger log.Logger,
	params types.Params,
	vaultAddr types.Address,
	conduit types.TokenConduit,
	roles types.RoleRegistry,
	recoverer types.SignerRecoverer,
	events types.EventSink,
	opts ...Option,
) (*Keeper, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vault params: %w", err)
	}
	if vaultAddr.IsZero() {
		return nil, fmt.Errorf("vault address cannot be the zero address")
	}
	if conduit == nil || roles == nil || recoverer == nil {
		return nil, fmt.Errorf("conduit, roles and recoverer are required")
	}

	k := &Keeper{
		logger:             logger,
		params:             params,
		vaultAddr:          vaultAddr,
		domain:             eip712.DomainFromParams(params, vaultAddr),
		conduit:            conduit,
		roles:              roles,
		recoverer:          recoverer,
		events:             events,
		nowFn:              time.Now,
		collateral:         make(map[types.Address]types.CollateralKind),
		allowedIndex:       make(map[types.Address]int),
		collateralBalances: make(map[types.Address]math.Int),
		heldSeen:           make(map[types.Address]bool),
		redemptionFunds:    math.ZeroInt(),
		totalShares:        math.ZeroInt(),
		sharesOf:           make(map[types.Address]math.Int),
		shareAllowance:     make(map[types.Address]map[types.Address]math.Int),
		usedNonces:         make(map[types.Address]map[uint64]bool),
		hooks:              make(map[types.OperationKind][]types.HookRecord),
		lastExecuted:       make(map[types.OperationKind]time.Time),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger.With("module", types.ModuleName)
}

// Params returns the vault's static configuration.
func (k *Keeper) Params() types.Params {
	return k.params
}

// VaultAddress returns the settlement entity's account identity.
func (k *Keeper) VaultAddress() types.Address {
	return k.vaultAddr
}

// Domain returns the structured-data signing domain of this vault.
func (k *Keeper) Domain() eip712.Domain {
	return k.domain
}

func (k *Keeper) now() time.Time {
	return k.nowFn().UTC()
}

// emit hands an audit event to the configured sink. A sink failure is logged
// and does not abort the operation that produced the event.
func (k *Keeper) emit(eventType string, kv ...string) {
	if k.events == nil {
		return
	}
	if err := k.events.Emit(types.NewEvent(eventType, k.now(), kv...)); err != nil {
		k.Logger().Error("failed to emit audit event", "type", eventType, "error", err)
	}
}

func (k *Keeper) requireRole(caller types.Address, role types.Role, e *sdkerrors.Error) error {
	if !k.roles.HasRole(caller, role) {
		return e.Wrapf("caller %s lacks role %s", caller, role)
	}
	return nil
}

// pow10 returns 10^exp.
func pow10(exp uint8) math.Int {
	return types.Pow10(exp)
}
