package types

import (
	"time"

	"cosmossdk.io/math"
)

// HookContext carries the operation being gated. Amounts are always in base
// units: deposit hooks see the converted value of the incoming collateral, not
// the raw token amount.
type HookContext struct {
	Operator  Address
	Receiver  Address
	Asset     Address
	BaseValue math.Int
	Shares    math.Int
	Now       time.Time
}

// HookResult is a hook's verdict on an operation.
type HookResult struct {
	Approved bool
	Reason   string
}

// Approve returns an approving result.
func Approve() HookResult {
	return HookResult{Approved: true}
}

// Reject returns a rejecting result carrying the reason surfaced to the caller.
func Reject(reason string) HookResult {
	return HookResult{Approved: false, Reason: reason}
}

// Hook is a pluggable pre-condition check invoked before a state-changing
// operation. One method per operation kind; each may approve or reject.
// Hooks must not mutate vault state.
type Hook interface {
	Name() string
	OnDeposit(ctx HookContext) HookResult
	OnWithdraw(ctx HookContext) HookResult
	OnTransfer(ctx HookContext) HookResult
}

// HookRecord pairs a registered hook with the time it was attached, for
// deterministic enumeration and audit.
type HookRecord struct {
	Hook    Hook
	AddedAt time.Time
}

// HookInfo is the read-only view of a registered hook.
type HookInfo struct {
	Index   int       `json:"index"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// BaseHook approves everything; embed it to implement only the methods a
// concrete hook cares about.
type BaseHook struct{}

func (BaseHook) OnDeposit(HookContext) HookResult  { return Approve() }
func (BaseHook) OnWithdraw(HookContext) HookResult { return Approve() }
func (BaseHook) OnTransfer(HookContext) HookResult { return Approve() }
