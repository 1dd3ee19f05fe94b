// Package testutil holds hand-written mocks for the core's external
// collaborators, with error injection and call tracking.
package testutil

import (
	"context"
	"sync"

	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// TokenMove records one conduit transfer.
type TokenMove struct {
	Kind   types.Address
	From   types.Address
	To     types.Address
	Amount math.Int
}

// MockConduit is a mock implementation of types.TokenConduit.
type MockConduit struct {
	Mu    sync.Mutex
	Moves []TokenMove

	// Error injection
	MoveError error
	// FailAfter, when positive, lets that many calls succeed before the
	// injected error fires. Used to exercise mid-batch conduit failures.
	FailAfter int

	// Call tracking
	MoveCalled int
}

var _ types.TokenConduit = (*MockConduit)(nil)

func (m *MockConduit) MoveTokens(ctx context.Context, kind types.Address, from, to types.Address, amount math.Int) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	m.MoveCalled++
	if m.MoveError != nil && m.MoveCalled > m.FailAfter {
		return m.MoveError
	}
	m.Moves = append(m.Moves, TokenMove{Kind: kind, From: from, To: to, Amount: amount})
	return nil
}

// MemorySink is an in-memory types.EventSink.
type MemorySink struct {
	Mu     sync.Mutex
	Events []types.Event

	EmitError error
}

var _ types.EventSink = (*MemorySink)(nil)

func (m *MemorySink) Emit(event types.Event) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.EmitError != nil {
		return m.EmitError
	}
	m.Events = append(m.Events, event)
	return nil
}

// ByType returns the emitted events of one type, in emission order.
func (m *MemorySink) ByType(eventType string) []types.Event {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var out []types.Event
	for _, e := range m.Events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// CountingHook approves or rejects every operation with a fixed verdict and
// counts invocations per operation kind.
type CountingHook struct {
	HookName string
	Verdict  types.HookResult

	DepositCalled  int
	WithdrawCalled int
	TransferCalled int
}

var _ types.Hook = (*CountingHook)(nil)

// ApprovingHook returns a hook that approves everything.
func ApprovingHook(name string) *CountingHook {
	return &CountingHook{HookName: name, Verdict: types.Approve()}
}

// RejectingHook returns a hook that rejects everything with the given reason.
func RejectingHook(name, reason string) *CountingHook {
	return &CountingHook{HookName: name, Verdict: types.Reject(reason)}
}

func (h *CountingHook) Name() string { return h.HookName }

func (h *CountingHook) OnDeposit(types.HookContext) types.HookResult {
	h.DepositCalled++
	return h.Verdict
}

func (h *CountingHook) OnWithdraw(types.HookContext) types.HookResult {
	h.WithdrawCalled++
	return h.Verdict
}

func (h *CountingHook) OnTransfer(types.HookContext) types.HookResult {
	h.TransferCalled++
	return h.Verdict
}
