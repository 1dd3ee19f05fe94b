// Package conduit provides the in-process token ledger backing vault
// settlement when no external token rail is attached.
package conduit

import (
	"context"
	"sync"

	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// Ledger is a double-entry token ledger keyed by (token, holder). Moves are
// balance-checked; credits mint into a holder's balance.
type Ledger struct {
	mu       sync.Mutex
	balances map[types.Address]map[types.Address]math.Int
}

var _ types.TokenConduit = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[types.Address]map[types.Address]math.Int)}
}

// Credit mints amount of token into holder's balance.
func (l *Ledger) Credit(token, holder types.Address, amount math.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.set(token, holder, l.get(token, holder).Add(amount))
}

// MoveTokens transfers amount of token from one holder to another.
func (l *Ledger) MoveTokens(ctx context.Context, token types.Address, from, to types.Address, amount math.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount.Wrap("token move amount must be positive")
	}
	have := l.get(token, from)
	if have.LT(amount) {
		return types.ErrInsufficientFunds.Wrapf(
			"holder %s has %s of token %s, needs %s", from, have, token, amount)
	}
	l.set(token, from, have.Sub(amount))
	l.set(token, to, l.get(token, to).Add(amount))
	return nil
}

// Balance returns holder's balance of token.
func (l *Ledger) Balance(token, holder types.Address) math.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(token, holder)
}

func (l *Ledger) get(token, holder types.Address) math.Int {
	holders, ok := l.balances[token]
	if !ok {
		return math.ZeroInt()
	}
	bal, ok := holders[holder]
	if !ok {
		return math.ZeroInt()
	}
	return bal
}

func (l *Ledger) set(token, holder types.Address, amount math.Int) {
	holders, ok := l.balances[token]
	if !ok {
		holders = make(map[types.Address]math.Int)
		l.balances[token] = holders
	}
	holders[holder] = amount
}
