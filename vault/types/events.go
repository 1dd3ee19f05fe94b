package types

import "time"

// Event types
const (
	EventTypeAddCollateral    = "add_collateral"
	EventTypeRemoveCollateral = "remove_collateral"
	EventTypeUpdateRate       = "update_rate"
	EventTypeDeposit          = "deposit"
	EventTypeWithdraw         = "withdraw"
	EventTypeTransferShares   = "transfer_shares"
	EventTypeFundRedemptions  = "fund_redemptions"
	EventTypeRedeem           = "redeem"
	EventTypeBatchRedeem      = "batch_redeem"
	EventTypeAddHook          = "add_hook"
	EventTypeRemoveHook       = "remove_hook"
	EventTypeReorderHooks     = "reorder_hooks"
	EventTypeHookRejected     = "hook_rejected"
)

// Event attribute keys
const (
	AttributeKeyKind      = "kind"
	AttributeKeyRate      = "rate"
	AttributeKeyOldRate   = "old_rate"
	AttributeKeyNewRate   = "new_rate"
	AttributeKeyDecimals  = "decimals"
	AttributeKeyAmount    = "amount"
	AttributeKeyBaseValue = "base_value"
	AttributeKeyShares    = "shares"
	AttributeKeyOwner     = "owner"
	AttributeKeyReceiver  = "receiver"
	AttributeKeyNonce     = "nonce"
	AttributeKeyCount     = "count"
	AttributeKeyOperation = "operation"
	AttributeKeyHook      = "hook"
	AttributeKeyIndex     = "index"
	AttributeKeyReason    = "reason"
)

// Event is a typed audit record emitted on every state-changing operation.
type Event struct {
	Type       string
	Attributes map[string]string
	At         time.Time
}

// NewEvent builds an event from alternating key/value attribute pairs.
func NewEvent(eventType string, at time.Time, kv ...string) Event {
	attrs := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return Event{Type: eventType, Attributes: attrs, At: at}
}

// EventSink receives audit events. Sinks must be append-only: an emitted event
// is never rewritten or deleted.
type EventSink interface {
	Emit(event Event) error
}
