package types

const (
	// ModuleName defines the module name, used as the error codespace and log tag.
	ModuleName = "vault"

	// SharePrecision is the fixed decimal precision of ownership shares,
	// independent of the base asset's precision (commonly 8 decimals).
	SharePrecision uint8 = 18

	// RateScale is the number of decimals in a fixed-point conversion rate.
	RateScale uint8 = 18
)

// Role gates the admin, manager and strategy-admin surfaces. Storage of role
// membership lives outside the core (see RoleRegistry).
type Role string

const (
	RoleProtocolAdmin Role = "protocol_admin"
	RoleManager       Role = "manager"
	RoleStrategyAdmin Role = "strategy_admin"
)

// OperationKind identifies a hook-gated state-changing operation.
type OperationKind uint8

const (
	OpDeposit OperationKind = iota
	OpWithdraw
	OpTransfer
)

func (op OperationKind) String() string {
	switch op {
	case OpDeposit:
		return "deposit"
	case OpWithdraw:
		return "withdraw"
	case OpTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}
