package keeper

import (
	"context"
	"strconv"
	"time"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// AddHook appends a policy check to the end of an operation kind's pipeline.
// Strategy-admin only. Appending after the kind has executed is permitted
// unless params freeze the list entirely.
func (k *Keeper) AddHook(ctx context.Context, caller types.Address, op types.OperationKind, hook types.Hook) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.requireRole(caller, types.RoleStrategyAdmin, types.ErrNotStrategyAdmin); err != nil {
		return err
	}
	if hook == nil {
		return types.ErrInvalidRequest.Wrap("hook cannot be nil")
	}
	if k.params.FreezeHooksAfterExecution && !k.lastExecuted[op].IsZero() {
		return types.ErrHookHasProcessedOperations.Wrapf("%s pipeline executed at %s", op, k.lastExecuted[op])
	}

	k.hooks[op] = append(k.hooks[op], types.HookRecord{Hook: hook, AddedAt: k.now()})

	k.emit(types.EventTypeAddHook,
		types.AttributeKeyOperation, op.String(),
		types.AttributeKeyHook, hook.Name(),
	)
	k.Logger().Info("hook added", "operation", op.String(), "hook", hook.Name())
	return nil
}

// RemoveHook removes the hook at index from an operation kind's pipeline using
// swap-with-last. Removal is refused once the kind has ever executed with
// hooks attached, preserving the audit history behind past approvals.
func (k *Keeper) RemoveHook(ctx context.Context, caller types.Address, op types.OperationKind, index int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.requireRole(caller, types.RoleStrategyAdmin, types.ErrNotStrategyAdmin); err != nil {
		return err
	}
	if !k.lastExecuted[op].IsZero() {
		return types.ErrHookHasProcessedOperations.Wrapf("%s pipeline executed at %s", op, k.lastExecuted[op])
	}
	list := k.hooks[op]
	if index < 0 || index >= len(list) {
		return types.ErrHookIndexOutOfBounds.Wrapf("index %d, pipeline length %d", index, len(list))
	}

	removed := list[index].Hook.Name()
	last := len(list) - 1
	list[index] = list[last]
	k.hooks[op] = list[:last]

	k.emit(types.EventTypeRemoveHook,
		types.AttributeKeyOperation, op.String(),
		types.AttributeKeyHook, removed,
		types.AttributeKeyIndex, strconv.Itoa(index),
	)
	k.Logger().Info("hook removed", "operation", op.String(), "hook", removed, "index", index)
	return nil
}

// ReorderHooks rearranges an operation kind's pipeline so that position i holds
// the hook previously at perm[i]. The permutation must be a bijection over the
// current indices. Refused once the kind has executed.
func (k *Keeper) ReorderHooks(ctx context.Context, caller types.Address, op types.OperationKind, perm []int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.requireRole(caller, types.RoleStrategyAdmin, types.ErrNotStrategyAdmin); err != nil {
		return err
	}
	if !k.lastExecuted[op].IsZero() {
		return types.ErrHookHasProcessedOperations.Wrapf("%s pipeline executed at %s", op, k.lastExecuted[op])
	}
	list := k.hooks[op]
	if len(perm) != len(list) {
		return types.ErrReorderInvalidLength.Wrapf("permutation length %d, pipeline length %d", len(perm), len(list))
	}
	seen := make(map[int]bool, len(perm))
	for _, idx := range perm {
		if idx < 0 || idx >= len(list) {
			return types.ErrReorderIndexOutOfBounds.Wrapf("index %d, pipeline length %d", idx, len(list))
		}
		if seen[idx] {
			return types.ErrReorderDuplicateIndex.Wrapf("index %d appears more than once", idx)
		}
		seen[idx] = true
	}

	reordered := make([]types.HookRecord, len(list))
	for i, idx := range perm {
		reordered[i] = list[idx]
	}
	k.hooks[op] = reordered

	k.emit(types.EventTypeReorderHooks, types.AttributeKeyOperation, op.String())
	k.Logger().Info("hooks reordered", "operation", op.String(), "count", len(reordered))
	return nil
}

// Hooks returns the read-only view of an operation kind's pipeline, in
// evaluation order.
func (k *Keeper) Hooks(op types.OperationKind) []types.HookInfo {
	k.mu.Lock()
	defer k.mu.Unlock()
	list := k.hooks[op]
	out := make([]types.HookInfo, 0, len(list))
	for i, rec := range list {
		out = append(out, types.HookInfo{Index: i, Name: rec.Hook.Name(), AddedAt: rec.AddedAt})
	}
	return out
}

// LastExecuted returns when an operation kind last executed through its
// pipeline; the zero time means never.
func (k *Keeper) LastExecuted(op types.OperationKind) time.Time {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastExecuted[op]
}

// runHooksLocked consults an operation kind's pipeline in insertion order.
// The first rejection aborts the operation; remaining hooks are not invoked.
func (k *Keeper) runHooksLocked(op types.OperationKind, hctx types.HookContext) error {
	for _, rec := range k.hooks[op] {
		var res types.HookResult
		switch op {
		case types.OpDeposit:
			res = rec.Hook.OnDeposit(hctx)
		case types.OpWithdraw:
			res = rec.Hook.OnWithdraw(hctx)
		case types.OpTransfer:
			res = rec.Hook.OnTransfer(hctx)
		}
		if !res.Approved {
			k.emit(types.EventTypeHookRejected,
				types.AttributeKeyOperation, op.String(),
				types.AttributeKeyHook, rec.Hook.Name(),
				types.AttributeKeyReason, res.Reason,
			)
			k.Logger().Info("hook rejected operation",
				"operation", op.String(),
				"hook", rec.Hook.Name(),
				"reason", res.Reason,
			)
			return types.ErrHookCheckFailed.Wrap(res.Reason)
		}
	}
	return nil
}

// markExecutedLocked stamps the operation kind's last-execution marker. Once
// set, the kind's pipeline can no longer be removed-from or reordered.
func (k *Keeper) markExecutedLocked(op types.OperationKind) {
	k.lastExecuted[op] = k.now()
}
