package keeper_test

import (
	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/testutil"
	"github.com/sovafoundation/fountfi-open/testutil/sample"
	"github.com/sovafoundation/fountfi-open/vault/types"
)

func (s *KeeperTestSuite) hookNames(op types.OperationKind) []string {
	infos := s.k.Hooks(op)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}

func (s *KeeperTestSuite) TestAddHook_Authorization() {
	err := s.k.AddHook(s.ctx, sample.Address(), types.OpDeposit, testutil.ApprovingHook("a"))
	s.Require().ErrorIs(err, types.ErrNotStrategyAdmin)

	err = s.k.AddHook(s.ctx, s.stratAdmin, types.OpDeposit, nil)
	s.Require().ErrorIs(err, types.ErrInvalidRequest)

	s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpDeposit, testutil.ApprovingHook("a")))
	s.Require().Equal([]string{"a"}, s.hookNames(types.OpDeposit))
}

// First rejection aborts the operation with the rejecting hook's reason;
// later hooks are never invoked.
func (s *KeeperTestSuite) TestHooks_ShortCircuit() {
	a := testutil.ApprovingHook("a")
	b := testutil.RejectingHook("b", "X")
	c := testutil.ApprovingHook("c")
	for _, h := range []types.Hook{a, b, c} {
		s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpDeposit, h))
	}

	depositor := sample.Address()
	_, err := s.k.Deposit(s.ctx, depositor, s.baseAsset, math.NewIntWithDecimal(1, 8), depositor)
	s.Require().ErrorIs(err, types.ErrHookCheckFailed)
	s.Require().ErrorContains(err, "X")

	s.Require().Equal(1, a.DepositCalled)
	s.Require().Equal(1, b.DepositCalled)
	s.Require().Equal(0, c.DepositCalled)

	// Rejected operation leaves no state behind and no execution marker.
	s.Require().Equal(0, s.conduit.MoveCalled)
	s.Require().True(s.k.TotalShares().IsZero())
	s.Require().True(s.k.LastExecuted(types.OpDeposit).IsZero())

	rejections := s.sink.ByType(types.EventTypeHookRejected)
	s.Require().Len(rejections, 1)
	s.Require().Equal("X", rejections[0].Attributes[types.AttributeKeyReason])
}

func (s *KeeperTestSuite) TestRemoveHook_SwapWithLast() {
	for _, name := range []string{"a", "b", "c", "d"} {
		s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpWithdraw, testutil.ApprovingHook(name)))
	}

	s.Require().NoError(s.k.RemoveHook(s.ctx, s.stratAdmin, types.OpWithdraw, 1))
	s.Require().Equal([]string{"a", "d", "c"}, s.hookNames(types.OpWithdraw))

	s.Require().NoError(s.k.RemoveHook(s.ctx, s.stratAdmin, types.OpWithdraw, 2))
	s.Require().Equal([]string{"a", "d"}, s.hookNames(types.OpWithdraw))
}

func (s *KeeperTestSuite) TestRemoveHook_Validation() {
	s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpDeposit, testutil.ApprovingHook("a")))

	err := s.k.RemoveHook(s.ctx, sample.Address(), types.OpDeposit, 0)
	s.Require().ErrorIs(err, types.ErrNotStrategyAdmin)

	err = s.k.RemoveHook(s.ctx, s.stratAdmin, types.OpDeposit, 1)
	s.Require().ErrorIs(err, types.ErrHookIndexOutOfBounds)
	err = s.k.RemoveHook(s.ctx, s.stratAdmin, types.OpDeposit, -1)
	s.Require().ErrorIs(err, types.ErrHookIndexOutOfBounds)
}

// Once an operation kind has executed with hooks attached, its pipeline can no
// longer be removed-from or reordered.
func (s *KeeperTestSuite) TestHookList_FrozenAfterExecution() {
	s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpDeposit, testutil.ApprovingHook("a")))
	s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpDeposit, testutil.ApprovingHook("b")))

	depositor := sample.Address()
	_, err := s.k.Deposit(s.ctx, depositor, s.baseAsset, math.NewIntWithDecimal(1, 8), depositor)
	s.Require().NoError(err)
	s.Require().False(s.k.LastExecuted(types.OpDeposit).IsZero())

	err = s.k.RemoveHook(s.ctx, s.stratAdmin, types.OpDeposit, 0)
	s.Require().ErrorIs(err, types.ErrHookHasProcessedOperations)

	err = s.k.ReorderHooks(s.ctx, s.stratAdmin, types.OpDeposit, []int{1, 0})
	s.Require().ErrorIs(err, types.ErrHookHasProcessedOperations)

	// Appending after execution is permitted by default.
	s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpDeposit, testutil.ApprovingHook("c")))
	s.Require().Equal([]string{"a", "b", "c"}, s.hookNames(types.OpDeposit))

	// The withdraw pipeline never executed and stays mutable.
	s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpWithdraw, testutil.ApprovingHook("w")))
	s.Require().NoError(s.k.RemoveHook(s.ctx, s.stratAdmin, types.OpWithdraw, 0))
}

func (s *KeeperTestSuite) TestAddHook_FreezePolicy() {
	params := s.defaultParams()
	params.FreezeHooksAfterExecution = true
	s.k = s.newKeeper(params)
	s.Require().NoError(s.k.AddCollateral(s.ctx, s.admin, s.baseAsset, types.OneRate(), 8))
	s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpDeposit, testutil.ApprovingHook("a")))

	depositor := sample.Address()
	_, err := s.k.Deposit(s.ctx, depositor, s.baseAsset, math.NewIntWithDecimal(1, 8), depositor)
	s.Require().NoError(err)

	err = s.k.AddHook(s.ctx, s.stratAdmin, types.OpDeposit, testutil.ApprovingHook("b"))
	s.Require().ErrorIs(err, types.ErrHookHasProcessedOperations)
}

func (s *KeeperTestSuite) TestReorderHooks() {
	for _, name := range []string{"a", "b", "c"} {
		s.Require().NoError(s.k.AddHook(s.ctx, s.stratAdmin, types.OpTransfer, testutil.ApprovingHook(name)))
	}

	err := s.k.ReorderHooks(s.ctx, sample.Address(), types.OpTransfer, []int{0, 1, 2})
	s.Require().ErrorIs(err, types.ErrNotStrategyAdmin)

	err = s.k.ReorderHooks(s.ctx, s.stratAdmin, types.OpTransfer, []int{0, 1})
	s.Require().ErrorIs(err, types.ErrReorderInvalidLength)

	err = s.k.ReorderHooks(s.ctx, s.stratAdmin, types.OpTransfer, []int{0, 1, 3})
	s.Require().ErrorIs(err, types.ErrReorderIndexOutOfBounds)

	err = s.k.ReorderHooks(s.ctx, s.stratAdmin, types.OpTransfer, []int{0, 1, 1})
	s.Require().ErrorIs(err, types.ErrReorderDuplicateIndex)

	s.Require().NoError(s.k.ReorderHooks(s.ctx, s.stratAdmin, types.OpTransfer, []int{2, 0, 1}))
	s.Require().Equal([]string{"c", "a", "b"}, s.hookNames(types.OpTransfer))
}
