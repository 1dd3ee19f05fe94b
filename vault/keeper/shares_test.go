package keeper_test

import (
	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/testutil/sample"
	"github.com/sovafoundation/fountfi-open/vault/types"
)

func (s *KeeperTestSuite) TestDeposit_BootstrapMint() {
	depositor := sample.Address()

	shares, err := s.k.Deposit(s.ctx, depositor, s.baseAsset, math.NewIntWithDecimal(1, 8), depositor)
	s.Require().NoError(err)
	// Decimal-offset bootstrap: 1e8 base units mint 1e18 shares.
	s.Require().Equal(math.NewIntWithDecimal(1, 18), shares)
	s.Require().Equal(shares, s.k.ShareBalance(depositor))
	s.Require().Equal(shares, s.k.TotalShares())
	s.assertConservation(depositor)

	s.Require().Len(s.conduit.Moves, 1)
	s.Require().Equal(s.vaultAddr, s.conduit.Moves[0].To)
}

// Depositing 1e8 units of an 8-decimal kind and 1e18 units of an 18-decimal
// kind, both at rate 1e18, mint identical share amounts on an empty vault.
func (s *KeeperTestSuite) TestDeposit_MixedDecimalEquivalence() {
	depositor := sample.Address()

	eightDec := s.addKind(8, types.OneRate())
	sharesA, err := s.k.Deposit(s.ctx, depositor, eightDec, math.NewIntWithDecimal(1, 8), depositor)
	s.Require().NoError(err)

	// Fresh, empty vault for the second kind.
	s.k = s.newKeeper(s.defaultParams())
	s.Require().NoError(s.k.AddCollateral(s.ctx, s.admin, s.baseAsset, types.OneRate(), 8))
	eighteenDec := s.addKind(18, types.OneRate())
	sharesB, err := s.k.Deposit(s.ctx, depositor, eighteenDec, math.NewIntWithDecimal(1, 18), depositor)
	s.Require().NoError(err)

	s.Require().Equal(math.NewIntWithDecimal(1, 18), sharesA)
	s.Require().Equal(sharesA, sharesB)
}

// After a depeg rate cut, the same raw deposit of the depegged kind mints
// strictly fewer shares than it did before.
func (s *KeeperTestSuite) TestDeposit_DepegMintsFewerShares() {
	depositor := sample.Address()
	token := s.addKind(8, types.OneRate())

	// Seed the vault with base collateral unaffected by the depeg.
	_, err := s.k.Deposit(s.ctx, depositor, s.baseAsset, math.NewIntWithDecimal(1, 8), depositor)
	s.Require().NoError(err)

	raw := math.NewIntWithDecimal(1, 8)
	before, err := s.k.Deposit(s.ctx, depositor, token, raw, depositor)
	s.Require().NoError(err)

	s.Require().NoError(s.k.UpdateRate(s.ctx, s.admin, token, math.NewIntWithDecimal(95, 16)))

	after, err := s.k.Deposit(s.ctx, depositor, token, raw, depositor)
	s.Require().NoError(err)
	s.Require().True(after.LT(before), "post-depeg mint %s should be fewer than %s", after, before)
	s.assertConservation(depositor)
}

func (s *KeeperTestSuite) TestDeposit_ZeroAmountNoSideEffects() {
	depositor := sample.Address()

	_, err := s.k.Deposit(s.ctx, depositor, s.baseAsset, math.ZeroInt(), depositor)
	s.Require().ErrorIs(err, types.ErrZeroAmount)
	s.Require().Equal(0, s.conduit.MoveCalled)
	s.Require().True(s.k.TotalShares().IsZero())
}

func (s *KeeperTestSuite) TestDeposit_NotAllowedKind() {
	depositor := sample.Address()
	_, err := s.k.Deposit(s.ctx, depositor, sample.Address(), math.NewInt(1), depositor)
	s.Require().ErrorIs(err, types.ErrCollateralNotAllowed)
}

func (s *KeeperTestSuite) TestConvertToShares_EmptyAndSeeded() {
	shares, err := s.k.ConvertToShares(math.NewIntWithDecimal(1, 8))
	s.Require().NoError(err)
	s.Require().Equal(math.NewIntWithDecimal(1, 18), shares)

	assets, err := s.k.ConvertToAssets(math.NewIntWithDecimal(1, 18))
	s.Require().NoError(err)
	s.Require().Equal(math.NewIntWithDecimal(1, 8), assets)

	depositor := sample.Address()
	_, err = s.k.Deposit(s.ctx, depositor, s.baseAsset, math.NewIntWithDecimal(1, 8), depositor)
	s.Require().NoError(err)

	// Ratio is unchanged right after a proportional deposit.
	shares, err = s.k.ConvertToShares(math.NewIntWithDecimal(5, 7))
	s.Require().NoError(err)
	s.Require().Equal(math.NewIntWithDecimal(5, 17), shares)
}

func (s *KeeperTestSuite) TestWithdraw_Direct() {
	depositor := sample.Address()
	recipient := sample.Address()

	_, err := s.k.Deposit(s.ctx, depositor, s.baseAsset, math.NewIntWithDecimal(1, 8), depositor)
	s.Require().NoError(err)

	assets, err := s.k.Withdraw(s.ctx, depositor, depositor, recipient, math.NewIntWithDecimal(5, 17))
	s.Require().NoError(err)
	s.Require().Equal(math.NewIntWithDecimal(5, 7), assets)
	s.Require().Equal(math.NewIntWithDecimal(5, 17), s.k.ShareBalance(depositor))
	s.assertConservation(depositor)

	last := s.conduit.Moves[len(s.conduit.Moves)-1]
	s.Require().Equal(recipient, last.To)
	s.Require().Equal(assets, last.Amount)
}

func (s *KeeperTestSuite) TestWithdraw_ManagedVaultRejects() {
	params := s.defaultParams()
	params.ManagedWithdrawOnly = true
	s.k = s.newKeeper(params)
	s.Require().NoError(s.k.AddCollateral(s.ctx, s.admin, s.baseAsset, types.OneRate(), 8))

	depositor := sample.Address()
	_, err := s.k.Withdraw(s.ctx, depositor, depositor, depositor, math.NewInt(1))
	s.Require().ErrorIs(err, types.ErrUseRedeem)
}

func (s *KeeperTestSuite) TestWithdraw_Allowance() {
	owner := sample.Address()
	operator := sample.Address()

	_, err := s.k.Deposit(s.ctx, owner, s.baseAsset, math.NewIntWithDecimal(1, 8), owner)
	s.Require().NoError(err)

	half := math.NewIntWithDecimal(5, 17)
	_, err = s.k.Withdraw(s.ctx, operator, owner, operator, half)
	s.Require().ErrorIs(err, types.ErrInsufficientAllowance)

	s.Require().NoError(s.k.Approve(owner, operator, half))
	_, err = s.k.Withdraw(s.ctx, operator, owner, operator, half)
	s.Require().NoError(err)
	s.Require().True(s.k.Allowance(owner, operator).IsZero())

	_, err = s.k.Withdraw(s.ctx, operator, owner, operator, half)
	s.Require().ErrorIs(err, types.ErrInsufficientAllowance)
}

func (s *KeeperTestSuite) TestWithdraw_InsufficientShares() {
	depositor := sample.Address()
	_, err := s.k.Deposit(s.ctx, depositor, s.baseAsset, math.NewIntWithDecimal(1, 8), depositor)
	s.Require().NoError(err)

	_, err = s.k.Withdraw(s.ctx, depositor, depositor, depositor, math.NewIntWithDecimal(2, 18))
	s.Require().ErrorIs(err, types.ErrInsufficientShares)
	s.assertConservation(depositor)
}

func (s *KeeperTestSuite) TestTransferShares() {
	from := sample.Address()
	to := sample.Address()

	_, err := s.k.Deposit(s.ctx, from, s.baseAsset, math.NewIntWithDecimal(1, 8), from)
	s.Require().NoError(err)

	err = s.k.TransferShares(s.ctx, from, to, math.NewIntWithDecimal(4, 17))
	s.Require().NoError(err)
	s.Require().Equal(math.NewIntWithDecimal(6, 17), s.k.ShareBalance(from))
	s.Require().Equal(math.NewIntWithDecimal(4, 17), s.k.ShareBalance(to))
	s.assertConservation(from, to)

	err = s.k.TransferShares(s.ctx, from, to, math.NewIntWithDecimal(7, 17))
	s.Require().ErrorIs(err, types.ErrInsufficientShares)

	err = s.k.TransferShares(s.ctx, from, types.ZeroAddress, math.NewInt(1))
	s.Require().ErrorIs(err, types.ErrInvalidRequest)

	err = s.k.TransferShares(s.ctx, from, to, math.ZeroInt())
	s.Require().ErrorIs(err, types.ErrZeroAmount)
}

// A negative transfer would run the burn and mint in reverse, crediting the
// sender from the recipient's balance. Every share entry point must refuse
// negative amounts outright.
func (s *KeeperTestSuite) TestNegativeAmountsRejected() {
	holder := sample.Address()
	other := sample.Address()

	minted, err := s.k.Deposit(s.ctx, holder, s.baseAsset, math.NewIntWithDecimal(1, 8), holder)
	s.Require().NoError(err)

	err = s.k.TransferShares(s.ctx, other, holder, math.NewIntWithDecimal(1, 18).Neg())
	s.Require().ErrorIs(err, types.ErrZeroAmount)
	s.Require().Equal(minted, s.k.ShareBalance(holder))
	s.Require().True(s.k.ShareBalance(other).IsZero())
	s.assertConservation(holder, other)

	_, err = s.k.Deposit(s.ctx, other, s.baseAsset, math.NewInt(-1), other)
	s.Require().ErrorIs(err, types.ErrZeroAmount)

	_, err = s.k.Withdraw(s.ctx, holder, holder, holder, math.NewInt(-1))
	s.Require().ErrorIs(err, types.ErrZeroAmount)

	err = s.k.Approve(holder, other, math.NewInt(-1))
	s.Require().ErrorIs(err, types.ErrInvalidRequest)
	s.Require().True(s.k.Allowance(holder, other).IsZero())
}
