package keeper_test

import (
	"cosmossdk.io/math"

	"github.com/sovafoundation/fountfi-open/testutil/sample"
	"github.com/sovafoundation/fountfi-open/vault/types"
)

func (s *KeeperTestSuite) TestAddCollateral_Success() {
	token := sample.Address()
	rate := math.NewIntWithDecimal(95, 16) // 0.95e18

	err := s.k.AddCollateral(s.ctx, s.admin, token, rate, 6)
	s.Require().NoError(err)

	rec, found := s.k.GetCollateral(token)
	s.Require().True(found)
	s.Require().True(rec.Allowed)
	s.Require().Equal(rate, rec.Rate)
	s.Require().Equal(uint8(6), rec.Decimals)

	events := s.sink.ByType(types.EventTypeAddCollateral)
	s.Require().Len(events, 2) // base asset from setup, plus this one
	s.Require().Equal(token.String(), events[1].Attributes[types.AttributeKeyKind])
}

func (s *KeeperTestSuite) TestAddCollateral_Validation() {
	err := s.k.AddCollateral(s.ctx, s.admin, types.ZeroAddress, types.OneRate(), 6)
	s.Require().ErrorIs(err, types.ErrInvalidCollateral)

	token := sample.Address()
	err = s.k.AddCollateral(s.ctx, s.admin, token, math.ZeroInt(), 6)
	s.Require().ErrorIs(err, types.ErrInvalidRate)

	s.Require().NoError(s.k.AddCollateral(s.ctx, s.admin, token, types.OneRate(), 6))
	err = s.k.AddCollateral(s.ctx, s.admin, token, types.OneRate(), 6)
	s.Require().ErrorIs(err, types.ErrInvalidCollateral)

	err = s.k.AddCollateral(s.ctx, sample.Address(), sample.Address(), types.OneRate(), 6)
	s.Require().ErrorIs(err, types.ErrNotProtocolAdmin)
}

func (s *KeeperTestSuite) TestRemoveCollateral_SwapWithLast() {
	a := s.addKind(6, types.OneRate())
	b := s.addKind(8, types.OneRate())
	c := s.addKind(12, types.OneRate())
	d := s.addKind(18, types.OneRate())

	// Removing a non-last element relocates the last element into its slot.
	s.Require().NoError(s.k.RemoveCollateral(s.ctx, s.admin, b))
	s.Require().Equal([]types.Address{s.baseAsset, a, d, c}, allowedTokens(s))

	// Removing the last element just truncates.
	s.Require().NoError(s.k.RemoveCollateral(s.ctx, s.admin, c))
	s.Require().Equal([]types.Address{s.baseAsset, a, d}, allowedTokens(s))

	rec, found := s.k.GetCollateral(b)
	s.Require().True(found)
	s.Require().False(rec.Allowed)
	s.Require().True(rec.Rate.IsZero())
	s.Require().Equal(uint8(0), rec.Decimals)
}

func (s *KeeperTestSuite) TestRemoveCollateral_Validation() {
	err := s.k.RemoveCollateral(s.ctx, s.admin, sample.Address())
	s.Require().ErrorIs(err, types.ErrCollateralNotAllowed)

	token := s.addKind(6, types.OneRate())
	err = s.k.RemoveCollateral(s.ctx, sample.Address(), token)
	s.Require().ErrorIs(err, types.ErrNotProtocolAdmin)

	s.Require().NoError(s.k.RemoveCollateral(s.ctx, s.admin, token))
	err = s.k.RemoveCollateral(s.ctx, s.admin, token)
	s.Require().ErrorIs(err, types.ErrCollateralNotAllowed)
}

func (s *KeeperTestSuite) TestUpdateRate() {
	token := s.addKind(6, types.OneRate())
	newRate := math.NewIntWithDecimal(95, 16)

	s.Require().NoError(s.k.UpdateRate(s.ctx, s.admin, token, newRate))
	rec, _ := s.k.GetCollateral(token)
	s.Require().Equal(newRate, rec.Rate)

	events := s.sink.ByType(types.EventTypeUpdateRate)
	s.Require().Len(events, 1)
	s.Require().Equal(types.OneRate().String(), events[0].Attributes[types.AttributeKeyOldRate])
	s.Require().Equal(newRate.String(), events[0].Attributes[types.AttributeKeyNewRate])

	err := s.k.UpdateRate(s.ctx, s.admin, token, math.ZeroInt())
	s.Require().ErrorIs(err, types.ErrInvalidRate)
	err = s.k.UpdateRate(s.ctx, s.admin, sample.Address(), newRate)
	s.Require().ErrorIs(err, types.ErrCollateralNotAllowed)
	err = s.k.UpdateRate(s.ctx, sample.Address(), token, newRate)
	s.Require().ErrorIs(err, types.ErrNotProtocolAdmin)
}

func (s *KeeperTestSuite) TestConvertToBase_BaseKindIdentity() {
	// Identity holds regardless of the stored rate.
	s.Require().NoError(s.k.UpdateRate(s.ctx, s.admin, s.baseAsset, math.NewIntWithDecimal(2, 18)))

	for _, amount := range []math.Int{math.ZeroInt(), math.NewInt(1), math.NewIntWithDecimal(1, 8), math.NewIntWithDecimal(7, 26)} {
		got, err := s.k.ConvertToBase(s.baseAsset, amount)
		s.Require().NoError(err)
		s.Require().Equal(amount, got)

		got, err = s.k.ConvertFromBase(s.baseAsset, amount)
		s.Require().NoError(err)
		s.Require().Equal(amount, got)
	}
}

func (s *KeeperTestSuite) TestConvert_MixedDecimals() {
	k18 := s.addKind(18, types.OneRate())
	k6 := s.addKind(6, types.OneRate())
	depegged := s.addKind(8, math.NewIntWithDecimal(95, 16))

	got, err := s.k.ConvertToBase(k18, math.NewIntWithDecimal(1, 18))
	s.Require().NoError(err)
	s.Require().Equal(math.NewIntWithDecimal(1, 8), got)

	got, err = s.k.ConvertToBase(k6, math.NewIntWithDecimal(1, 6))
	s.Require().NoError(err)
	s.Require().Equal(math.NewIntWithDecimal(1, 8), got)

	got, err = s.k.ConvertToBase(depegged, math.NewIntWithDecimal(1, 8))
	s.Require().NoError(err)
	s.Require().Equal(math.NewIntWithDecimal(95, 6), got)

	// Inverse scaling.
	got, err = s.k.ConvertFromBase(k18, math.NewIntWithDecimal(1, 8))
	s.Require().NoError(err)
	s.Require().Equal(math.NewIntWithDecimal(1, 18), got)
}

func (s *KeeperTestSuite) TestConvert_NotAllowed() {
	_, err := s.k.ConvertToBase(sample.Address(), math.NewInt(1))
	s.Require().ErrorIs(err, types.ErrCollateralNotAllowed)
	_, err = s.k.ConvertFromBase(sample.Address(), math.NewInt(1))
	s.Require().ErrorIs(err, types.ErrCollateralNotAllowed)
}

// Round-tripping to base units and back always rounds down and may lose
// precision bounded by the scaling factor; never more.
func (s *KeeperTestSuite) TestConvertRoundTrip_BoundedError() {
	cases := []struct {
		decimals uint8
		rate     math.Int
		amount   math.Int
	}{
		{18, types.OneRate(), math.NewIntWithDecimal(1, 18)},
		{18, math.NewIntWithDecimal(95, 16), math.NewInt(123456789123456789)},
		{6, math.NewIntWithDecimal(103, 16), math.NewInt(999999)},
		{8, math.NewIntWithDecimal(3, 17), math.NewInt(12345678)},
		{12, math.NewIntWithDecimal(7, 18), math.NewInt(987654321012)},
	}
	for _, tc := range cases {
		token := s.addKind(tc.decimals, tc.rate)

		base, err := s.k.ConvertToBase(token, tc.amount)
		s.Require().NoError(err)
		back, err := s.k.ConvertFromBase(token, base)
		s.Require().NoError(err)

		s.Require().True(back.LTE(tc.amount), "round trip must round down: %s -> %s", tc.amount, back)

		// One unit lost per truncating division, scaled back to collateral units.
		scale := math.NewIntWithDecimal(1, int(types.RateScale)+int(tc.decimals)-8)
		maxErr := scale.Quo(tc.rate).Add(math.NewInt(2))
		s.Require().True(tc.amount.Sub(back).LTE(maxErr),
			"error %s exceeds bound %s (decimals=%d rate=%s)", tc.amount.Sub(back), maxErr, tc.decimals, tc.rate)
	}
}

// Exact round trip is only guaranteed at the identity rate and base precision.
func (s *KeeperTestSuite) TestConvertRoundTrip_ExactAtIdentity() {
	token := s.addKind(8, types.OneRate())
	amount := math.NewInt(12345678)

	base, err := s.k.ConvertToBase(token, amount)
	s.Require().NoError(err)
	back, err := s.k.ConvertFromBase(token, base)
	s.Require().NoError(err)
	s.Require().Equal(amount, back)
}

func allowedTokens(s *KeeperTestSuite) []types.Address {
	kinds := s.k.AllowedCollateral()
	out := make([]types.Address, 0, len(kinds))
	for _, rec := range kinds {
		out = append(out, rec.Token)
	}
	return out
}
