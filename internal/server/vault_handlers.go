package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

func (s *Server) deposit(c echo.Context) error {
	var body DepositRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	caller, err := parseAddress("caller", body.Caller)
	if err != nil {
		return err
	}
	token, err := parseAddress("token", body.Token)
	if err != nil {
		return err
	}
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	receiver, err := parseAddress("receiver", body.Receiver)
	if err != nil {
		return err
	}
	shares, err := s.keeper.Deposit(c.Request().Context(), caller, token, amount, receiver)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DepositResponse{Shares: shares.String()})
}

func (s *Server) withdraw(c echo.Context) error {
	var body WithdrawRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	caller, err := parseAddress("caller", body.Caller)
	if err != nil {
		return err
	}
	owner, err := parseAddress("owner", body.Owner)
	if err != nil {
		return err
	}
	to, err := parseAddress("to", body.To)
	if err != nil {
		return err
	}
	shares, err := parseAmount("shares", body.Shares)
	if err != nil {
		return err
	}
	assets, err := s.keeper.Withdraw(c.Request().Context(), caller, owner, to, shares)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, WithdrawResponse{Assets: assets.String()})
}

func (s *Server) transferShares(c echo.Context) error {
	var body TransferRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	from, err := parseAddress("from", body.From)
	if err != nil {
		return err
	}
	to, err := parseAddress("to", body.To)
	if err != nil {
		return err
	}
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	if err := s.keeper.TransferShares(c.Request().Context(), from, to, amount); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) approve(c echo.Context) error {
	var body ApproveRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	owner, err := parseAddress("owner", body.Owner)
	if err != nil {
		return err
	}
	spender, err := parseAddress("spender", body.Spender)
	if err != nil {
		return err
	}
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	if err := s.keeper.Approve(owner, spender, amount); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) fundRedemptions(c echo.Context) error {
	var body FundRedemptionsRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	caller, err := parseAddress("caller", body.Caller)
	if err != nil {
		return err
	}
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	if err := s.keeper.DepositRedemptionFunds(c.Request().Context(), caller, amount); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) redeem(c echo.Context) error {
	var body RedeemRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	caller, err := parseAddress("caller", body.Caller)
	if err != nil {
		return err
	}
	req, sig, err := toWithdrawalRequest(body.Withdrawal)
	if err != nil {
		return err
	}
	assets, err := s.keeper.Redeem(c.Request().Context(), caller, req, sig)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, WithdrawResponse{Assets: assets.String()})
}

func (s *Server) batchRedeem(c echo.Context) error {
	var body BatchRedeemRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	caller, err := parseAddress("caller", body.Caller)
	if err != nil {
		return err
	}
	reqs := make([]types.WithdrawalRequest, 0, len(body.Withdrawals))
	sigs := make([][]byte, 0, len(body.Withdrawals))
	for _, w := range body.Withdrawals {
		req, sig, err := toWithdrawalRequest(w)
		if err != nil {
			return err
		}
		reqs = append(reqs, req)
		sigs = append(sigs, sig)
	}
	payouts, err := s.keeper.BatchRedeem(c.Request().Context(), caller, reqs, sigs)
	if err != nil {
		return err
	}
	out := BatchRedeemResponse{Assets: make([]string, len(payouts))}
	for i, p := range payouts {
		out.Assets[i] = p.String()
	}
	return c.JSON(http.StatusOK, out)
}

func toWithdrawalRequest(w SignedWithdrawal) (types.WithdrawalRequest, []byte, error) {
	owner, err := parseAddress("withdrawal.owner", w.Owner)
	if err != nil {
		return types.WithdrawalRequest{}, nil, err
	}
	to, err := parseAddress("withdrawal.to", w.To)
	if err != nil {
		return types.WithdrawalRequest{}, nil, err
	}
	shares, err := parseAmount("withdrawal.shares", w.Shares)
	if err != nil {
		return types.WithdrawalRequest{}, nil, err
	}
	minAssets, err := parseAmount("withdrawal.min_assets", w.MinAssets)
	if err != nil {
		return types.WithdrawalRequest{}, nil, err
	}
	sig, err := parseSignature(w.Signature)
	if err != nil {
		return types.WithdrawalRequest{}, nil, err
	}
	return types.WithdrawalRequest{
		Owner:          owner,
		To:             to,
		Shares:         shares,
		MinAssets:      minAssets,
		Nonce:          w.Nonce,
		ExpirationTime: w.ExpirationTime,
	}, sig, nil
}
