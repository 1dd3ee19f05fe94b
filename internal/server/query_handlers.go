package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

func (s *Server) getState(c echo.Context) error {
	totalValue, err := s.keeper.TotalValue()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, VaultStateResponse{
		TotalValue:      totalValue.String(),
		TotalShares:     s.keeper.TotalShares().String(),
		RedemptionFunds: s.keeper.RedemptionFunds().String(),
	})
}

func (s *Server) getCollateral(c echo.Context) error {
	kinds := s.keeper.AllowedCollateral()
	out := make([]CollateralDto, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, CollateralDto{
			Token:    kind.Token.String(),
			Decimals: kind.Decimals,
			Rate:     kind.Rate.String(),
			Balance:  s.keeper.CollateralBalance(kind.Token).String(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getCollateralBalance(c echo.Context) error {
	token, err := parseAddress("token", c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BalanceResponse{Balance: s.keeper.CollateralBalance(token).String()})
}

func (s *Server) getHeldKinds(c echo.Context) error {
	kinds := s.keeper.HeldKinds()
	out := make([]string, len(kinds))
	for i, kind := range kinds {
		out[i] = kind.String()
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getShareBalance(c echo.Context) error {
	holder, err := parseAddress("holder", c.Param("holder"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BalanceResponse{Balance: s.keeper.ShareBalance(holder).String()})
}

func (s *Server) getAllowance(c echo.Context) error {
	owner, err := parseAddress("owner", c.Param("owner"))
	if err != nil {
		return err
	}
	spender, err := parseAddress("spender", c.Param("spender"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BalanceResponse{Balance: s.keeper.Allowance(owner, spender).String()})
}

func (s *Server) getNonceUsed(c echo.Context) error {
	owner, err := parseAddress("owner", c.Param("owner"))
	if err != nil {
		return err
	}
	nonce, err := strconv.ParseUint(c.Param("nonce"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nonce: "+err.Error())
	}
	return c.JSON(http.StatusOK, NonceResponse{
		Owner: owner.String(),
		Nonce: nonce,
		Used:  s.keeper.NonceUsed(owner, nonce),
	})
}

func (s *Server) getHooks(c echo.Context) error {
	op, err := parseOperation(c.Param("op"))
	if err != nil {
		return err
	}
	infos := s.keeper.Hooks(op)
	out := HooksResponse{Operation: op.String(), Hooks: make([]HookDto, 0, len(infos))}
	for _, info := range infos {
		out.Hooks = append(out.Hooks, HookDto{Index: info.Index, Name: info.Name})
	}
	if last := s.keeper.LastExecuted(op); !last.IsZero() {
		out.LastExecuted = last.UTC().Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getEvents(c echo.Context) error {
	if s.events == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no event journal configured")
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit: "+err.Error())
		}
	}
	ctx := c.Request().Context()
	if eventType := c.QueryParam("type"); eventType != "" {
		entries, err := s.events.EntriesByType(ctx, eventType, limit)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, entries)
	}
	entries, err := s.events.Entries(ctx, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
