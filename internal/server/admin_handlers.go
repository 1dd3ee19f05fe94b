package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) addCollateral(c echo.Context) error {
	var body AddCollateralRequest
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
	rate, err := parseAmount("rate", body.Rate)
	if err != nil {
		return err
	}
	if err := s.keeper.AddCollateral(c.Request().Context(), caller, token, rate, body.Decimals); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) removeCollateral(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	token, err := parseAddress("token", c.Param("token"))
	if err != nil {
		return err
	}
	if err := s.keeper.RemoveCollateral(c.Request().Context(), caller, token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) updateRate(c echo.Context) error {
	var body UpdateRateRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	caller, err := parseAddress("caller", body.Caller)
	if err != nil {
		return err
	}
	token, err := parseAddress("token", c.Param("token"))
	if err != nil {
		return err
	}
	rate, err := parseAmount("rate", body.Rate)
	if err != nil {
		return err
	}
	if err := s.keeper.UpdateRate(c.Request().Context(), caller, token, rate); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) removeHook(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	op, err := parseOperation(c.Param("op"))
	if err != nil {
		return err
	}
	index, err := parseIndex("index", c.Param("index"))
	if err != nil {
		return err
	}
	if err := s.keeper.RemoveHook(c.Request().Context(), caller, op, index); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) reorderHooks(c echo.Context) error {
	var body ReorderHooksRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	caller, err := parseAddress("caller", body.Caller)
	if err != nil {
		return err
	}
	op, err := parseOperation(c.Param("op"))
	if err != nil {
		return err
	}
	if err := s.keeper.ReorderHooks(c.Request().Context(), caller, op, body.Order); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
