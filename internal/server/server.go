package server

import (
	"context"

	"cosmossdk.io/log"
	"github.com/labstack/echo/v4"

	"github.com/sovafoundation/fountfi-open/internal/server/middleware"
	"github.com/sovafoundation/fountfi-open/journal"
	"github.com/sovafoundation/fountfi-open/vault/keeper"
)

// EventStore serves the read side of the audit journal.
type EventStore interface {
	Entries(ctx context.Context, limit int) ([]journal.Entry, error)
	EntriesByType(ctx context.Context, eventType string, limit int) ([]journal.Entry, error)
}

type Server struct {
	e      *echo.Echo
	keeper *keeper.Keeper
	events EventStore
	logger log.Logger
}

// NewServer wires the HTTP surface over the vault core. events may be nil when
// no journal is configured; the events endpoint then returns 404.
func NewServer(k *keeper.Keeper, events EventStore, logger log.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.TransparentErrorHandler
	s := &Server{
		e:      e,
		keeper: k,
		events: events,
		logger: logger,
	}

	e.Use(middleware.LoggingMiddleware(logger))

	admin := e.Group("/admin/v1/")
	admin.POST("collateral", s.addCollateral)
	admin.DELETE("collateral/:token", s.removeCollateral)
	admin.PUT("collateral/:token/rate", s.updateRate)
	admin.DELETE("hooks/:op/:index", s.removeHook)
	admin.POST("hooks/:op/reorder", s.reorderHooks)

	v1 := e.Group("/v1/")
	v1.POST("deposits", s.deposit)
	v1.POST("withdrawals", s.withdraw)
	v1.POST("transfers", s.transferShares)
	v1.POST("approvals", s.approve)
	v1.POST("redemption-funds", s.fundRedemptions)
	v1.POST("redemptions", s.redeem)
	v1.POST("redemptions/batch", s.batchRedeem)

	v1.GET("state", s.getState)
	v1.GET("collateral", s.getCollateral)
	v1.GET("collateral/:token/balance", s.getCollateralBalance)
	v1.GET("held-kinds", s.getHeldKinds)
	v1.GET("shares/:holder", s.getShareBalance)
	v1.GET("allowances/:owner/:spender", s.getAllowance)
	v1.GET("nonces/:owner/:nonce", s.getNonceUsed)
	v1.GET("hooks/:op", s.getHooks)
	v1.GET("events", s.getEvents)

	return s
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}
