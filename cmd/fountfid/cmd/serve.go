package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sovafoundation/fountfi-open/apiconfig"
	"github.com/sovafoundation/fountfi-open/internal/conduit"
	"github.com/sovafoundation/fountfi-open/internal/server"
	"github.com/sovafoundation/fountfi-open/journal"
	"github.com/sovafoundation/fountfi-open/vault/eip712"
	"github.com/sovafoundation/fountfi-open/vault/keeper"
	"github.com/sovafoundation/fountfi-open/vault/roles"
	"github.com/sovafoundation/fountfi-open/vault/types"
)

// ServeCommand returns the Cobra command running the vault HTTP daemon.
func ServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the vault daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	return cmd
}

func serve(configPath string) error {
	logger := log.NewLogger(os.Stderr)

	cfg, err := apiconfig.Load(configPath)
	if err != nil {
		return err
	}

	j := journal.New(journal.Config{Path: cfg.Sqlite.Path})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.Bootstrap(ctx); err != nil {
		return errors.Wrap(err, "bootstrapping journal")
	}
	defer j.Close()

	k, err := buildKeeper(cfg, logger, j)
	if err != nil {
		return err
	}

	srv := server.NewServer(k, j, logger)
	addr := fmt.Sprintf("%s:%d", cfg.Api.Host, cfg.Api.Port)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	logger.Info("vault daemon started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

func buildKeeper(cfg apiconfig.Config, logger log.Logger, events types.EventSink) (*keeper.Keeper, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	vaultAddr, err := cfg.VaultAddress()
	if err != nil {
		return nil, err
	}
	grants, err := cfg.RoleGrants()
	if err != nil {
		return nil, err
	}
	kinds, err := cfg.CollateralKinds()
	if err != nil {
		return nil, err
	}

	k, err := keeper.NewKeeper(
		logger, params, vaultAddr,
		conduit.NewLedger(), roles.NewStatic(grants), eip712.Recoverer{}, events,
	)
	if err != nil {
		return nil, err
	}

	admins := grants[types.RoleProtocolAdmin]
	if len(kinds) > 0 && len(admins) == 0 {
		return nil, errors.New("collateral is configured but no protocol admin is granted")
	}
	for _, kind := range kinds {
		if err := k.AddCollateral(context.Background(), admins[0], kind.Token, kind.Rate, kind.Decimals); err != nil {
			return nil, errors.Wrapf(err, "registering collateral %s", kind.Token)
		}
	}
	return k, nil
}
