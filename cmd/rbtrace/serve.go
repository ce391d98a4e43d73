package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AlonMell/rbtrace/internal/server"
	"github.com/AlonMell/rbtrace/internal/telemetry"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve tree sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := newLogger(cfg, cmd)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			m := telemetry.New(reg)
			store := server.NewStore(cfg.Server.MaxSessions, logger, m.Observe)

			gin.SetMode(gin.ReleaseMode)
			router := server.NewRouter(server.NewHandlers(cfg, store, logger), reg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			grp, ctx := errgroup.WithContext(ctx)
			grp.Go(func() error {
				return server.Serve(ctx, cfg.Server.Addr, router, logger)
			})
			grp.Go(func() error {
				<-ctx.Done()
				logger.Info("Stopping", "sessions", store.Len())
				return nil
			})
			return grp.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
