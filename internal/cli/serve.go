package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"jqdata/internal/api"
	"jqdata/internal/model"
	"jqdata/internal/repo"
	"jqdata/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().String("auth-token", "", "required Authorization value, empty disables auth")
	_ = a.v.BindPFlag("gateway.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("gateway.auth_token", cmd.Flags().Lookup("auth-token"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	c, err := a.newClient(ctx)
	if err != nil {
		return err
	}

	r, err := repo.NewSQLiteRepo(a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer r.Close()

	if c.CanRefresh() {
		tok := c.Token()
		if err := r.SaveToken(model.StoredToken{Mobile: a.cfg.Mobile, Token: tok.Value, IssuedAt: tok.IssuedAt}); err != nil {
			a.logger.Warn("token not persisted", zap.Error(err))
		}
	}

	svc := service.NewService(c, r, a.logger.Named("service"), service.Options{
		RetryOnAuth: a.cfg.Gateway.RetryOnAuth,
		Mobile:      a.cfg.Mobile,
	})

	if a.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	h := api.NewHandler(svc, a.cfg.Gateway, a.logger.Named("gateway"))
	srv := &http.Server{
		Addr:              a.cfg.Gateway.Addr,
		Handler:           api.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("gateway listening",
			zap.String("addr", srv.Addr),
			zap.Bool("auth", a.cfg.Gateway.AuthToken != ""),
			zap.Bool("refresh", c.CanRefresh()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("gateway shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
