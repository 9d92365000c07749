package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zvrva/flightledger/api"
	"github.com/zvrva/flightledger/config"
	"github.com/zvrva/flightledger/internal/ledger"
	"github.com/zvrva/flightledger/internal/metrics"
	"github.com/zvrva/flightledger/internal/vault"
)

// Run starts the HTTP surface and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, ledgerSvc ledger.UseCase, vaultSvc vault.UseCase, reg *metrics.Registry) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if reg != nil {
		router.Use(api.Metrics(reg))
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := api.Identity(cfg.Auth.GatewaySecret)
	v1 := router.Group("/v1")
	api.NewFlightHandler(ledgerSvc).Register(v1, auth)
	api.NewTicketHandler(ledgerSvc, vaultSvc).Register(v1, auth)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
