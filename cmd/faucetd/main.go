package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"nhbfaucet/config"
	"nhbfaucet/crypto"
	"nhbfaucet/faucet"
	"nhbfaucet/ledger"
	"nhbfaucet/observability/logging"
	telemetry "nhbfaucet/observability/otel"
	"nhbfaucet/server"
	"nhbfaucet/server/middleware"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "faucet.toml", "path to faucet configuration")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("NHB_ENV"))
	logger := logging.Setup("faucetd", env)

	if endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); endpoint != "" {
		insecure := true
		if value := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")); value != "" {
			if parsed, err := strconv.ParseBool(value); err == nil {
				insecure = parsed
			}
		}
		shutdownTelemetry, err := telemetry.Init(context.Background(), telemetry.Config{
			ServiceName: "faucetd",
			Environment: env,
			Endpoint:    endpoint,
			Insecure:    insecure,
			Metrics:     true,
			Traces:      true,
		})
		if err != nil {
			logger.Error("failed to initialise telemetry", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = shutdownTelemetry(context.Background())
		}()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	claimAmount, err := cfg.ClaimAmountWei()
	if err != nil {
		logger.Error("parse claim amount", "error", err)
		os.Exit(1)
	}
	feeReserve, err := cfg.FeeReserveWei()
	if err != nil {
		logger.Error("parse fee reserve", "error", err)
		os.Exit(1)
	}

	client := ledger.NewClient(cfg.NodeRPCURL, cfg.NodeRPCToken())

	// The dispensing key comes from the environment. Missing or malformed
	// key material disables claiming for the process lifetime; info queries
	// stay up and report a zero balance.
	var dispatcher faucet.TransferDispatcher
	account := ""
	if secret := strings.TrimSpace(os.Getenv(config.FaucetKeyEnv)); secret == "" {
		logger.Warn("no dispensing key set, claiming disabled", "env", config.FaucetKeyEnv)
	} else if key, err := crypto.PrivateKeyFromHex(secret); err != nil {
		logger.Error("failed to initialise dispensing key, claiming disabled", "error", err)
	} else {
		account = key.PubKey().Address().String()
		dispatcher = faucet.NewLedgerDispatcher(client, key, claimAmount, cfg.ConfirmTimeout())
		logger.Info("dispensing account initialised", "account", account)
	}

	svc := faucet.NewService(faucet.Config{
		ClaimAmount:    claimAmount,
		FeeReserve:     feeReserve,
		CooldownWindow: cfg.CooldownWindow(),
		Account:        account,
	}, client, dispatcher, logger)

	limiter := middleware.NewRateLimiter(middleware.RateLimit{
		RatePerSecond: cfg.ClaimRatePerSecond,
		Burst:         cfg.ClaimBurst,
	})

	handler := server.New(svc, limiter, logger).Router()
	httpServer := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      otelhttp.NewHandler(handler, "faucetd"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("faucet listening", "addr", cfg.ListenAddress, "node", cfg.NodeRPCURL)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("listen", "error", err)
			os.Exit(1)
		}
	}
}
