package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/dapp-wallet/internal/api"
	"github.com/AlexZinkM/dapp-wallet/internal/config"
	"github.com/AlexZinkM/dapp-wallet/internal/handler"
	"github.com/AlexZinkM/dapp-wallet/internal/metrics"
	"github.com/AlexZinkM/dapp-wallet/internal/provider"
	"github.com/AlexZinkM/dapp-wallet/internal/session"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(config.GetLogLevel())
	defer logger.Sync()

	logger.Info("starting dapp-wallet", zap.String("version", Version))

	accounts, err := parseAccounts(config.GetAccounts())
	if err != nil {
		logger.Fatal("invalid accounts", zap.Error(err))
	}

	var approver provider.Approver = provider.AutoApprove
	if config.GetApproval() == config.ApprovalPrompt {
		approver = provider.NewTerminalApprover()
	}

	wallet := provider.NewWallet(provider.Config{
		Accounts: accounts,
		Approver: approver,
		Logger:   logger.Named("wallet"),
	})
	defer wallet.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	for _, url := range config.GetRPCURLs() {
		if _, err := wallet.ConnectChain(ctx, url); err != nil {
			logger.Error("failed to connect chain", zap.String("rpc_url", url), zap.Error(err))
		}
	}
	cancel()
	if len(wallet.ChainIDs()) == 0 {
		logger.Fatal("no chain reachable", zap.Strings("rpc_urls", config.GetRPCURLs()))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	controller := session.NewController(session.Config{
		Provider: wallet,
		Logger:   logger.Named("session"),
		Metrics:  metrics.NewCollector(registry),
		Features: session.Features{
			ChainSwitch: config.GetChainSwitchEnabled(),
			DarkMode:    config.GetDarkMode(),
		},
		RequestTimeout: config.GetRequestTimeout(),
	})

	router, err := api.SetupRouter(controller, wallet, handler.Options{
		SwitchTargetChainID: config.GetSwitchTargetChainID(),
		RequestTimeout:      config.GetRequestTimeout(),
	}, registry, logger.Named("http"))
	if err != nil {
		logger.Fatal("failed to set up router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("dapp-wallet started",
		zap.String("port", config.GetPort()),
		zap.Uint64s("chains", wallet.ChainIDs()),
		zap.String("approval", config.GetApproval()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	controller.Disconnect()

	logger.Info("dapp-wallet shut down complete")
}

func parseAccounts(raw []string) ([]ethcommon.Address, error) {
	accounts := make([]ethcommon.Address, 0, len(raw))
	for _, a := range raw {
		if !ethcommon.IsHexAddress(a) {
			return nil, fmt.Errorf("%q is not a hex address", a)
		}
		accounts = append(accounts, ethcommon.HexToAddress(a))
	}
	return accounts, nil
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return logger
}
