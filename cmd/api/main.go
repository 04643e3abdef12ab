package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/polkaforge/polkaforge/backend/internal/analysis/intent"
	"github.com/polkaforge/polkaforge/backend/internal/config"
	"github.com/polkaforge/polkaforge/backend/internal/handler"
	"github.com/polkaforge/polkaforge/backend/internal/logger"
	"github.com/polkaforge/polkaforge/backend/internal/metrics"
	"github.com/polkaforge/polkaforge/backend/internal/model/doc"
	"github.com/polkaforge/polkaforge/backend/internal/model/job"
	"github.com/polkaforge/polkaforge/backend/internal/model/quickaction"
	"github.com/polkaforge/polkaforge/backend/internal/model/reply"
	"github.com/polkaforge/polkaforge/backend/internal/model/repository"
	"github.com/polkaforge/polkaforge/backend/internal/service/chat"
	"github.com/polkaforge/polkaforge/backend/internal/service/dashboard"
	"github.com/polkaforge/polkaforge/backend/internal/service/jobs"
	"github.com/polkaforge/polkaforge/backend/internal/service/upload"
	"github.com/polkaforge/polkaforge/backend/internal/service/wallet"
	"github.com/polkaforge/polkaforge/backend/internal/service/wallet/substrate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	zlog.Logger = log
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file, using process environment only")
	}

	m := metrics.New()

	catalog := reply.Default()
	dispatcher := intent.New(catalog)
	chatSvc := chat.NewService(cfg.Chat.Config,
		chat.WithDispatcher(dispatcher, catalog.Greeting),
		chat.WithMetrics(m),
		chat.WithLogger(logger.Component(log, "chat")),
	)
	defer chatSvc.Close()
	go chatSvc.RunJanitor(ctx, cfg.Chat.JanitorInterval)

	walletSvc, err := newWalletService(ctx, cfg.Wallet, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise wallet service")
	}
	defer walletSvc.Close()
	if conn, ok, err := walletSvc.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore saved wallet account")
	} else if ok {
		log.Info().Str("address", conn.Account.Address).Msg("restored saved wallet account")
	}

	jobSvc := jobs.NewService(job.NewMemoryStore(job.Seed()), cfg.Jobs.SubmitDelay, logger.Component(log, "jobs"))
	uploadSvc := upload.NewService(cfg.Upload, logger.Component(log, "upload"), m)
	defer uploadSvc.Close()
	dashboardSvc := dashboard.NewService(repository.NewMemoryStore(repository.Seed()), cfg.Dashboard, logger.Component(log, "dashboard"))

	router := handler.NewRouter(handler.Dependencies{
		Chat:           chatSvc,
		Dispatcher:     dispatcher,
		QuickActions:   quickaction.NewMemoryStore(quickaction.Seed(), quickaction.SeedCapabilities()),
		Wallet:         walletSvc,
		Jobs:           jobSvc,
		Uploads:        uploadSvc,
		Docs:           doc.NewMemoryStore(doc.Seed(), doc.SeedTutorials(), doc.Categories()),
		Dashboard:      dashboardSvc,
		Metrics:        m,
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	if err := startServer(ctx, cfg.Server, router, log); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

func newWalletService(ctx context.Context, cfg config.WalletConfig, m *metrics.Metrics, log zerolog.Logger) (*wallet.Service, error) {
	store, err := wallet.OpenSQLiteStore(ctx, cfg.StorePath)
	if err != nil {
		return nil, err
	}

	var chain wallet.BalanceReader
	if cfg.ChainEnabled {
		chain = substrate.NewClient(substrate.ClientOptions{
			Endpoint:   cfg.RPCURL,
			Timeout:    cfg.RPCTimeout,
			MaxRetries: 2,
			Observer:   m.RecordRPC,
		})
	}

	return wallet.NewService(
		wallet.NewStaticProvider(cfg.ExtensionInstalled, cfg.Accounts),
		chain,
		store,
		wallet.WithMetrics(m),
		wallet.WithLogger(logger.Component(log, "wallet")),
	), nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("PolkaForge backend listening")
	return runServer(ctx, srv, serverCfg.ShutdownTimeout)
}

func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
