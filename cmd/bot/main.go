package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotesentinel/internal/config"
	"quotesentinel/internal/dashboard"
	"quotesentinel/internal/logger"
	"quotesentinel/internal/notifier"
	"quotesentinel/internal/portfolio"
	"quotesentinel/internal/quoter"
	"quotesentinel/internal/recorder"
	"quotesentinel/internal/report"
	"quotesentinel/internal/scheduler"
	"quotesentinel/internal/strategy"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))
	log.Info("QuoteSentinel starting", zap.String("config", cfgPath))

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the chain; an unreachable endpoint is a startup failure
	qs := cfg.QuoteSource
	client, chainID, err := quoter.Dial(ctx, qs.Endpoint, cfg.Proxy)
	if err != nil {
		return fmt.Errorf("connect quote source %s: %w", qs.Endpoint, err)
	}
	defer client.Close()
	log.Info("connected to rpc", zap.String("endpoint", qs.Endpoint), zap.String("chain_id", chainID.String()))

	uq, err := quoter.NewUniswapQuoter(client, common.HexToAddress(qs.QuoterAddress), qs.PriceDecimals)
	if err != nil {
		return err
	}
	req := quoter.Request{
		TokenIn:  common.HexToAddress(qs.TokenIn),
		TokenOut: common.HexToAddress(qs.TokenOut),
		FeeTier:  qs.FeeTier,
		AmountIn: quoter.RawAmount(qs.AmountIn, qs.TokenInDecimals),
	}
	sampler := quoter.NewSampler(uq, req, qs.AmountIn, cfg.QuoteTimeout())

	assets := report.Assets{Stable: cfg.Trading.StableSymbol, Volatile: cfg.Trading.VolatileSymbol}
	pm := portfolio.NewManager(cfg.Trading.InitialStableBalance, cfg.Trading.HistoryRetention)

	// Init recorders
	rec, err := openRecorders(cfg, runID, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := rec.Close(); err != nil {
			log.Warn("close recorders", zap.Error(err))
		}
	}()

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	}

	opts := scheduler.Options{
		Interval: cfg.PollInterval(),
		Sampler:  sampler,
		Rule: strategy.Rule{
			ThresholdPercent: cfg.Trading.TradeThresholdPercent,
			Cooldown:         cfg.Cooldown(),
		},
		Portfolio:  pm,
		Recorder:   rec,
		Assets:     assets,
		ReportPath: cfg.Output.FinalReport,
		RunID:      runID,
		Log:        log,
	}
	if tn != nil {
		opts.Notifier = tn
	}
	sched := scheduler.NewScheduler(opts)

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("Telegram polling started")
	}

	if cfg.Dashboard.ListenAddr != "" {
		srv := dashboard.NewServer(cfg.Dashboard.ListenAddr, pm, assets, cfg.RefreshInterval(), log)
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Error("dashboard stopped", zap.Error(err))
			}
		}()
	}

	log.Info("QuoteSentinel is running. Press Ctrl+C to stop.",
		zap.String("pair", assets.Stable+"/"+assets.Volatile),
		zap.Duration("interval", cfg.PollInterval()),
		zap.Float64("threshold_pct", cfg.Trading.TradeThresholdPercent),
		zap.Duration("cooldown", cfg.Cooldown()),
	)

	final, err := sched.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Print(report.Format(&final, assets))
	log.Info("QuoteSentinel stopped")
	return nil
}

// openRecorders builds the persistence fan-out. The CSV price log is
// required; SQLite and Redis are best effort.
func openRecorders(cfg *config.Config, runID string, log *zap.Logger) (recorder.Recorder, error) {
	csv, err := recorder.NewCSVRecorder(cfg.Output.PriceLog)
	if err != nil {
		return nil, fmt.Errorf("open price log: %w", err)
	}
	recs := recorder.Multi{csv}
	log.Info("price log opened", zap.String("path", csv.Path()))

	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, runID, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, skipping", zap.Error(err))
		} else {
			recs = append(recs, sr)
		}
	}

	if cfg.Redis.Addr != "" {
		rr, err := recorder.NewRedisRecorder(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			cfg.Redis.KeyPrefix, runID, cfg.Trading.HistoryRetention)
		if err != nil {
			log.Warn("init redis recorder failed, skipping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			recs = append(recs, rr)
		}
	}
	return recs, nil
}
