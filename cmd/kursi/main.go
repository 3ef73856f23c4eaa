// Command kursi derives maximum zero-margin purchase prices for Nigerian
// mineral ores from refined-metal reference quotes.
//
// Usage:
//
//	kursi                 fetch today's prices, derive, persist, report
//	kursi -calc-only      derive from the latest stored snapshot
//	kursi -schedule       keep running, one round per cron tick
//	kursi -setup          interactive configuration wizard
//	kursi -config c.yaml  use a YAML config instead of defaults
//
// Required environment variable for fetching: MANUS_API_KEY.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cyliang3/kursi-prices/config"
	"github.com/cyliang3/kursi-prices/internal/clients"
	"github.com/cyliang3/kursi-prices/internal/entity"
	"github.com/cyliang3/kursi-prices/internal/services/fetcher"
	"github.com/cyliang3/kursi-prices/internal/services/pricing"
	"github.com/cyliang3/kursi-prices/internal/services/promptbuilder"
	"github.com/cyliang3/kursi-prices/internal/services/rates"
	"github.com/cyliang3/kursi-prices/internal/services/report"
	"github.com/cyliang3/kursi-prices/internal/services/scheduler"
	"github.com/cyliang3/kursi-prices/internal/setup"
	"github.com/cyliang3/kursi-prices/internal/storage/datafiles"
	"github.com/cyliang3/kursi-prices/internal/storage/history"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	runSetup := flag.Bool("setup", false, "run the interactive configuration wizard")
	calcOnly := flag.Bool("calc-only", false, "derive from the latest stored snapshot, no fetching")
	runSchedule := flag.Bool("schedule", false, "run continuously on the configured cron schedule")
	flag.Parse()

	if *runSetup {
		path := *configPath
		if path == "" {
			path = "config.yaml"
		}
		if err := setup.RunWizard(path); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	app, err := newApp(cfg, *calcOnly, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}
	defer app.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *runSchedule {
		sched, err := scheduler.New(cfg.Schedule, app.runOnce, logger)
		if err != nil {
			logger.Fatal("failed to create scheduler", zap.Error(err))
		}
		logger.Info("running on schedule", zap.String("spec", cfg.Schedule))
		sched.Run(ctx)
		return
	}

	if err := app.runOnce(ctx); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

// app wires the collaborators around the derivation engine.
type app struct {
	calcOnly   bool
	fetcher    *fetcher.Fetcher
	aggregator *pricing.Aggregator
	renderer   *report.Renderer
	files      *datafiles.Store
	history    *history.Store
	logger     *zap.Logger
}

func newApp(cfg config.Config, calcOnly bool, logger *zap.Logger) (*app, error) {
	files, err := datafiles.NewStore(cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}
	hist, err := history.NewStore(cfg.HistoryDir)
	if err != nil {
		return nil, err
	}

	a := &app{
		calcOnly:   calcOnly,
		aggregator: pricing.NewAggregator(rates.NewResolver(cfg.CnyNgnOverride, logger), cfg.Pricing, logger),
		renderer:   report.NewRenderer(),
		files:      files,
		history:    hist,
		logger:     logger,
	}

	if !calcOnly {
		apiKey := os.Getenv("MANUS_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("MANUS_API_KEY environment variable must be set (or use -calc-only)")
		}
		agent := clients.NewAgentClient(cfg.AgentAPIBase, apiKey, logger,
			clients.WithTaskTimeout(cfg.TaskTimeout),
			clients.WithPollInterval(cfg.PollInterval))
		a.fetcher = fetcher.New(agent, promptbuilder.New(), logger)
	}
	return a, nil
}

func (a *app) runOnce(ctx context.Context) error {
	var (
		snap *entity.PriceSnapshot
		err  error
	)
	if a.calcOnly {
		snap, err = a.files.LoadLatestSnapshot()
		if err != nil {
			return err
		}
	} else {
		snap, err = a.fetcher.Fetch(ctx)
		if err != nil {
			return err
		}
		if _, err := a.files.SaveSnapshot(snap); err != nil {
			return err
		}
		if err := a.history.SaveSnapshot(snap.Date, snap.Raw); err != nil {
			a.logger.Warn("failed to append snapshot to history", zap.Error(err))
		}
	}

	rep := a.aggregator.ComputeAll(snap)

	if _, err := a.files.SaveReport(rep); err != nil {
		return err
	}
	if payload, err := json.Marshal(rep); err == nil {
		if err := a.history.SaveReport(rep.Date, payload); err != nil {
			a.logger.Warn("failed to append report to history", zap.Error(err))
		}
	}

	fmt.Println(a.renderer.Render(rep, snap))
	return nil
}

func (a *app) close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("failed to close history store", zap.Error(err))
		}
	}
}
