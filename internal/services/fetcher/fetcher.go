// Package fetcher acquires the daily price snapshot through the browsing
// agent: it builds the scraping prompt, runs the agent task and parses the
// returned document into an entity.PriceSnapshot.
package fetcher

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cyliang3/kursi-prices/internal/clients"
	"github.com/cyliang3/kursi-prices/internal/entity"
	"github.com/cyliang3/kursi-prices/internal/services/promptbuilder"
)

// Fetcher is the external price-feed collaborator. It performs the only
// blocking I/O in the system; the derivation engine never sees it.
type Fetcher struct {
	runner  clients.TaskRunner
	builder *promptbuilder.PromptBuilder
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a fetcher over the given agent task runner.
func New(runner clients.TaskRunner, builder *promptbuilder.PromptBuilder, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{runner: runner, builder: builder, logger: logger, now: time.Now}
}

// Fetch runs one scraping round and returns the parsed snapshot.
func (f *Fetcher) Fetch(ctx context.Context) (*entity.PriceSnapshot, error) {
	prompt := f.builder.BuildScrapingPrompt(f.now())

	f.logger.Info("starting price scrape",
		zap.Int("smm_sources", len(promptbuilder.SMMSources)),
		zap.Int("lme_sources", len(promptbuilder.LMESources)))

	raw, err := f.runner.RunTask(ctx, prompt)
	if err != nil {
		return nil, errors.Wrap(err, "run scraping task")
	}

	snap, err := entity.ParseSnapshot(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parse scraped snapshot")
	}

	if len(snap.DataIssues.Unavailable) > 0 {
		f.logger.Warn("feed reported unavailable quotes",
			zap.Strings("keys", snap.DataIssues.Unavailable),
			zap.String("reasons", snap.DataIssues.Reasons))
	}

	f.logger.Info("snapshot fetched",
		zap.String("date", snap.Date),
		zap.Int("smm_quotes", len(snap.SMMPrices)),
		zap.Int("lme_quotes", len(snap.LMEPrices)))
	return snap, nil
}
