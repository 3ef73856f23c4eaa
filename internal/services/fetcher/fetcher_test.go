package fetcher

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cyliang3/kursi-prices/internal/services/promptbuilder"
)

type stubRunner struct {
	gotPrompt string
	output    string
	err       error
}

func (s *stubRunner) RunTask(_ context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return s.output, s.err
}

func TestFetch_ParsesFencedAgentOutput(t *testing.T) {
	runner := &stubRunner{output: "Here you go:\n```json\n" +
		`{"date": "2025-12-01", "smm_prices": {"tin": {"price_avg": 30000}}}` +
		"\n```"}
	f := New(runner, promptbuilder.New(), zap.NewNop())

	snap, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", snap.Date)
	assert.True(t, snap.SMMPrices["tin"].Avg.Present())

	// the prompt handed to the agent is the full scraping brief
	assert.Contains(t, runner.gotPrompt, "metal.com")
	assert.Contains(t, runner.gotPrompt, "smm_prices")
}

func TestFetch_RunnerErrorPropagates(t *testing.T) {
	runner := &stubRunner{err: errors.New("agent down")}
	f := New(runner, promptbuilder.New(), zap.NewNop())

	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent down")
}

func TestFetch_UnparseableOutputFails(t *testing.T) {
	runner := &stubRunner{output: "sorry, every site was down today"}
	f := New(runner, promptbuilder.New(), zap.NewNop())

	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scraped snapshot")
}
