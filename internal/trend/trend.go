// Package trend reduces archived verdicts for one instrument into a
// trend-consistency judgment.
package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"saham-workbench/internal/compose"
	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/gateway"
	"saham-workbench/internal/logging"
	"saham-workbench/internal/models"
	"saham-workbench/internal/schema"
	"saham-workbench/pkg/utils"
)

const consistencyInstruction = `You are reviewing a series of forensic analyses of the same Indonesian
stock, produced at different times. Judge how the picture has evolved across
the series: is the thesis IMPROVING, STABLE, DEGRADING, or VOLATILE?

Weigh prediction direction and probability, stress-test scores, supply and
demand balance, and the strategy statuses across the series. The
consistencyScore (0-100) expresses how internally consistent the series is,
independent of whether the trend is good or bad. Base the judgment only on
the serialized history provided.`

// Checker runs consistency checks over ordered history.
type Checker struct {
	llm    gateway.LLMClient
	logger zerolog.Logger
	retry  utils.RetryConfig
}

// NewChecker creates a consistency checker.
func NewChecker(llm gateway.LLMClient, logger zerolog.Logger) *Checker {
	return &Checker{
		llm:    llm,
		logger: logger,
		retry:  utils.DefaultRetryConfig(),
	}
}

// Run classifies the trend across the given history. Preconditions are
// enforced before any external call: at least two entries, all sharing one
// ticker. The history is stable-sorted by timestamp ascending (ties keep
// their original relative order) and serialized in full; the verdict and
// score are produced entirely by the external model.
func (c *Checker) Run(ctx context.Context, history []models.AnalysisResult) (*models.ConsistencyResult, error) {
	if len(history) < 2 {
		return nil, apperrors.NewSelectionError(
			fmt.Sprintf("consistency check needs at least 2 results, got %d", len(history)))
	}
	ticker := history[0].Ticker
	for _, e := range history[1:] {
		if e.Ticker != ticker {
			return nil, apperrors.NewSelectionError(
				fmt.Sprintf("history mixes tickers %s and %s", ticker, e.Ticker))
		}
	}

	ordered := make([]models.AnalysisResult, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	payload, err := json.MarshalIndent(ordered, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(err, "serializing history")
	}

	prompt := fmt.Sprintf("=== ANALYSIS HISTORY: %s (%d results, oldest first) ===\n%s\n",
		ticker, len(ordered), payload)

	logger := logging.WithTicker(c.logger, ticker)

	raw, err := utils.RetryWithResult(ctx, c.retry, func() (string, error) {
		return c.llm.Complete(ctx, gateway.CompletionRequest{
			Instruction: consistencyInstruction,
			Prompt:      prompt,
			Decoding:    compose.FixedDecoding,
			Contract:    schema.ConsistencyContract,
		})
	})
	if err != nil {
		logger.Error().Err(err).Str("failure", "transport").Msg("Consistency call failed")
		return nil, apperrors.ErrAnalysisFailed
	}

	result, err := schema.ParseConsistency(raw)
	if err != nil {
		logger.Error().Err(err).Str("failure", "schema").Msg("Consistency response rejected by contract")
		return nil, apperrors.ErrAnalysisFailed
	}

	// Ticker and count are known locally; never trust the echo.
	result.Ticker = ticker
	result.DataPoints = len(ordered)

	logging.LogConsistency(c.logger, result.Ticker, string(result.TrendVerdict),
		result.ConsistencyScore, result.DataPoints)

	return result, nil
}
