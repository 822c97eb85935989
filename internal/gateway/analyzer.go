package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"saham-workbench/internal/compose"
	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/logging"
	"saham-workbench/internal/models"
	"saham-workbench/internal/schema"
	"saham-workbench/pkg/utils"
)

// Analyzer runs one validated input through the full pipeline: compose,
// single inference round trip, contract validation, local identity stamping.
type Analyzer struct {
	llm    LLMClient
	logger zerolog.Logger
	retry  utils.RetryConfig

	// overridable in tests
	now   func() time.Time
	newID func() string
}

// NewAnalyzer creates an analyzer. Transport failures get a small bounded
// retry with jitter; schema failures are terminal.
func NewAnalyzer(llm LLMClient, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		llm:    llm,
		logger: logger,
		retry:  utils.DefaultRetryConfig(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Analyze produces one verdict for the input. Local validation failures are
// returned typed, synchronously, before any network call. All external-call
// failures (transport and schema alike) collapse to ErrAnalysisFailed at
// this boundary; the distinction survives only in the log.
func (a *Analyzer) Analyze(ctx context.Context, in *models.StockAnalysisInput) (*models.AnalysisResult, error) {
	in.Normalize()

	req, err := compose.Compose(in)
	if err != nil {
		return nil, err
	}

	logger := logging.WithTicker(a.logger, in.Ticker)

	raw, err := utils.RetryWithResult(ctx, a.retry, func() (string, error) {
		return a.llm.Complete(ctx, CompletionRequest{
			Instruction: req.Instruction,
			Prompt:      req.Prompt,
			Decoding:    req.Decoding,
			Contract:    schema.AnalysisContract,
		})
	})
	if err != nil {
		logger.Error().Err(err).Str("failure", "transport").Msg("Inference call failed")
		return nil, apperrors.ErrAnalysisFailed
	}

	result, err := schema.ParseAnalysis(raw)
	if err != nil {
		logger.Error().Err(err).Str("failure", "schema").Msg("Response rejected by contract")
		return nil, apperrors.ErrAnalysisFailed
	}

	// Identity is locally authoritative: overwrite unconditionally, even if
	// the response happened to carry fields resembling id or timestamp.
	result.ID = a.newID()
	result.Timestamp = a.now().UnixMilli()
	if result.Sources == nil {
		result.Sources = []models.Source{}
	}

	logging.LogAnalysis(a.logger, result.ID, result.Ticker,
		string(result.Prediction.Direction), result.Prediction.Probability)

	return result, nil
}
