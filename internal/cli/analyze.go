package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/models"
	"saham-workbench/pkg/utils"
)

func addAnalyzeCommand(rootCmd *cobra.Command, app *App) {
	var (
		in        models.StockAnalysisInput
		intelFile string
		fromDraft bool
		saveDraft bool
		noSave    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a full analysis for a ticker",
		Long: `Compose fundamentals, bandarmology and raw intelligence into a single
analysis request. The result is validated against the response contract and
archived on success.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if fromDraft {
				draft, err := app.loadDraft(ctx)
				if err != nil {
					return err
				}
				mergeDraft(cmd, &in, draft)
				app.Output.Info("resumed draft for %s", draft.Ticker)
			}

			if in.CapitalTier == "" {
				in.CapitalTier = app.Config.DefaultTier()
			}
			if in.RiskProfile == "" {
				in.RiskProfile = app.Config.DefaultRiskProfile()
			}

			if intelFile != "" {
				data, err := os.ReadFile(intelFile)
				if err != nil {
					return apperrors.Wrap(err, "reading intelligence file")
				}
				in.RawIntelligence = string(data)
			}

			in.Normalize()

			if saveDraft {
				if app.Store == nil {
					return apperrors.ErrDatabaseError
				}
				if err := app.Store.SaveDraft(ctx, &in); err != nil {
					return err
				}
				app.Output.Success("draft saved for %s", in.Ticker)
				return nil
			}

			if adv := models.ValidateCapitalFit(in.Capital, in.CapitalTier); adv != nil {
				switch adv.Severity {
				case models.SeverityWarning:
					app.Output.Warning("%s", adv.Message)
				default:
					app.Output.Error("%s", adv.Message)
				}
			}

			if err := app.requireAnalyzer(); err != nil {
				return err
			}

			app.Output.Info("analyzing %s ...", in.Ticker)
			result, err := app.Analyzer.Analyze(ctx, &in)
			if err != nil {
				var verr *apperrors.ValidationError
				if apperrors.As(err, &verr) {
					app.Output.Error("invalid input: %s", verr.Message)
				}
				return err
			}

			if !noSave {
				*result = app.Archive.Add(*result)
			}

			if app.jsonMode {
				return app.Output.JSON(result)
			}
			app.renderResult(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Ticker, "ticker", "t", "", "Stock ticker, e.g. BBCA")
	cmd.Flags().StringVarP(&in.Price, "price", "p", "", "Current price")
	cmd.Flags().StringVarP(&in.Capital, "capital", "c", "", "Capital to deploy, in rupiah")
	cmd.Flags().StringVar((*string)(&in.CapitalTier), "tier", "", "Capital tier: MICRO, RETAIL, HIGH_NET, INSTITUTIONAL")
	cmd.Flags().StringVar((*string)(&in.RiskProfile), "risk", "", "Risk profile: CONSERVATIVE, BALANCED, AGGRESSIVE")

	cmd.Flags().StringVar(&in.Fundamentals.ROE, "roe", "", "Return on equity")
	cmd.Flags().StringVar(&in.Fundamentals.DER, "der", "", "Debt to equity ratio")
	cmd.Flags().StringVar(&in.Fundamentals.PBV, "pbv", "", "Price to book value")
	cmd.Flags().StringVar(&in.Fundamentals.PER, "per", "", "Price to earnings ratio")
	cmd.Flags().StringVar(&in.Fundamentals.NPM, "npm", "", "Net profit margin")
	cmd.Flags().StringVar(&in.Fundamentals.Growth, "growth", "", "Revenue growth")
	cmd.Flags().StringVar(&in.Fundamentals.CFO, "cfo", "", "Cash flow from operations")
	cmd.Flags().StringVar(&in.Fundamentals.FCF, "fcf", "", "Free cash flow")

	cmd.Flags().StringVar(&in.Bandarmology.TopBrokers, "brokers", "", "Top broker accumulation summary")
	cmd.Flags().StringVar(&in.Bandarmology.Duration, "duration", "", "Accumulation duration")
	cmd.Flags().StringVar(&in.Bandarmology.AvgPrice, "avg-price", "", "Broker average price")
	cmd.Flags().StringVar(&in.Bandarmology.OrderBookBid, "bid", "", "Order book bid volume")
	cmd.Flags().StringVar(&in.Bandarmology.OrderBookAsk, "ask", "", "Order book ask volume")
	cmd.Flags().StringVar(&in.Bandarmology.AggressiveBid, "haka", "", "Aggressive buy flow (haka)")
	cmd.Flags().StringVar(&in.Bandarmology.AggressiveAsk, "haki", "", "Aggressive sell flow (haki)")
	cmd.Flags().IntVar(&in.Bandarmology.SentimentScore, "sentiment", 0, "Bandarmology sentiment score 0-100")

	cmd.Flags().StringVar(&in.RawIntelligence, "intel", "", "Raw market intelligence text")
	cmd.Flags().StringVar(&intelFile, "intel-file", "", "Read raw intelligence from a file")

	cmd.Flags().BoolVar(&fromDraft, "from-draft", false, "Start from the saved draft")
	cmd.Flags().BoolVar(&saveDraft, "save-draft", false, "Save inputs as a draft without submitting")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not archive the result")

	rootCmd.AddCommand(cmd)
}

func (app *App) loadDraft(ctx context.Context) (*models.StockAnalysisInput, error) {
	if app.Store == nil {
		return nil, apperrors.ErrDraftNotFound
	}
	return app.Store.LoadDraft(ctx)
}

// mergeDraft fills fields the user did not set on the command line.
func mergeDraft(cmd *cobra.Command, in *models.StockAnalysisInput, draft *models.StockAnalysisInput) {
	if !cmd.Flags().Changed("ticker") {
		in.Ticker = draft.Ticker
	}
	if !cmd.Flags().Changed("price") {
		in.Price = draft.Price
	}
	if !cmd.Flags().Changed("capital") {
		in.Capital = draft.Capital
	}
	if !cmd.Flags().Changed("tier") {
		in.CapitalTier = draft.CapitalTier
	}
	if !cmd.Flags().Changed("risk") {
		in.RiskProfile = draft.RiskProfile
	}
	if !cmd.Flags().Changed("roe") {
		in.Fundamentals = draft.Fundamentals
	}
	if !cmd.Flags().Changed("brokers") {
		in.Bandarmology = draft.Bandarmology
	}
	if !cmd.Flags().Changed("intel") && !cmd.Flags().Changed("intel-file") {
		in.RawIntelligence = draft.RawIntelligence
	}
}

func (app *App) renderResult(res *models.AnalysisResult) {
	o := app.Output

	o.Header("═══ " + res.Ticker + " ═══")
	o.Plain("  price:      %s (bandar avg %s, %s / %s)",
		res.PriceInfo.CurrentPrice, res.PriceInfo.BandarAvgPrice,
		utils.FormatPercent(res.PriceInfo.PercentDiff), res.PriceInfo.Status)
	o.Plain("  market cap: %s", res.MarketCapAnalysis.Category)
	o.Plain("  %s", res.MarketCapAnalysis.Behavior)
	o.Plain("")

	o.Header("Supply / Demand")
	o.Plain("  bid strength:   %d/100", res.SupplyDemand.BidStrength)
	o.Plain("  offer strength: %d/100", res.SupplyDemand.OfferStrength)
	o.Plain("  %s", res.SupplyDemand.Verdict)
	o.Plain("")

	o.Header("Prediction")
	o.Plain("  direction: %s (%d%% probability)", o.Direction(res.Prediction.Direction), res.Prediction.Probability)
	o.Plain("  %s", res.Prediction.Reasoning)
	o.Plain("")

	o.Header("Stress Test")
	passed := "FAILED"
	if res.StressTest.Passed {
		passed = "PASSED"
	}
	o.Plain("  %s (score %d/100)", passed, res.StressTest.Score)
	o.Plain("  %s", res.StressTest.Details)
	o.Plain("")

	o.Header("Broker Analysis")
	o.Plain("  phase: %s", res.BrokerAnalysis.Classification)
	o.Plain("  %s", res.BrokerAnalysis.Insight)
	o.Plain("")

	o.Header("Strategy (best: " + string(res.Strategy.BestTimeframe) + ")")
	table := NewTable("TIMEFRAME", "STATUS", "ENTRY", "TP", "SL")
	for _, tf := range []models.Timeframe{models.TimeframeShort, models.TimeframeMedium, models.TimeframeLong} {
		plan := res.Strategy.Plan(tf)
		name := string(tf)
		if tf == res.Strategy.BestTimeframe {
			name = name + " *"
		}
		entry, tp, sl := plan.Entry, plan.TP, plan.SL
		if !plan.Actionable() {
			entry, tp, sl = "-", "-", "-"
		}
		table.AddRow(name, o.PlanStatus(plan.Status), entry, tp, sl)
	}
	table.Render()
	o.Plain("")

	o.Header("Summary")
	o.Plain("  %s", res.Summary)
	o.Plain("")
	o.Header("Bear Case")
	o.Plain("  %s", res.BearCase)
	o.Plain("")

	if len(res.Sources) > 0 {
		o.Header("Sources")
		for _, src := range res.Sources {
			title := src.Title
			if title == "" {
				title = src.URI
			}
			o.Plain("  - %s (%s)", title, src.URI)
		}
		o.Plain("")
	}

	if res.FullAnalysis != "" {
		o.Header("Full Analysis")
		for _, line := range strings.Split(res.FullAnalysis, "\n") {
			o.Plain("  %s", line)
		}
	}
}
