// Package compose turns a validated analysis input into the deterministic
// request payload sent to the inference service.
package compose

import (
	"fmt"
	"strings"

	"saham-workbench/internal/models"
)

// DecodingPolicy pins the sampling parameters of an inference call.
type DecodingPolicy struct {
	Temperature float32
	TopK        int
	TopP        float32
	Seed        int
}

// FixedDecoding is the only decoding policy the workbench ever uses. It is
// not configurable: identical input must produce a reproducible call.
var FixedDecoding = DecodingPolicy{
	Temperature: 0.0,
	TopK:        1,
	TopP:        0.1,
	Seed:        42,
}

// Request is one composed inference request.
type Request struct {
	Instruction string
	Prompt      string
	Decoding    DecodingPolicy
}

// analysisFramework is the fixed forensic framework every analysis request
// carries, independent of the user's risk profile.
const analysisFramework = `You are a forensic equity analyst for the Indonesian stock market (IDX),
specializing in bandarmology: reading institutional money flow from
broker-level order data.

Apply this framework, in order:

1. FORENSIC ACCOUNTING. Compare net profit margin against operating cash
   flow (CFO) and free cash flow (FCF). Profit that is not confirmed by cash
   is a red flag; state it plainly in the stress test.
2. BANDARMOLOGY ACTOR CLASSIFICATION. Classify the dominant actors behind
   the top broker codes (institutional accumulator, market maker, retail
   herd, distribution desk) and judge whether the flow is akumulasi, markup,
   or distribusi.
3. LIQUIDITY FIT. Compare the user's capital against the estimated daily
   turnover implied by the order book. Flag any position that could not be
   exited without materially moving price.
4. WHALE RULE (hard rule, never soften): if the user's capital is large
   relative to the instrument's liquidity, the strategy for every timeframe
   must reflect the exit risk, regardless of how attractive the setup looks.

Base every judgment strictly on the data provided. Do not invent news or
figures that are not in the input.`

// Risk-policy clauses, selected by the input's risk profile.
const (
	conservativeClause = `RISK POLICY (CONSERVATIVE): narrow the tolerance for high valuation
multiples. A high PER or PBV without operating cash-flow confirmation
downgrades the verdict; prefer FORBIDDEN over POSSIBLE when in doubt.`

	balancedClause = `RISK POLICY (BALANCED): apply the framework as-is, with no extra
tolerance adjustment in either direction.`

	aggressiveClause = `RISK POLICY (AGGRESSIVE): widen the tolerance for high valuation
multiples when growth and flow momentum are strong. A rich PER is
acceptable if growth and bandar accumulation confirm it.`
)

// riskClause resolves the policy clause for a profile.
func riskClause(profile models.RiskProfile) string {
	switch profile {
	case models.RiskConservative:
		return conservativeClause
	case models.RiskAggressive:
		return aggressiveClause
	default:
		return balancedClause
	}
}

// Compose builds the deterministic request payload for an input. Every field
// of the input appears verbatim in the prompt, in a fixed section order, and
// the decoding policy is always FixedDecoding. Compose performs no I/O and
// fails only on input the validator would have rejected.
func Compose(in *models.StockAnalysisInput) (*Request, error) {
	if err := in.ValidateForSubmission(); err != nil {
		return nil, err
	}

	var sb strings.Builder

	// Identity / capital header.
	fmt.Fprintf(&sb, "=== ANALYSIS REQUEST: %s ===\n", in.Ticker)
	fmt.Fprintf(&sb, "Ticker: %s\n", in.Ticker)
	fmt.Fprintf(&sb, "Current Price: %s\n", in.Price)
	fmt.Fprintf(&sb, "User Capital (IDR): %s\n", in.Capital)
	fmt.Fprintf(&sb, "Capital Tier: %s\n", in.CapitalTier)
	fmt.Fprintf(&sb, "Risk Profile: %s\n", in.RiskProfile)

	// Fundamentals block.
	sb.WriteString("\n=== FUNDAMENTALS ===\n")
	fmt.Fprintf(&sb, "ROE: %s\n", in.Fundamentals.ROE)
	fmt.Fprintf(&sb, "DER: %s\n", in.Fundamentals.DER)
	fmt.Fprintf(&sb, "PBV: %s\n", in.Fundamentals.PBV)
	fmt.Fprintf(&sb, "PER: %s\n", in.Fundamentals.PER)
	fmt.Fprintf(&sb, "NPM: %s\n", in.Fundamentals.NPM)
	fmt.Fprintf(&sb, "Growth: %s\n", in.Fundamentals.Growth)
	fmt.Fprintf(&sb, "CFO: %s\n", in.Fundamentals.CFO)
	fmt.Fprintf(&sb, "FCF: %s\n", in.Fundamentals.FCF)

	// Market-structure block: broker summary, depth, aggressive flow.
	sb.WriteString("\n=== MARKET STRUCTURE (BANDARMOLOGY) ===\n")
	fmt.Fprintf(&sb, "Top Brokers: %s\n", in.Bandarmology.TopBrokers)
	fmt.Fprintf(&sb, "Accumulation Duration: %s\n", in.Bandarmology.Duration)
	fmt.Fprintf(&sb, "Bandar Average Price: %s\n", in.Bandarmology.AvgPrice)
	fmt.Fprintf(&sb, "Sentiment Score (0-100): %d\n", in.Bandarmology.SentimentScore)
	fmt.Fprintf(&sb, "Order Book Bid:\n%s\n", in.Bandarmology.OrderBookBid)
	fmt.Fprintf(&sb, "Order Book Ask:\n%s\n", in.Bandarmology.OrderBookAsk)
	fmt.Fprintf(&sb, "Aggressive Buy Flow (Haka):\n%s\n", in.Bandarmology.AggressiveBid)
	fmt.Fprintf(&sb, "Aggressive Sell Flow (Haki):\n%s\n", in.Bandarmology.AggressiveAsk)

	// Raw intelligence, verbatim and untruncated, always last.
	sb.WriteString("\n=== RAW MARKET INTELLIGENCE ===\n")
	sb.WriteString(in.RawIntelligence)
	sb.WriteString("\n")

	instruction := analysisFramework + "\n\n" + riskClause(in.RiskProfile)

	return &Request{
		Instruction: instruction,
		Prompt:      sb.String(),
		Decoding:    FixedDecoding,
	}, nil
}
