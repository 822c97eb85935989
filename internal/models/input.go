// Package models defines the core data structures for the analysis workbench.
package models

import "strings"

// CapitalTier is a coarse bucket of the user's investable capital.
type CapitalTier string

const (
	TierMicro         CapitalTier = "MICRO"
	TierRetail        CapitalTier = "RETAIL"
	TierHighNet       CapitalTier = "HIGH_NET"
	TierInstitutional CapitalTier = "INSTITUTIONAL"
)

// Valid reports whether the tier is one of the known buckets.
func (t CapitalTier) Valid() bool {
	switch t {
	case TierMicro, TierRetail, TierHighNet, TierInstitutional:
		return true
	}
	return false
}

// RiskProfile selects the valuation tolerance applied by the analysis
// instruction.
type RiskProfile string

const (
	RiskConservative RiskProfile = "CONSERVATIVE"
	RiskBalanced     RiskProfile = "BALANCED"
	RiskAggressive   RiskProfile = "AGGRESSIVE"
)

// Valid reports whether the profile is one of the known policies.
func (r RiskProfile) Valid() bool {
	switch r {
	case RiskConservative, RiskBalanced, RiskAggressive:
		return true
	}
	return false
}

// Fundamentals holds the eight ratio inputs as the user typed them.
// Values stay numeric strings end to end; the model receives them verbatim.
type Fundamentals struct {
	ROE    string `json:"roe"`
	DER    string `json:"der"`
	PBV    string `json:"pbv"`
	PER    string `json:"per"`
	NPM    string `json:"npm"`
	Growth string `json:"growth"`
	CFO    string `json:"cfo"`
	FCF    string `json:"fcf"`
}

// Bandarmology holds the market-microstructure inputs: order-book depth,
// aggressive trade flow (haka/haki), and the user's read of the dominant
// brokers.
type Bandarmology struct {
	OrderBookBid   string `json:"orderBookBid"`
	OrderBookAsk   string `json:"orderBookAsk"`
	AggressiveBid  string `json:"aggressiveBid"`
	AggressiveAsk  string `json:"aggressiveAsk"`
	SentimentScore int    `json:"sentimentScore"` // 0-100
	TopBrokers     string `json:"topBrokers"`
	Duration       string `json:"duration"`
	AvgPrice       string `json:"avgPrice"`
}

// StockAnalysisInput is one user-submitted analysis request. It is built
// fresh per submission and never mutated after being handed to the composer.
type StockAnalysisInput struct {
	Ticker          string       `json:"ticker"`
	Price           string       `json:"price"`
	Capital         string       `json:"capital"`
	CapitalTier     CapitalTier  `json:"capitalTier"`
	RiskProfile     RiskProfile  `json:"riskProfile"`
	Fundamentals    Fundamentals `json:"fundamentals"`
	Bandarmology    Bandarmology `json:"bandarmology"`
	RawIntelligence string       `json:"rawIntelligenceData"`
}

// Normalize trims and upper-cases the ticker. Called once before validation;
// all other fields are passed through verbatim.
func (in *StockAnalysisInput) Normalize() {
	in.Ticker = strings.ToUpper(strings.TrimSpace(in.Ticker))
}
