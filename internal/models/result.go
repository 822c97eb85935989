package models

// MarketCapCategory buckets the instrument by market capitalization.
type MarketCapCategory string

const (
	CapSmall   MarketCapCategory = "Small Cap"
	CapMid     MarketCapCategory = "Mid Cap"
	CapBig     MarketCapCategory = "Big Cap"
	CapUnknown MarketCapCategory = "UNKNOWN"
)

// Valid reports whether the category is one of the enumerated buckets.
func (c MarketCapCategory) Valid() bool {
	switch c {
	case CapSmall, CapMid, CapBig, CapUnknown:
		return true
	}
	return false
}

// Direction is the model's price-direction call.
type Direction string

const (
	DirectionUp          Direction = "UP"
	DirectionDown        Direction = "DOWN"
	DirectionConsolidate Direction = "CONSOLIDATE"
	DirectionUnknown     Direction = "UNKNOWN"
)

// Valid reports whether the direction is one of the enumerated values.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionConsolidate, DirectionUnknown:
		return true
	}
	return false
}

// Timeframe is a trade-plan horizon.
type Timeframe string

const (
	TimeframeShort  Timeframe = "SHORT"
	TimeframeMedium Timeframe = "MEDIUM"
	TimeframeLong   Timeframe = "LONG"
)

// Valid reports whether the timeframe is one of the enumerated values.
func (t Timeframe) Valid() bool {
	switch t {
	case TimeframeShort, TimeframeMedium, TimeframeLong:
		return true
	}
	return false
}

// PlanStatus is the actionability of a trade plan. PlanForbidden is
// terminal: entry/exit values carry no meaning under it.
type PlanStatus string

const (
	PlanRecommended PlanStatus = "RECOMMENDED"
	PlanPossible    PlanStatus = "POSSIBLE"
	PlanForbidden   PlanStatus = "FORBIDDEN"
)

// Valid reports whether the status is one of the enumerated values.
func (s PlanStatus) Valid() bool {
	switch s {
	case PlanRecommended, PlanPossible, PlanForbidden:
		return true
	}
	return false
}

// PriceInfo compares the current price against the bandar average.
type PriceInfo struct {
	CurrentPrice   string  `json:"currentPrice"`
	BandarAvgPrice string  `json:"bandarAvgPrice"`
	PercentDiff    float64 `json:"percentDiff"`
	Status         string  `json:"status"`
}

// MarketCapAnalysis classifies the instrument and describes its behavior.
type MarketCapAnalysis struct {
	Category MarketCapCategory `json:"category"`
	Behavior string            `json:"behavior"`
}

// SupplyDemand scores order-book pressure on both sides.
type SupplyDemand struct {
	BidStrength   int    `json:"bidStrength" validate:"min=0,max=100"`
	OfferStrength int    `json:"offerStrength" validate:"min=0,max=100"`
	Verdict       string `json:"verdict"`
}

// Prediction is the model's directional call with probability.
type Prediction struct {
	Direction   Direction `json:"direction"`
	Probability int       `json:"probability" validate:"min=0,max=100"`
	Reasoning   string    `json:"reasoning"`
}

// StressTest is the forensic data-quality judgment.
type StressTest struct {
	Passed  bool   `json:"passed"`
	Score   int    `json:"score" validate:"min=0,max=100"`
	Details string `json:"details"`
}

// BrokerAnalysis classifies the dominant actors behind the flow.
type BrokerAnalysis struct {
	Classification string `json:"classification"`
	Insight        string `json:"insight"`
}

// TradePlan is one per-timeframe plan. When Status is PlanForbidden the
// entry/tp/sl strings must not be treated as actionable.
type TradePlan struct {
	Verdict   string     `json:"verdict"`
	Entry     string     `json:"entry"`
	TP        string     `json:"tp"`
	SL        string     `json:"sl"`
	Reasoning string     `json:"reasoning"`
	Status    PlanStatus `json:"status"`
}

// Actionable reports whether the plan's entry/exit values may be acted on.
func (p TradePlan) Actionable() bool {
	return p.Status != PlanForbidden
}

// Strategy holds the recommended horizon plus one plan per timeframe.
type Strategy struct {
	BestTimeframe Timeframe `json:"bestTimeframe"`
	Short         TradePlan `json:"short"`
	Medium        TradePlan `json:"medium"`
	Long          TradePlan `json:"long"`
}

// Plan returns the plan for the given timeframe.
func (s Strategy) Plan(tf Timeframe) TradePlan {
	switch tf {
	case TimeframeMedium:
		return s.Medium
	case TimeframeLong:
		return s.Long
	default:
		return s.Short
	}
}

// Source is one grounding citation attached to a verdict.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AnalysisResult is one produced verdict. ID and Timestamp are locally
// authoritative: they are generated at receipt and overwrite anything the
// external response may have carried. Immutable after creation, except for
// re-stamping on archive add/import to keep identity keys unique.
type AnalysisResult struct {
	ID                string            `json:"id,omitempty"`
	Timestamp         int64             `json:"timestamp,omitempty"` // milliseconds since epoch
	Ticker            string            `json:"ticker"`
	PriceInfo         PriceInfo         `json:"priceInfo"`
	MarketCapAnalysis MarketCapAnalysis `json:"marketCapAnalysis"`
	SupplyDemand      SupplyDemand      `json:"supplyDemand"`
	Prediction        Prediction        `json:"prediction"`
	StressTest        StressTest        `json:"stressTest"`
	BrokerAnalysis    BrokerAnalysis    `json:"brokerAnalysis"`
	Summary           string            `json:"summary"`
	BearCase          string            `json:"bearCase"`
	Strategy          Strategy          `json:"strategy"`
	FullAnalysis      string            `json:"fullAnalysis"`
	Sources           []Source          `json:"sources"`
}

// IdentityKey returns the archive identity for this result: the id when
// present, else the ticker. Legacy entries produced before ids existed key
// by ticker until the archive re-stamps them.
func (r *AnalysisResult) IdentityKey() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Ticker
}

// TrendVerdict classifies the trend across archived results.
type TrendVerdict string

const (
	TrendImproving TrendVerdict = "IMPROVING"
	TrendStable    TrendVerdict = "STABLE"
	TrendDegrading TrendVerdict = "DEGRADING"
	TrendVolatile  TrendVerdict = "VOLATILE"
)

// Valid reports whether the verdict is one of the enumerated values.
func (v TrendVerdict) Valid() bool {
	switch v {
	case TrendImproving, TrendStable, TrendDegrading, TrendVolatile:
		return true
	}
	return false
}

// ConsistencyResult is one trend-consistency judgment. Created fresh per
// consistency call and never archived.
type ConsistencyResult struct {
	Ticker           string       `json:"ticker"`
	DataPoints       int          `json:"dataPoints"`
	TrendVerdict     TrendVerdict `json:"trendVerdict"`
	ConsistencyScore int          `json:"consistencyScore" validate:"min=0,max=100"`
	Analysis         string       `json:"analysis"`
	ActionItem       string       `json:"actionItem"`
}
