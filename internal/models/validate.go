package models

import (
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "saham-workbench/internal/errors"
)

// AdvisorySeverity classifies a capital-fit advisory. This layer only
// classifies; it never blocks submission on its own.
type AdvisorySeverity string

const (
	SeverityCritical AdvisorySeverity = "CRITICAL"
	SeverityWarning  AdvisorySeverity = "WARNING"
	SeverityInvalid  AdvisorySeverity = "INVALID"
)

// CapitalAdvisory is a soft advisory about capital/tier plausibility,
// distinct from the hard Whale Rule enforced by the analysis instruction.
type CapitalAdvisory struct {
	Severity AdvisorySeverity
	Message  string
}

// Capital-fit boundaries in IDR.
const (
	microCapitalCeiling       = 150_000_000
	retailCapitalCeiling      = 600_000_000
	institutionalCapitalFloor = 1_000_000_000
)

// MinIntelligenceLength is the raw-intelligence length a request must exceed
// to be submission-eligible.
const MinIntelligenceLength = 50

// ValidateCapitalFit checks whether the capital amount is plausible for the
// selected tier. Rules are evaluated in order and the first match wins.
// Pure and idempotent: the result depends on (capital, tier) only. An
// unparseable amount yields no advisory; emptiness is the submission gate's
// concern.
func ValidateCapitalFit(capital string, tier CapitalTier) *CapitalAdvisory {
	amount, err := strconv.ParseFloat(strings.TrimSpace(capital), 64)
	if err != nil {
		return nil
	}

	switch {
	case tier == TierMicro && amount > microCapitalCeiling:
		return &CapitalAdvisory{
			Severity: SeverityCritical,
			Message:  "capital too large for MICRO tier",
		}
	case tier == TierRetail && amount > retailCapitalCeiling:
		return &CapitalAdvisory{
			Severity: SeverityWarning,
			Message:  "approaching HIGH_NET, consider upgrading tier",
		}
	case tier == TierInstitutional && amount < institutionalCapitalFloor:
		return &CapitalAdvisory{
			Severity: SeverityInvalid,
			Message:  "INSTITUTIONAL tier requires capital >= 1 billion",
		}
	}
	return nil
}

// ValidateForSubmission is the submission-eligibility predicate. It returns
// a *errors.ValidationError naming the first unmet field, or nil when the
// request may be dispatched. Pure: no I/O, no state.
func (in *StockAnalysisInput) ValidateForSubmission() error {
	required := []struct {
		field string
		value string
	}{
		{"ticker", in.Ticker},
		{"price", in.Price},
		{"capital", in.Capital},
		{"fundamentals.roe", in.Fundamentals.ROE},
		{"fundamentals.der", in.Fundamentals.DER},
		{"fundamentals.pbv", in.Fundamentals.PBV},
		{"fundamentals.per", in.Fundamentals.PER},
		{"fundamentals.npm", in.Fundamentals.NPM},
		{"fundamentals.growth", in.Fundamentals.Growth},
		{"fundamentals.cfo", in.Fundamentals.CFO},
		{"fundamentals.fcf", in.Fundamentals.FCF},
		{"bandarmology.topBrokers", in.Bandarmology.TopBrokers},
		{"bandarmology.avgPrice", in.Bandarmology.AvgPrice},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperrors.NewValidationError(r.field, r.value, "must not be empty")
		}
	}

	if !in.CapitalTier.Valid() {
		return apperrors.NewValidationError("capitalTier", in.CapitalTier, "unknown capital tier")
	}
	if !in.RiskProfile.Valid() {
		return apperrors.NewValidationError("riskProfile", in.RiskProfile, "unknown risk profile")
	}

	if utf8.RuneCountInString(in.RawIntelligence) <= MinIntelligenceLength {
		return apperrors.NewValidationError("rawIntelligenceData", utf8.RuneCountInString(in.RawIntelligence),
			"intelligence text too short, need more than 50 characters")
	}

	return nil
}
