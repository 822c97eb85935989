package models

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "saham-workbench/internal/errors"
)

func validInput() StockAnalysisInput {
	return StockAnalysisInput{
		Ticker:      "BBCA",
		Price:       "9500",
		Capital:     "100000000",
		CapitalTier: TierRetail,
		RiskProfile: RiskBalanced,
		Fundamentals: Fundamentals{
			ROE: "21%", DER: "0.2", PBV: "4.5", PER: "22",
			NPM: "35%", Growth: "8%", CFO: "positive", FCF: "positive",
		},
		Bandarmology: Bandarmology{
			OrderBookBid:   "1.2M lots",
			OrderBookAsk:   "0.8M lots",
			AggressiveBid:  "60%",
			AggressiveAsk:  "40%",
			SentimentScore: 72,
			TopBrokers:     "MG, BK accumulating",
			Duration:       "3 weeks",
			AvgPrice:       "9350",
		},
		RawIntelligence: strings.Repeat("institutional accumulation visible on tape ", 3),
	}
}

func TestValidateCapitalFit(t *testing.T) {
	tests := []struct {
		name     string
		capital  string
		tier     CapitalTier
		severity AdvisorySeverity
		none     bool
	}{
		{"micro within ceiling", "150000000", TierMicro, "", true},
		{"micro above ceiling", "150000001", TierMicro, SeverityCritical, false},
		{"retail within ceiling", "600000000", TierRetail, "", true},
		{"retail above ceiling", "2000000000", TierRetail, SeverityWarning, false},
		{"high net never advised", "50000", TierHighNet, "", true},
		{"institutional below floor", "500000000", TierInstitutional, SeverityInvalid, false},
		{"institutional at floor", "1000000000", TierInstitutional, "", true},
		{"unparseable amount", "seratus juta", TierMicro, "", true},
		{"empty amount", "", TierInstitutional, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adv := ValidateCapitalFit(tt.capital, tt.tier)
			if tt.none {
				if adv != nil {
					t.Fatalf("expected no advisory, got %+v", adv)
				}
				return
			}
			if adv == nil {
				t.Fatalf("expected %s advisory, got none", tt.severity)
			}
			if adv.Severity != tt.severity {
				t.Errorf("severity = %s, want %s", adv.Severity, tt.severity)
			}
			if adv.Message == "" {
				t.Error("advisory message is empty")
			}
		})
	}
}

// Feature: capital-fit advisories, first matching rule wins and the check is
// a pure function of (capital, tier).
//
// Property: calling ValidateCapitalFit twice with the same arguments yields
// the same advisory, and an advisory is only ever one of the three defined
// severities.
func TestProperty_CapitalFitPureAndIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	tierGen := gen.OneConstOf(TierMicro, TierRetail, TierHighNet, TierInstitutional)
	amountGen := gen.Int64Range(0, 5_000_000_000)

	properties.Property("same inputs, same advisory", prop.ForAll(
		func(amount int64, tier CapitalTier) bool {
			capital := strconv.FormatInt(amount, 10)
			first := ValidateCapitalFit(capital, tier)
			second := ValidateCapitalFit(capital, tier)

			if (first == nil) != (second == nil) {
				return false
			}
			if first == nil {
				return true
			}
			if first.Severity != second.Severity || first.Message != second.Message {
				return false
			}
			switch first.Severity {
			case SeverityCritical, SeverityWarning, SeverityInvalid:
				return true
			}
			return false
		},
		amountGen, tierGen,
	))

	properties.Property("advisory matches tier boundary", prop.ForAll(
		func(amount int64, tier CapitalTier) bool {
			capital := strconv.FormatInt(amount, 10)
			adv := ValidateCapitalFit(capital, tier)

			switch tier {
			case TierMicro:
				return (adv != nil) == (amount > 150_000_000)
			case TierRetail:
				return (adv != nil) == (amount > 600_000_000)
			case TierInstitutional:
				return (adv != nil) == (amount < 1_000_000_000)
			}
			return adv == nil
		},
		amountGen, tierGen,
	))

	properties.TestingRun(t)
}

func TestValidateForSubmission(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		in := validInput()
		if err := in.ValidateForSubmission(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("each required field is enforced", func(t *testing.T) {
		mutations := map[string]func(*StockAnalysisInput){
			"ticker":                  func(in *StockAnalysisInput) { in.Ticker = "" },
			"price":                   func(in *StockAnalysisInput) { in.Price = "  " },
			"capital":                 func(in *StockAnalysisInput) { in.Capital = "" },
			"fundamentals.roe":        func(in *StockAnalysisInput) { in.Fundamentals.ROE = "" },
			"fundamentals.der":        func(in *StockAnalysisInput) { in.Fundamentals.DER = "" },
			"fundamentals.pbv":        func(in *StockAnalysisInput) { in.Fundamentals.PBV = "" },
			"fundamentals.per":        func(in *StockAnalysisInput) { in.Fundamentals.PER = "" },
			"fundamentals.npm":        func(in *StockAnalysisInput) { in.Fundamentals.NPM = "" },
			"fundamentals.growth":     func(in *StockAnalysisInput) { in.Fundamentals.Growth = "" },
			"fundamentals.cfo":        func(in *StockAnalysisInput) { in.Fundamentals.CFO = "" },
			"fundamentals.fcf":        func(in *StockAnalysisInput) { in.Fundamentals.FCF = "" },
			"bandarmology.topBrokers": func(in *StockAnalysisInput) { in.Bandarmology.TopBrokers = "" },
			"bandarmology.avgPrice":   func(in *StockAnalysisInput) { in.Bandarmology.AvgPrice = "" },
		}

		for field, mutate := range mutations {
			in := validInput()
			mutate(&in)

			err := in.ValidateForSubmission()
			var verr *apperrors.ValidationError
			if !apperrors.As(err, &verr) {
				t.Fatalf("%s: expected ValidationError, got %v", field, err)
			}
			if verr.Field != field {
				t.Errorf("field = %s, want %s", verr.Field, field)
			}
		}
	})

	t.Run("unknown tier rejected", func(t *testing.T) {
		in := validInput()
		in.CapitalTier = "WHALE"
		if err := in.ValidateForSubmission(); err == nil {
			t.Fatal("expected error for unknown tier")
		}
	})

	t.Run("unknown risk profile rejected", func(t *testing.T) {
		in := validInput()
		in.RiskProfile = "YOLO"
		if err := in.ValidateForSubmission(); err == nil {
			t.Fatal("expected error for unknown risk profile")
		}
	})

	t.Run("intelligence length boundary", func(t *testing.T) {
		in := validInput()

		in.RawIntelligence = strings.Repeat("x", MinIntelligenceLength)
		if err := in.ValidateForSubmission(); err == nil {
			t.Errorf("%d chars should be rejected", MinIntelligenceLength)
		}

		in.RawIntelligence = strings.Repeat("x", MinIntelligenceLength+1)
		if err := in.ValidateForSubmission(); err != nil {
			t.Errorf("%d chars should pass: %v", MinIntelligenceLength+1, err)
		}
	})

	t.Run("length counts runes not bytes", func(t *testing.T) {
		in := validInput()
		// 51 multi-byte runes, more than 51 bytes either way.
		in.RawIntelligence = strings.Repeat("é", MinIntelligenceLength+1)
		if err := in.ValidateForSubmission(); err != nil {
			t.Errorf("51 runes should pass: %v", err)
		}
	})
}

func TestNormalize(t *testing.T) {
	in := StockAnalysisInput{Ticker: "  bbca "}
	in.Normalize()
	if in.Ticker != "BBCA" {
		t.Errorf("ticker = %q, want BBCA", in.Ticker)
	}
}
