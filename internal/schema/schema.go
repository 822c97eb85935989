// Package schema declares the structured-output contracts the external
// inference service must satisfy, and enforces them at the boundary. A
// response missing a required key or using an out-of-enum value fails
// validation; nothing is ever coerced.
package schema

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/models"
)

// Contract names a structured-output shape and its mandatory top-level keys.
type Contract struct {
	Name         string
	RequiredKeys []string
	promptSpec   string
}

// PromptSpec returns the JSON shape description sent alongside the request
// so the model produces the expected structure.
func (c Contract) PromptSpec() string {
	return c.promptSpec
}

// AnalysisContract is the full verdict contract.
var AnalysisContract = Contract{
	Name: "analysis",
	RequiredKeys: []string{
		"ticker", "priceInfo", "marketCapAnalysis", "supplyDemand",
		"prediction", "stressTest", "brokerAnalysis", "summary",
		"bearCase", "strategy", "fullAnalysis",
	},
	promptSpec: `Respond with JSON only, exactly this structure:
{
  "ticker": "<string>",
  "priceInfo": {"currentPrice": "<string>", "bandarAvgPrice": "<string>", "percentDiff": <number>, "status": "<string>"},
  "marketCapAnalysis": {"category": "Small Cap | Mid Cap | Big Cap | UNKNOWN", "behavior": "<string>"},
  "supplyDemand": {"bidStrength": <0-100>, "offerStrength": <0-100>, "verdict": "<string>"},
  "prediction": {"direction": "UP | DOWN | CONSOLIDATE | UNKNOWN", "probability": <0-100>, "reasoning": "<string>"},
  "stressTest": {"passed": <bool>, "score": <0-100>, "details": "<string>"},
  "brokerAnalysis": {"classification": "<string>", "insight": "<string>"},
  "summary": "<string>",
  "bearCase": "<string>",
  "strategy": {
    "bestTimeframe": "SHORT | MEDIUM | LONG",
    "short":  {"verdict": "<string>", "entry": "<range>", "tp": "<range>", "sl": "<range>", "reasoning": "<string>", "status": "RECOMMENDED | POSSIBLE | FORBIDDEN"},
    "medium": {"verdict": "<string>", "entry": "<range>", "tp": "<range>", "sl": "<range>", "reasoning": "<string>", "status": "RECOMMENDED | POSSIBLE | FORBIDDEN"},
    "long":   {"verdict": "<string>", "entry": "<range>", "tp": "<range>", "sl": "<range>", "reasoning": "<string>", "status": "RECOMMENDED | POSSIBLE | FORBIDDEN"}
  },
  "fullAnalysis": "<multi-paragraph string>"
}`,
}

// ConsistencyContract is the trend-consistency contract.
var ConsistencyContract = Contract{
	Name: "consistency",
	RequiredKeys: []string{
		"ticker", "dataPoints", "trendVerdict", "consistencyScore",
		"analysis", "actionItem",
	},
	promptSpec: `Respond with JSON only, exactly this structure:
{
  "ticker": "<string>",
  "dataPoints": <int>,
  "trendVerdict": "IMPROVING | STABLE | DEGRADING | VOLATILE",
  "consistencyScore": <0-100>,
  "analysis": "<string>",
  "actionItem": "<string>"
}`,
}

var validate = validator.New()

// extractJSON strips a markdown code fence when the model wraps its JSON in
// one, and trims surrounding whitespace.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// checkRequiredKeys parses the payload as a JSON object and verifies every
// required top-level key is present.
func checkRequiredKeys(c Contract, payload []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return apperrors.NewSchemaError(c.Name, "", "response is not a JSON object", err)
	}
	for _, key := range c.RequiredKeys {
		if _, ok := top[key]; !ok {
			return apperrors.NewSchemaError(c.Name, key, "missing required key", nil)
		}
	}
	return nil
}

// ParseAnalysis validates a raw response against the analysis contract and
// returns the typed result. Identity fields (id, timestamp) are ignored
// here; the gateway overwrites them unconditionally.
func ParseAnalysis(raw string) (*models.AnalysisResult, error) {
	payload := []byte(extractJSON(raw))

	if err := checkRequiredKeys(AnalysisContract, payload); err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperrors.NewSchemaError(AnalysisContract.Name, "", "response does not match contract", err)
	}

	if err := validate.Struct(&result); err != nil {
		return nil, apperrors.NewSchemaError(AnalysisContract.Name, "", "value out of range", err)
	}
	if err := validateAnalysisEnums(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// validateAnalysisEnums rejects any enumerated field outside its allowed set.
func validateAnalysisEnums(r *models.AnalysisResult) error {
	if !r.MarketCapAnalysis.Category.Valid() {
		return apperrors.NewSchemaError(AnalysisContract.Name, "marketCapAnalysis.category",
			"value outside enumerated set: "+string(r.MarketCapAnalysis.Category), nil)
	}
	if !r.Prediction.Direction.Valid() {
		return apperrors.NewSchemaError(AnalysisContract.Name, "prediction.direction",
			"value outside enumerated set: "+string(r.Prediction.Direction), nil)
	}
	if !r.Strategy.BestTimeframe.Valid() {
		return apperrors.NewSchemaError(AnalysisContract.Name, "strategy.bestTimeframe",
			"value outside enumerated set: "+string(r.Strategy.BestTimeframe), nil)
	}
	plans := map[string]models.TradePlan{
		"strategy.short":  r.Strategy.Short,
		"strategy.medium": r.Strategy.Medium,
		"strategy.long":   r.Strategy.Long,
	}
	for field, plan := range plans {
		if !plan.Status.Valid() {
			return apperrors.NewSchemaError(AnalysisContract.Name, field+".status",
				"value outside enumerated set: "+string(plan.Status), nil)
		}
	}
	return nil
}

// ParseConsistency validates a raw response against the consistency contract.
func ParseConsistency(raw string) (*models.ConsistencyResult, error) {
	payload := []byte(extractJSON(raw))

	if err := checkRequiredKeys(ConsistencyContract, payload); err != nil {
		return nil, err
	}

	var result models.ConsistencyResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperrors.NewSchemaError(ConsistencyContract.Name, "", "response does not match contract", err)
	}

	if err := validate.Struct(&result); err != nil {
		return nil, apperrors.NewSchemaError(ConsistencyContract.Name, "", "value out of range", err)
	}
	if !result.TrendVerdict.Valid() {
		return nil, apperrors.NewSchemaError(ConsistencyContract.Name, "trendVerdict",
			"value outside enumerated set: "+string(result.TrendVerdict), nil)
	}

	return &result, nil
}
