package schema

import (
	"encoding/json"
	"testing"

	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/models"
)

const validAnalysisJSON = `{
  "ticker": "BBRI",
  "priceInfo": {"currentPrice": "4500", "bandarAvgPrice": "4380", "percentDiff": 2.7, "status": "above bandar cost"},
  "marketCapAnalysis": {"category": "Big Cap", "behavior": "slow mover, institutionally held"},
  "supplyDemand": {"bidStrength": 70, "offerStrength": 40, "verdict": "demand dominant"},
  "prediction": {"direction": "UP", "probability": 65, "reasoning": "accumulation continuing"},
  "stressTest": {"passed": true, "score": 80, "details": "CFO confirms reported profit"},
  "brokerAnalysis": {"classification": "akumulasi", "insight": "foreign desks net buy for 3 weeks"},
  "summary": "constructive setup",
  "bearCase": "dividend trap if rates rise",
  "strategy": {
    "bestTimeframe": "MEDIUM",
    "short":  {"verdict": "wait", "entry": "4400-4450", "tp": "4600", "sl": "4340", "reasoning": "near resistance", "status": "POSSIBLE"},
    "medium": {"verdict": "buy", "entry": "4380-4480", "tp": "4900", "sl": "4280", "reasoning": "flow supports", "status": "RECOMMENDED"},
    "long":   {"verdict": "hold off", "entry": "", "tp": "", "sl": "", "reasoning": "macro unclear", "status": "FORBIDDEN"}
  },
  "fullAnalysis": "Full narrative here."
}`

const validConsistencyJSON = `{
  "ticker": "BBRI",
  "dataPoints": 3,
  "trendVerdict": "IMPROVING",
  "consistencyScore": 78,
  "analysis": "direction calls agree across snapshots",
  "actionItem": "hold and re-check after earnings"
}`

func TestParseAnalysisValid(t *testing.T) {
	result, err := ParseAnalysis(validAnalysisJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Ticker != "BBRI" {
		t.Errorf("ticker = %s", result.Ticker)
	}
	if result.Prediction.Direction != models.DirectionUp {
		t.Errorf("direction = %s", result.Prediction.Direction)
	}
	if result.Strategy.Long.Actionable() {
		t.Error("FORBIDDEN plan reported as actionable")
	}
}

func TestParseAnalysisStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + validAnalysisJSON + "\n```"
	if _, err := ParseAnalysis(fenced); err != nil {
		t.Fatalf("fenced payload rejected: %v", err)
	}

	bare := "```\n" + validAnalysisJSON + "\n```"
	if _, err := ParseAnalysis(bare); err != nil {
		t.Fatalf("bare-fenced payload rejected: %v", err)
	}
}

func TestParseAnalysisMissingKeys(t *testing.T) {
	var full map[string]json.RawMessage
	if err := json.Unmarshal([]byte(validAnalysisJSON), &full); err != nil {
		t.Fatal(err)
	}

	for _, key := range AnalysisContract.RequiredKeys {
		partial := make(map[string]json.RawMessage, len(full))
		for k, v := range full {
			if k != key {
				partial[k] = v
			}
		}
		payload, err := json.Marshal(partial)
		if err != nil {
			t.Fatal(err)
		}

		_, err = ParseAnalysis(string(payload))
		var serr *apperrors.SchemaError
		if !apperrors.As(err, &serr) {
			t.Fatalf("missing %q: expected SchemaError, got %v", key, err)
		}
		if serr.Field != key {
			t.Errorf("missing %q: error names field %q", key, serr.Field)
		}
	}
}

func TestParseAnalysisRejectsOutOfEnum(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m map[string]json.RawMessage)
		wantErr string
	}{
		{
			"bad direction",
			func(m map[string]json.RawMessage) {
				m["prediction"] = json.RawMessage(`{"direction": "MOON", "probability": 50, "reasoning": "x"}`)
			},
			"prediction.direction",
		},
		{
			"bad category",
			func(m map[string]json.RawMessage) {
				m["marketCapAnalysis"] = json.RawMessage(`{"category": "Mega Cap", "behavior": "x"}`)
			},
			"marketCapAnalysis.category",
		},
		{
			"bad timeframe",
			func(m map[string]json.RawMessage) {
				m["strategy"] = json.RawMessage(`{"bestTimeframe": "FOREVER",
					"short":  {"status": "POSSIBLE"},
					"medium": {"status": "POSSIBLE"},
					"long":   {"status": "POSSIBLE"}}`)
			},
			"strategy.bestTimeframe",
		},
		{
			"bad plan status",
			func(m map[string]json.RawMessage) {
				m["strategy"] = json.RawMessage(`{"bestTimeframe": "SHORT",
					"short":  {"status": "MAYBE"},
					"medium": {"status": "POSSIBLE"},
					"long":   {"status": "POSSIBLE"}}`)
			},
			"strategy.short.status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]json.RawMessage
			if err := json.Unmarshal([]byte(validAnalysisJSON), &m); err != nil {
				t.Fatal(err)
			}
			tt.mutate(m)
			payload, _ := json.Marshal(m)

			_, err := ParseAnalysis(string(payload))
			var serr *apperrors.SchemaError
			if !apperrors.As(err, &serr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if serr.Field != tt.wantErr {
				t.Errorf("field = %q, want %q", serr.Field, tt.wantErr)
			}
		})
	}
}

func TestParseAnalysisRejectsOutOfRange(t *testing.T) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(validAnalysisJSON), &m); err != nil {
		t.Fatal(err)
	}
	m["supplyDemand"] = json.RawMessage(`{"bidStrength": 170, "offerStrength": 40, "verdict": "x"}`)
	payload, _ := json.Marshal(m)

	if _, err := ParseAnalysis(string(payload)); err == nil {
		t.Fatal("bidStrength above 100 accepted")
	}
}

func TestParseAnalysisRejectsNonJSON(t *testing.T) {
	for _, raw := range []string{"", "not json", "[1,2,3]", "```json\ngarbage\n```"} {
		if _, err := ParseAnalysis(raw); err == nil {
			t.Errorf("accepted %q", raw)
		}
	}
}

func TestParseConsistency(t *testing.T) {
	result, err := ParseConsistency(validConsistencyJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TrendVerdict != models.TrendImproving {
		t.Errorf("verdict = %s", result.TrendVerdict)
	}
	if result.ConsistencyScore != 78 {
		t.Errorf("score = %d", result.ConsistencyScore)
	}
}

func TestParseConsistencyRejectsBadVerdict(t *testing.T) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(validConsistencyJSON), &m); err != nil {
		t.Fatal(err)
	}
	m["trendVerdict"] = json.RawMessage(`"SIDEWAYS"`)
	payload, _ := json.Marshal(m)

	_, err := ParseConsistency(string(payload))
	var serr *apperrors.SchemaError
	if !apperrors.As(err, &serr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if serr.Field != "trendVerdict" {
		t.Errorf("field = %q", serr.Field)
	}
}

func TestParseConsistencyMissingKeys(t *testing.T) {
	var full map[string]json.RawMessage
	if err := json.Unmarshal([]byte(validConsistencyJSON), &full); err != nil {
		t.Fatal(err)
	}

	for _, key := range ConsistencyContract.RequiredKeys {
		partial := make(map[string]json.RawMessage, len(full))
		for k, v := range full {
			if k != key {
				partial[k] = v
			}
		}
		payload, _ := json.Marshal(partial)

		if _, err := ParseConsistency(string(payload)); err == nil {
			t.Errorf("missing %q accepted", key)
		}
	}
}
