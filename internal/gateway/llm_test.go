package gateway

import (
	"encoding/json"
	"testing"

	"saham-workbench/internal/compose"
	"saham-workbench/internal/schema"
)

func TestBuildChatRequestKeepsDecodingOnTheWire(t *testing.T) {
	req := CompletionRequest{
		Instruction: "instruction",
		Prompt:      "prompt",
		Decoding:    compose.FixedDecoding,
		Contract:    schema.AnalysisContract,
	}

	body, err := json.Marshal(buildChatRequest("test-model", req))
	if err != nil {
		t.Fatal(err)
	}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatal(err)
	}

	// Zero temperature must survive serialization; go-openai tags the field
	// omitempty, so a plain 0 would drop out of the body entirely and the
	// provider default would silently replace it.
	raw, ok := wire["temperature"]
	if !ok {
		t.Fatalf("temperature missing from request body: %s", body)
	}
	var temperature float64
	if err := json.Unmarshal(raw, &temperature); err != nil {
		t.Fatal(err)
	}
	if temperature < 0 || temperature > 1e-6 {
		t.Errorf("temperature = %v, want effectively zero", temperature)
	}

	if _, ok := wire["top_p"]; !ok {
		t.Error("top_p missing from request body")
	}
	if _, ok := wire["seed"]; !ok {
		t.Error("seed missing from request body")
	}

	var topP float64
	if err := json.Unmarshal(wire["top_p"], &topP); err != nil {
		t.Fatal(err)
	}
	if topP < 0.099 || topP > 0.101 {
		t.Errorf("top_p = %v, want 0.1", topP)
	}
	var seed int
	if err := json.Unmarshal(wire["seed"], &seed); err != nil {
		t.Fatal(err)
	}
	if seed != 42 {
		t.Errorf("seed = %d, want 42", seed)
	}
}

func TestBuildChatRequestPassesNonZeroTemperature(t *testing.T) {
	req := CompletionRequest{
		Decoding: compose.DecodingPolicy{Temperature: 0.7, TopP: 0.9, Seed: 7},
		Contract: schema.AnalysisContract,
	}

	chat := buildChatRequest("test-model", req)
	if chat.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7 untouched", chat.Temperature)
	}
}
