package niche

import (
	"strings"
	"testing"
)

func TestGetCaseInsensitive(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		expectedID string
	}{
		{"lowercase", "fintech", "fintech"},
		{"mixed case", "FinTech", "fintech"},
		{"uppercase", "WEB3", "web3"},
		{"empty falls back", "", "general"},
		{"unknown falls back", "unknown", "general"},
		{"healthcare", "Healthcare", "healthcare"},
		{"saas", "saas", "saas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Get(tt.id)
			if p == nil {
				t.Fatal("Expected non-nil profile")
			}
			if p.ID != tt.expectedID {
				t.Errorf("Expected profile %s, got %s", tt.expectedID, p.ID)
			}
		})
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 5 {
		t.Fatalf("Expected 5 profiles, got %d", len(all))
	}
	if all[0].ID != "general" {
		t.Errorf("Expected general first, got %s", all[0].ID)
	}
	for _, p := range all {
		if p.Name == "" || p.Icon == "" {
			t.Errorf("Profile %s missing display fields", p.ID)
		}
		if len(p.FocusAreas) == 0 || len(p.Regulations) == 0 {
			t.Errorf("Profile %s missing focus areas or regulations", p.ID)
		}
		if p.DefaultConfidence <= 0 || p.DefaultConfidence > 1 {
			t.Errorf("Profile %s has invalid default confidence %f", p.ID, p.DefaultConfidence)
		}
	}
}

func TestRiskNarrative(t *testing.T) {
	p := Get("general")

	tests := []struct {
		score    int
		expected string
	}{
		{0, p.RiskBands.Low},
		{2, p.RiskBands.Low},
		{3, p.RiskBands.Low},
		{4, p.RiskBands.Medium},
		{6, p.RiskBands.Medium},
		{7, p.RiskBands.High},
		{8, p.RiskBands.High},
		{10, p.RiskBands.High},
	}

	for _, tt := range tests {
		if got := RiskNarrative(p, tt.score); got != tt.expected {
			t.Errorf("Score %d: expected %q, got %q", tt.score, tt.expected, got)
		}
	}
}

func TestPromptTemplates(t *testing.T) {
	for _, p := range All() {
		prompt := p.Prompt("Data Collection", "We collect everything.")
		if !strings.Contains(prompt, "Data Collection") {
			t.Errorf("Profile %s: prompt missing section name", p.ID)
		}
		if !strings.Contains(prompt, "We collect everything.") {
			t.Errorf("Profile %s: prompt missing section content", p.ID)
		}
		if !strings.Contains(prompt, `"riskScore"`) {
			t.Errorf("Profile %s: prompt missing riskScore schema hint", p.ID)
		}
		if !strings.Contains(prompt, `"confidenceScore"`) {
			t.Errorf("Profile %s: prompt missing confidenceScore schema hint", p.ID)
		}
	}
}
