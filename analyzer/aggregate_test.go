package analyzer

import (
	"strings"
	"testing"
	"time"

	"github.com/Mayur7685/SpecterAI/model"
	"github.com/Mayur7685/SpecterAI/niche"
)

func TestAggregate(t *testing.T) {
	profile := niche.Get("general")
	results := []model.AnalysisResult{
		{SectionName: "INTRODUCTION", RiskScore: 2, ConfidenceScore: 0.9, Suggestions: []string{"Clarify scope"}},
		{SectionName: "LIABILITY", RiskScore: 8, ConfidenceScore: 0.8, Cons: []string{"Unlimited liability waiver"}, Suggestions: []string{"Cap liability", "Clarify scope"}},
		{SectionName: "TERMINATION", RiskScore: 5, ConfidenceScore: 0.85, Suggestions: []string{"Add notice period"}},
	}

	report := Aggregate("terms.txt", results, profile)

	if report.DocumentTitle != "terms.txt" {
		t.Errorf("Expected title 'terms.txt', got '%s'", report.DocumentTitle)
	}
	// mean of 2,8,5 is 5
	if report.OverallRiskScore != 5 {
		t.Errorf("Expected overall risk 5, got %d", report.OverallRiskScore)
	}
	// mean of 0.9,0.8,0.85 rounded to 2 decimals
	if report.OverallConfidenceScore != 0.85 {
		t.Errorf("Expected overall confidence 0.85, got %v", report.OverallConfidenceScore)
	}

	if len(report.CriticalIssues) != 1 {
		t.Fatalf("Expected 1 critical issue, got %d", len(report.CriticalIssues))
	}
	if report.CriticalIssues[0] != "High risk in LIABILITY: Unlimited liability waiver" {
		t.Errorf("Unexpected critical issue '%s'", report.CriticalIssues[0])
	}

	// deduplicated, in encounter order
	expected := []string{"Clarify scope", "Cap liability", "Add notice period"}
	if len(report.Recommendations) != len(expected) {
		t.Fatalf("Expected %d recommendations, got %d", len(expected), len(report.Recommendations))
	}
	for i, rec := range expected {
		if report.Recommendations[i] != rec {
			t.Errorf("Expected recommendation '%s' at %d, got '%s'", rec, i, report.Recommendations[i])
		}
	}

	if report.Niche.ID != "general" {
		t.Errorf("Expected niche 'general', got '%s'", report.Niche.ID)
	}
	if _, err := time.Parse(time.RFC3339, report.AnalysisDate); err != nil {
		t.Errorf("Expected RFC3339 analysis date, got '%s'", report.AnalysisDate)
	}
}

func TestAggregateCriticalIssueWithoutCons(t *testing.T) {
	results := []model.AnalysisResult{
		{SectionName: "PAYMENT", RiskScore: 9, ConfidenceScore: 0.7},
	}

	report := Aggregate("doc", results, niche.Get("general"))

	if len(report.CriticalIssues) != 1 {
		t.Fatalf("Expected 1 critical issue, got %d", len(report.CriticalIssues))
	}
	if !strings.Contains(report.CriticalIssues[0], "Multiple concerns") {
		t.Errorf("Expected generic concern text, got '%s'", report.CriticalIssues[0])
	}
}

func TestAggregateRecommendationCap(t *testing.T) {
	results := []model.AnalysisResult{
		{SectionName: "A", RiskScore: 3, Suggestions: []string{"s1", "s2", "s3"}},
		{SectionName: "B", RiskScore: 3, Suggestions: []string{"s4", "s5", "s6", "s7"}},
	}

	report := Aggregate("doc", results, niche.Get("general"))

	if len(report.Recommendations) != 5 {
		t.Fatalf("Expected 5 recommendations, got %d", len(report.Recommendations))
	}
	if report.Recommendations[4] != "s5" {
		t.Errorf("Expected 's5' last, got '%s'", report.Recommendations[4])
	}
}

func TestAggregateNoResults(t *testing.T) {
	report := Aggregate("empty.txt", nil, niche.Get("fintech"))

	if report.OverallRiskScore != 5 {
		t.Errorf("Expected default risk 5, got %d", report.OverallRiskScore)
	}
	if report.OverallConfidenceScore != 0 {
		t.Errorf("Expected default confidence 0, got %v", report.OverallConfidenceScore)
	}
	if report.Sections == nil || report.CriticalIssues == nil || report.Recommendations == nil {
		t.Error("Expected non-nil slices in the report")
	}
	if report.Niche.ID != "fintech" {
		t.Errorf("Expected niche 'fintech', got '%s'", report.Niche.ID)
	}
}
