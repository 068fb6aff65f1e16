package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Mayur7685/SpecterAI/niche"
)

type stubChat struct {
	reply string
	err   error
	calls int
}

func (s *stubChat) ChatComplete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.reply, s.err
}

const validReply = `Here is my analysis:
{
  "sectionName": "Data Collection",
  "summary": "The service collects broad user data.",
  "pros": ["Clear disclosure"],
  "cons": ["Collects location history", "No opt-out"],
  "problematicClauses": ["Perpetual data retention"],
  "riskScore": 8,
  "suggestions": ["Add an opt-out", "Limit retention"],
  "confidenceScore": 0.9
}
Let me know if you need more detail.`

func TestAnalyzeSectionParsed(t *testing.T) {
	profile := niche.Get("general")
	client := &stubChat{reply: validReply}

	result := AnalyzeSection(context.Background(), client, "Data Collection", "content", profile)

	if result.RiskScore != 8 {
		t.Errorf("Expected risk score 8, got %d", result.RiskScore)
	}
	if result.ConfidenceScore != 0.9 {
		t.Errorf("Expected confidence 0.9, got %f", result.ConfidenceScore)
	}
	if result.Summary != "The service collects broad user data." {
		t.Errorf("Unexpected summary: %q", result.Summary)
	}
	if len(result.Cons) != 2 {
		t.Errorf("Expected 2 cons, got %d", len(result.Cons))
	}
	if result.NicheID != "general" {
		t.Errorf("Expected niche metadata attached, got %q", result.NicheID)
	}
	if result.RiskNarrative != profile.RiskBands.High {
		t.Errorf("Expected high-band narrative for score 8, got %q", result.RiskNarrative)
	}
}

func TestAnalyzeSectionLowRiskNarrative(t *testing.T) {
	profile := niche.Get("fintech")
	client := &stubChat{reply: `{"riskScore": 2, "summary": "Benign section."}`}

	result := AnalyzeSection(context.Background(), client, "Fees", "content", profile)

	if result.RiskScore != 2 {
		t.Errorf("Expected risk score 2, got %d", result.RiskScore)
	}
	if result.RiskNarrative != profile.RiskBands.Low {
		t.Errorf("Expected low-band narrative for score 2, got %q", result.RiskNarrative)
	}
	// Missing confidence falls back to the profile default.
	if result.ConfidenceScore != profile.DefaultConfidence {
		t.Errorf("Expected default confidence %f, got %f", profile.DefaultConfidence, result.ConfidenceScore)
	}
}

func TestAnalyzeSectionMalformedFields(t *testing.T) {
	profile := niche.Get("general")
	client := &stubChat{reply: `{"pros": "not-an-array", "riskScore": "high", "suggestions": [1, 2, "keep me"]}`}

	result := AnalyzeSection(context.Background(), client, "Terms", "content", profile)

	if len(result.Pros) != 0 {
		t.Errorf("Expected non-array pros to default empty, got %v", result.Pros)
	}
	if result.RiskScore != 5 {
		t.Errorf("Expected non-number risk to default to 5, got %d", result.RiskScore)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "keep me" {
		t.Errorf("Expected non-string entries filtered, got %v", result.Suggestions)
	}
}

func TestAnalyzeSectionParseFallback(t *testing.T) {
	profile := niche.Get("general")
	longReply := "The section seems fine to me but I will not produce any structured output today. " + strings.Repeat("More prose. ", 30)
	client := &stubChat{reply: longReply}

	result := AnalyzeSection(context.Background(), client, "Terms", "content", profile)

	if result.RiskScore != 5 {
		t.Errorf("Expected fallback risk 5, got %d", result.RiskScore)
	}
	if result.ConfidenceScore != 0.5 {
		t.Errorf("Expected fallback confidence 0.5, got %f", result.ConfidenceScore)
	}
	if len(result.Cons) != 1 || result.Cons[0] != "Unable to parse structured response" {
		t.Errorf("Expected parse-fallback cons, got %v", result.Cons)
	}
	if !strings.HasSuffix(result.Summary, "...") {
		t.Errorf("Expected truncated summary, got %q", result.Summary)
	}
	if len(result.Summary) > 210 {
		t.Errorf("Expected summary capped near 200 chars, got %d", len(result.Summary))
	}
}

func TestAnalyzeSectionParseFallbackMultiByteSummary(t *testing.T) {
	profile := niche.Get("general")
	client := &stubChat{reply: strings.Repeat("é", 250)}

	result := AnalyzeSection(context.Background(), client, "Terms", "content", profile)

	if !utf8.ValidString(result.Summary) {
		t.Errorf("Expected valid UTF-8 summary, got %q", result.Summary)
	}
	if got := utf8.RuneCountInString(result.Summary); got != 203 {
		t.Errorf("Expected 200 runes plus ellipsis, got %d", got)
	}
}

func TestAnalyzeSectionErrorFallback(t *testing.T) {
	profile := niche.Get("general")
	client := &stubChat{err: errors.New("network down")}

	result := AnalyzeSection(context.Background(), client, "Terms", "content", profile)

	if result.Summary != "Analysis failed" {
		t.Errorf("Expected error-fallback summary, got %q", result.Summary)
	}
	if result.RiskScore != 5 || result.ConfidenceScore != 0 {
		t.Errorf("Expected risk 5 / confidence 0, got %d / %f", result.RiskScore, result.ConfidenceScore)
	}
	if len(result.Cons) != 1 || result.Cons[0] != "Analysis could not be completed" {
		t.Errorf("Expected error-fallback cons, got %v", result.Cons)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "Retry analysis" {
		t.Errorf("Expected retry suggestion, got %v", result.Suggestions)
	}
}

func TestAnalyzeSectionEmptyReply(t *testing.T) {
	profile := niche.Get("general")
	client := &stubChat{reply: ""}

	result := AnalyzeSection(context.Background(), client, "Terms", "content", profile)
	if result.Summary != "Analysis failed" {
		t.Errorf("Expected empty reply treated as failure, got %q", result.Summary)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"wrapped in prose", `sure! {"a": 1} done`, `{"a": 1}`, true},
		{"nested objects", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`, true},
		{"braces inside strings", `{"a": "close } brace"}`, `{"a": "close } brace"}`, true},
		{"escaped quotes", `{"a": "he said \"}\" loudly"}`, `{"a": "he said \"}\" loudly"}`, true},
		{"no object", "just text", "", false},
		{"unbalanced", `{"a": 1`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSON(tt.input)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAnalyzeDocument(t *testing.T) {
	profile := niche.Get("general")
	client := &stubChat{reply: `{"riskScore": 4, "summary": "ok", "confidenceScore": 0.8}`}

	doc := `FIRST MAJOR SECTION HEADING
The first section body is long enough to be treated as a real section here.
SECOND MAJOR SECTION HEADING
The second section body is also long enough to be treated as a real section.`

	opts := Options{MaxSections: 10, ChunkSize: 1000, SectionDelay: time.Millisecond}
	report := AnalyzeDocument(context.Background(), client, doc, "terms.txt", profile, opts)

	if len(report.Sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(report.Sections))
	}
	if client.calls != 2 {
		t.Errorf("Expected 2 inference calls, got %d", client.calls)
	}
	if report.DocumentTitle != "terms.txt" {
		t.Errorf("Expected title terms.txt, got %q", report.DocumentTitle)
	}
	if report.OverallRiskScore != 4 {
		t.Errorf("Expected overall risk 4, got %d", report.OverallRiskScore)
	}
	if report.Niche.ID != "general" {
		t.Errorf("Expected niche general, got %q", report.Niche.ID)
	}
}

func TestAnalyzeDocumentDegradedSectionsDoNotAbort(t *testing.T) {
	profile := niche.Get("general")
	client := &stubChat{err: errors.New("provider unreachable")}

	doc := `FIRST MAJOR SECTION HEADING
The first section body is long enough to be treated as a real section here.
SECOND MAJOR SECTION HEADING
The second section body is also long enough to be treated as a real section.`

	opts := Options{MaxSections: 10, ChunkSize: 1000, SectionDelay: time.Millisecond}
	report := AnalyzeDocument(context.Background(), client, doc, "terms.txt", profile, opts)

	if len(report.Sections) != 2 {
		t.Fatalf("Expected every section present despite failures, got %d", len(report.Sections))
	}
	for _, s := range report.Sections {
		if s.Summary != "Analysis failed" {
			t.Errorf("Expected degraded section, got %q", s.Summary)
		}
	}
}
