package analyzer

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Mayur7685/SpecterAI/model"
	"github.com/Mayur7685/SpecterAI/niche"
	"github.com/Mayur7685/SpecterAI/pkg/logger"
)

// ChatClient is the opaque inference capability: send a prompt, get the
// model's raw text reply. The broker-backed implementation lives in the
// service package; tests substitute their own.
type ChatClient interface {
	ChatComplete(ctx context.Context, prompt string) (string, error)
}

// Options bounds a document analysis run.
type Options struct {
	MaxSections  int
	ChunkSize    int
	SectionDelay time.Duration
}

// DefaultOptions matches the original deployment: 10 sections, 1000-char
// chunks, 1 second between inference calls.
func DefaultOptions() Options {
	return Options{
		MaxSections:  DefaultMaxSections,
		ChunkSize:    DefaultChunkSize,
		SectionDelay: time.Second,
	}
}

// AnalyzeDocument runs the full pipeline: split, analyze each section
// sequentially with a pacing delay between calls, aggregate. Section-level
// failures degrade into fallback results and never abort the run.
func AnalyzeDocument(ctx context.Context, client ChatClient, document, title string, profile *niche.Profile, opts Options) *model.ComplianceReport {
	sections := SplitIntoSections(document, opts.MaxSections, opts.ChunkSize)

	delay := opts.SectionDelay
	if delay <= 0 {
		delay = time.Second
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	results := make([]model.AnalysisResult, 0, len(sections))
	for _, section := range sections {
		// Pacing only, to avoid overloading the upstream network. The
		// first wait is free; an interrupted wait is not fatal.
		if err := limiter.Wait(ctx); err != nil {
			logger.Warn(ctx, "section pacing interrupted", "error", err)
		}

		result := AnalyzeSection(ctx, client, section.Name, section.Content, profile)
		results = append(results, result)

		logger.Info(ctx, "section analyzed",
			"section", section.Name,
			"risk_score", result.RiskScore,
			"confidence", result.ConfidenceScore,
		)
	}

	return Aggregate(title, results, profile)
}

// AnalyzeSection analyzes one section and never fails: every error path
// returns a degraded but well-formed result. The three terminal states are
// a parsed model reply, the parse fallback, and the error fallback.
func AnalyzeSection(ctx context.Context, client ChatClient, sectionName, sectionContent string, profile *niche.Profile) model.AnalysisResult {
	prompt := profile.Prompt(sectionName, sectionContent)

	reply, err := client.ChatComplete(ctx, prompt)
	if err != nil || reply == "" {
		logger.Error(ctx, "section analysis failed", "section", sectionName, "error", err)
		return errorFallback(sectionName, profile)
	}

	raw, ok := extractJSON(reply)
	if !ok {
		return parseFallback(sectionName, reply, profile)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return parseFallback(sectionName, reply, profile)
	}

	return resultFromFields(sectionName, fields, profile)
}

// resultFromFields builds an AnalysisResult from the parsed model output,
// defaulting every missing or malformed field.
func resultFromFields(sectionName string, fields map[string]any, profile *niche.Profile) model.AnalysisResult {
	risk := 5
	if v, ok := fields["riskScore"].(float64); ok {
		risk = int(math.Round(v))
	}

	confidence := profile.DefaultConfidence
	if v, ok := fields["confidenceScore"].(float64); ok {
		confidence = v
	}

	name := sectionName
	if v, ok := fields["sectionName"].(string); ok && v != "" {
		name = v
	}

	summary := ""
	if v, ok := fields["summary"].(string); ok {
		summary = v
	}

	return model.AnalysisResult{
		SectionName:        name,
		Summary:            summary,
		Pros:               stringSlice(fields["pros"]),
		Cons:               stringSlice(fields["cons"]),
		ProblematicClauses: stringSlice(fields["problematicClauses"]),
		RiskScore:          risk,
		ConfidenceScore:    confidence,
		Suggestions:        stringSlice(fields["suggestions"]),
		NicheID:            profile.ID,
		Regulations:        profile.Regulations,
		FocusAreas:         profile.FocusAreas,
		RiskNarrative:      niche.RiskNarrative(profile, risk),
	}
}

// parseFallback is returned when the reply carries no parseable JSON.
func parseFallback(sectionName, reply string, profile *niche.Profile) model.AnalysisResult {
	summary := truncateRunes(reply, 200)

	return model.AnalysisResult{
		SectionName:        sectionName,
		Summary:            summary + "...",
		Pros:               []string{"Analysis completed"},
		Cons:               []string{"Unable to parse structured response"},
		ProblematicClauses: []string{},
		RiskScore:          5,
		ConfidenceScore:    0.5,
		Suggestions:        []string{"Review section manually"},
		NicheID:            profile.ID,
		Regulations:        profile.Regulations,
		FocusAreas:         profile.FocusAreas,
		RiskNarrative:      niche.RiskNarrative(profile, 5),
	}
}

// errorFallback is returned when the inference call itself fails.
func errorFallback(sectionName string, profile *niche.Profile) model.AnalysisResult {
	return model.AnalysisResult{
		SectionName:        sectionName,
		Summary:            "Analysis failed",
		Pros:               []string{},
		Cons:               []string{"Analysis could not be completed"},
		ProblematicClauses: []string{},
		RiskScore:          5,
		ConfidenceScore:    0,
		Suggestions:        []string{"Retry analysis"},
		NicheID:            profile.ID,
		Regulations:        profile.Regulations,
		FocusAreas:         profile.FocusAreas,
		RiskNarrative:      niche.RiskNarrative(profile, 5),
	}
}

// extractJSON returns the first balanced {...} object in s. Model replies
// wrap the JSON in prose more often than not, so this scans rather than
// trusting the whole reply.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
