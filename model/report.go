package model

import (
	"time"
)

// Section is a contiguous span of a document produced by the splitter,
// either heading-delimited or a fixed-size fallback chunk.
type Section struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// AnalysisResult is the per-section output of the analyzer. Risk score is
// 0-10 (higher means more user-disadvantageous); confidence is 0-1.
type AnalysisResult struct {
	SectionName        string   `json:"sectionName"`
	Summary            string   `json:"summary"`
	Pros               []string `json:"pros"`
	Cons               []string `json:"cons"`
	ProblematicClauses []string `json:"problematicClauses"`
	RiskScore          int      `json:"riskScore"`
	ConfidenceScore    float64  `json:"confidenceScore"`
	Suggestions        []string `json:"suggestions"`
	NicheID            string   `json:"nicheId"`
	Regulations        []string `json:"regulations"`
	FocusAreas         []string `json:"focusAreas"`
	RiskNarrative      string   `json:"riskNarrative"`
}

// NicheInfo is the niche metadata block attached to a report.
type NicheInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Regulations []string `json:"regulations"`
	FocusAreas  []string `json:"focusAreas"`
}

// ComplianceReport is the aggregate analysis of a whole document. It is
// built once per request and returned directly as the response body.
type ComplianceReport struct {
	ID                     string           `json:"id,omitempty"`
	Wallet                 string           `json:"wallet,omitempty"`
	DocumentTitle          string           `json:"documentTitle"`
	OverallRiskScore       int              `json:"overallRiskScore"`
	OverallConfidenceScore float64          `json:"overallConfidenceScore"`
	Sections               []AnalysisResult `json:"sections"`
	CriticalIssues         []string         `json:"criticalIssues"`
	Recommendations        []string         `json:"recommendations"`
	AnalysisDate           string           `json:"analysisDate"`
	Niche                  NicheInfo        `json:"niche"`
	CreatedAt              time.Time        `json:"-"`
}
