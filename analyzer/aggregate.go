package analyzer

import (
	"fmt"
	"math"
	"time"

	"github.com/Mayur7685/SpecterAI/model"
	"github.com/Mayur7685/SpecterAI/niche"
)

const maxRecommendations = 5

// Aggregate folds per-section results into a ComplianceReport: rounded mean
// risk, mean confidence to two decimals, critical issues for sections
// scoring 7 or higher, and the first five distinct suggestions in order.
func Aggregate(title string, results []model.AnalysisResult, profile *niche.Profile) *model.ComplianceReport {
	overallRisk := 5
	overallConfidence := 0.0
	if len(results) > 0 {
		riskSum := 0
		confidenceSum := 0.0
		for _, r := range results {
			riskSum += r.RiskScore
			confidenceSum += r.ConfidenceScore
		}
		overallRisk = int(math.Round(float64(riskSum) / float64(len(results))))
		overallConfidence = math.Round(confidenceSum/float64(len(results))*100) / 100
	}

	criticalIssues := make([]string, 0)
	recommendations := make([]string, 0, maxRecommendations)
	seen := make(map[string]bool)

	for _, r := range results {
		if r.RiskScore >= 7 {
			concern := "Multiple concerns"
			if len(r.Cons) > 0 && r.Cons[0] != "" {
				concern = r.Cons[0]
			}
			criticalIssues = append(criticalIssues, fmt.Sprintf("High risk in %s: %s", r.SectionName, concern))
		}

		for _, suggestion := range r.Suggestions {
			if len(recommendations) >= maxRecommendations {
				break
			}
			if suggestion == "" || seen[suggestion] {
				continue
			}
			seen[suggestion] = true
			recommendations = append(recommendations, suggestion)
		}
	}

	if results == nil {
		results = []model.AnalysisResult{}
	}

	return &model.ComplianceReport{
		DocumentTitle:          title,
		OverallRiskScore:       overallRisk,
		OverallConfidenceScore: overallConfidence,
		Sections:               results,
		CriticalIssues:         criticalIssues,
		Recommendations:        recommendations,
		AnalysisDate:           time.Now().UTC().Format(time.RFC3339),
		Niche: model.NicheInfo{
			ID:          profile.ID,
			Name:        profile.Name,
			Icon:        profile.Icon,
			Regulations: profile.Regulations,
			FocusAreas:  profile.FocusAreas,
		},
		CreatedAt: time.Now(),
	}
}
