package niche

import (
	"strings"
)

// Profile is a named compliance-domain configuration selecting how a
// document is analyzed: prompt template, regulations, focus areas, and
// risk-band narratives. Profiles are defined once at process start and
// never mutated.
type Profile struct {
	ID                string
	Name              string
	Icon              string
	Description       string
	FocusAreas        []string
	Regulations       []string
	Prompt            func(sectionName, sectionContent string) string
	RiskBands         RiskBands
	DefaultConfidence float64
}

// RiskBands holds the narrative attached to a section by risk score:
// low for scores <= 3, medium for <= 6, high above.
type RiskBands struct {
	Low    string
	Medium string
	High   string
}

// DefaultNicheID is the fallback profile for absent or unknown identifiers.
const DefaultNicheID = "general"

var profiles = map[string]*Profile{
	"general": {
		ID:          "general",
		Name:        "General Compliance",
		Icon:        "⚖️",
		Description: "Broad legal compliance analysis across consumer-facing documents.",
		FocusAreas: []string{
			"User rights and protections",
			"Privacy and data usage",
			"Fairness and transparency",
			"Consumer protection",
			"Legal enforceability",
		},
		Regulations: []string{"GDPR", "CCPA", "Consumer Protection"},
		Prompt:      generalPrompt,
		RiskBands: RiskBands{
			Low:    "Low risk — statements align with common consumer protections.",
			Medium: "Moderate risk — clarify obligations or privacy language.",
			High:   "High risk — clauses may be unenforceable or unfair to users.",
		},
		DefaultConfidence: 0.85,
	},
	"fintech": {
		ID:          "fintech",
		Name:        "FinTech & Banking",
		Icon:        "💳",
		Description: "Assess lending, payments, and financial data compliance.",
		FocusAreas: []string{
			"KYC / AML controls",
			"Financial data handling",
			"Fair lending and transparency",
			"Fee disclosures",
			"Consumer finance protections",
		},
		Regulations: []string{"KYC/AML", "GDPR", "Consumer Finance", "FATF"},
		Prompt:      fintechPrompt,
		RiskBands: RiskBands{
			Low:    "Low AML risk — disclosures and controls look sound.",
			Medium: "Moderate AML/Data risk — tighten consent or monitoring.",
			High:   "High enforcement risk — potential AML/GDPR violations detected.",
		},
		DefaultConfidence: 0.85,
	},
	"web3": {
		ID:          "web3",
		Name:        "Web3 & DeFi",
		Icon:        "🪙",
		Description: "Review token terms, staking, and decentralized protocols.",
		FocusAreas: []string{
			"Securities and token disclosures",
			"Smart contract liability",
			"DeFi risk disclaimers",
			"Jurisdictional compliance",
			"Governance transparency",
		},
		Regulations: []string{"MiCA", "SEC Guidance", "Howey Test", "FCA"},
		Prompt:      web3Prompt,
		RiskBands: RiskBands{
			Low:    "Low regulatory exposure — disclosures are transparent.",
			Medium: "Moderate exposure — clarify token economics or risks.",
			High:   "High enforcement risk — potential securities violations.",
		},
		DefaultConfidence: 0.82,
	},
	"healthcare": {
		ID:          "healthcare",
		Name:        "Healthcare & MedTech",
		Icon:        "🧬",
		Description: "Evaluate PHI protection and medical data governance.",
		FocusAreas: []string{
			"HIPAA Privacy & Security",
			"Patient consent",
			"PHI handling",
			"Breach notification",
			"Cross-border data transfers",
		},
		Regulations: []string{"HIPAA", "GDPR", "HITECH"},
		Prompt:      healthcarePrompt,
		RiskBands: RiskBands{
			Low:    "Low PHI risk — safeguards and rights look sufficient.",
			Medium: "Moderate PHI risk — clarify safeguards or patient rights.",
			High:   "High PHI risk — potential HIPAA or GDPR violations.",
		},
		DefaultConfidence: 0.86,
	},
	"saas": {
		ID:          "saas",
		Name:        "SaaS & B2B",
		Icon:        "🛠️",
		Description: "Focus on subscription software, SLAs, and customer rights.",
		FocusAreas: []string{
			"Service level commitments",
			"Billing and renewals",
			"Data portability",
			"IP and licensing",
			"Termination rights",
		},
		Regulations: []string{"GDPR", "Consumer Contract", "Service Level Standards"},
		Prompt:      saasPrompt,
		RiskBands: RiskBands{
			Low:    "Low customer risk — terms are transparent and fair.",
			Medium: "Moderate customer risk — clarify renewal or data rights.",
			High:   "High customer risk — clauses may be one-sided or unclear.",
		},
		DefaultConfidence: 0.84,
	},
}

// ordered list for the public niches endpoint
var order = []string{"general", "fintech", "web3", "healthcare", "saas"}

// Get resolves a niche identifier case-insensitively. An empty or
// unrecognized identifier resolves to the general profile.
func Get(id string) *Profile {
	if id == "" {
		return profiles[DefaultNicheID]
	}
	if p, ok := profiles[strings.ToLower(id)]; ok {
		return p
	}
	return profiles[DefaultNicheID]
}

// All returns the profiles in their display order.
func All() []*Profile {
	result := make([]*Profile, 0, len(order))
	for _, id := range order {
		result = append(result, profiles[id])
	}
	return result
}

// RiskNarrative selects the profile's risk-band text for a score.
func RiskNarrative(p *Profile, riskScore int) string {
	switch {
	case riskScore <= 3:
		return p.RiskBands.Low
	case riskScore <= 6:
		return p.RiskBands.Medium
	default:
		return p.RiskBands.High
	}
}
