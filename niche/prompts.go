package niche

import "fmt"

func generalPrompt(sectionName, sectionContent string) string {
	return fmt.Sprintf(`You are a legal and compliance analyst AI specializing in Terms & Conditions analysis.

Analyze the following Terms & Conditions section and provide a structured analysis.

Section: "%s"
Content: "%s"

Provide your analysis in the following JSON format:
{
  "sectionName": "%s",
  "summary": "Brief plain-English explanation of what this section means",
  "pros": ["Positive aspect 1", "Positive aspect 2", "Positive aspect 3"],
  "cons": ["Concerning aspect 1", "Concerning aspect 2", "Concerning aspect 3"],
  "problematicClauses": ["Specific problematic clause or practice"],
  "riskScore": 5,
  "suggestions": ["Improvement suggestion 1", "Improvement suggestion 2"],
  "confidenceScore": 0.85
}

Focus on:
- User rights and protections
- Data privacy compliance (GDPR, CCPA)
- Fairness and transparency
- Legal enforceability
- Consumer protection compliance

Risk Score: 1-10 (1=very safe, 10=high risk for users)`, sectionName, sectionContent, sectionName)
}

func fintechPrompt(sectionName, sectionContent string) string {
	return fmt.Sprintf(`You are a FinTech legal compliance AI specializing in analyzing financial agreements and data policies.

Analyze the following section of a FinTech legal document for compliance with:
- KYC / AML regulations
- GDPR and financial data handling standards
- Consumer protection and fair lending practices

Section: "%s"
Content: "%s"

Provide your analysis in this JSON format:
{
  "sectionName": "%s",
  "summary": "...",
  "pros": [],
  "cons": [],
  "problematicClauses": [],
  "riskScore": 0,
  "suggestions": [],
  "confidenceScore": 0.85
}

Emphasize:
- Transparency of financial terms
- Data sharing and consent
- Risk of regulatory non-compliance
- Clarity for users on fees, rights, and obligations

Risk Score: 1-10 (1=fully compliant, 10=severe risk)`, sectionName, sectionContent, sectionName)
}

func web3Prompt(sectionName, sectionContent string) string {
	return fmt.Sprintf(`You are a Web3 legal analyst specializing in blockchain, DeFi, and token-related agreements.

Analyze the following section for:
- Regulatory compliance (MiCA, SEC, FCA)
- Risks of misleading financial claims
- Smart contract liability disclaimers
- User protection in decentralized environments

Section: "%s"
Content: "%s"

Return JSON with:
{
  "sectionName": "%s",
  "summary": "...",
  "pros": [],
  "cons": [],
  "problematicClauses": [],
  "riskScore": 0,
  "suggestions": [],
  "confidenceScore": 0.85
}

Highlight:
- Securities implications (Howey Test)
- Token economics clarity
- DAO / governance disclosures
- Jurisdictional disclaimers

Risk Score: 1-10 (1=fully compliant, 10=high enforcement exposure)`, sectionName, sectionContent, sectionName)
}

func healthcarePrompt(sectionName, sectionContent string) string {
	return fmt.Sprintf(`You are a Healthcare compliance AI focused on HIPAA, GDPR, and medical data governance.

Analyze the following section for:
- Protected health information (PHI) handling
- Patient consent and data sharing
- Security safeguards and breach notification
- Alignment with HIPAA Privacy & Security Rules

Section: "%s"
Content: "%s"

Return JSON with:
{
  "sectionName": "%s",
  "summary": "...",
  "pros": [],
  "cons": [],
  "problematicClauses": [],
  "riskScore": 0,
  "suggestions": [],
  "confidenceScore": 0.85
}

Emphasize:
- Minimum necessary data usage
- Patient rights (access, amendment, accounting)
- Business Associate responsibilities
- Cross-border data transfer controls

Risk Score: 1-10 (1=low compliance risk, 10=critical compliance failure)`, sectionName, sectionContent, sectionName)
}

func saasPrompt(sectionName, sectionContent string) string {
	return fmt.Sprintf(`You are a SaaS legal compliance AI focusing on subscription software agreements.

Analyze the section for:
- Service level transparency and uptime commitments
- Data portability and deletion rights
- Fair billing, renewal, and termination clauses
- IP ownership and customer responsibilities

Section: "%s"
Content: "%s"

Respond with JSON:
{
  "sectionName": "%s",
  "summary": "...",
  "pros": [],
  "cons": [],
  "problematicClauses": [],
  "riskScore": 0,
  "suggestions": [],
  "confidenceScore": 0.85
}

Focus on:
- Clarity for customers
- Data handling transparency
- Liability limitations and indemnities
- Termination flexibility

Risk Score: 1-10 (1=low customer risk, 10=high customer risk)`, sectionName, sectionContent, sectionName)
}
