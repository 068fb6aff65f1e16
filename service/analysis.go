package service

import (
	"context"
	"time"

	"github.com/Mayur7685/SpecterAI/analyzer"
	"github.com/Mayur7685/SpecterAI/config"
	"github.com/Mayur7685/SpecterAI/model"
	"github.com/Mayur7685/SpecterAI/niche"
	"github.com/Mayur7685/SpecterAI/pkg/logger"
)

// AnalysisService runs the whole document pipeline for one payer key:
// connect a funded inference session, split, analyze, aggregate.
type AnalysisService struct {
	cfg *config.Config
}

func NewAnalysisService(cfg *config.Config) *AnalysisService {
	return &AnalysisService{cfg: cfg}
}

// AnalyzeDocument analyzes a cleaned document with the given payer key.
// Session setup failures are returned; per-section failures degrade into
// fallback entries inside the report instead.
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, privateKeyHex, document, title string, profile *niche.Profile) (*model.ComplianceReport, error) {
	session, err := Connect(ctx, &s.cfg.ZeroG, privateKeyHex)
	if err != nil {
		return nil, err
	}

	opts := analyzer.Options{
		MaxSections:  s.cfg.Analysis.MaxSections,
		ChunkSize:    s.cfg.Analysis.ChunkSize,
		SectionDelay: time.Duration(s.cfg.Analysis.SectionDelaySeconds) * time.Second,
	}

	report := analyzer.AnalyzeDocument(ctx, session, document, title, profile, opts)
	report.Wallet = session.Wallet().Address()

	if balance, err := session.LedgerBalance(ctx); err == nil {
		logger.Info(ctx, "analysis complete", "sections", len(report.Sections), "remaining_balance", balance)
	}

	return report, nil
}
