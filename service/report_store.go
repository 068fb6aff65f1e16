package service

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/Mayur7685/SpecterAI/config"
	"github.com/Mayur7685/SpecterAI/model"
)

// ReportStore is a bounded in-memory store of recent compliance reports,
// keyed by report ID. Reports are ephemeral: the store exists only so a
// caller can re-fetch a recent analysis, and the oldest entries are
// dropped once the cap is reached.
type ReportStore struct {
	reports    map[string]*model.ComplianceReport
	mu         sync.RWMutex
	maxReports int // 0 = unlimited
}

var (
	globalStore *ReportStore
	storeOnce   sync.Once
)

// InitReportStore initializes the global report store with configuration
func InitReportStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		maxReports := cfg.MaxReports
		if maxReports < 0 {
			maxReports = 0
		}
		globalStore = &ReportStore{
			reports:    make(map[string]*model.ComplianceReport),
			maxReports: maxReports,
		}
		slog.Info("report store initialized", "max_reports", maxReports)
	})
}

// GetReportStore returns the global report store
func GetReportStore() *ReportStore {
	if globalStore == nil {
		globalStore = &ReportStore{
			reports:    make(map[string]*model.ComplianceReport),
			maxReports: 100,
		}
	}
	return globalStore
}

func (s *ReportStore) Save(report *model.ComplianceReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.ID] = report
	s.cleanupIfNeeded()
}

func (s *ReportStore) Get(id string) *model.ComplianceReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reports[id]
}

// GetByWallet returns all stored reports attributed to a wallet address.
func (s *ReportStore) GetByWallet(wallet string) []*model.ComplianceReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.ComplianceReport
	for _, r := range s.reports {
		if r.Wallet == wallet {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *ReportStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
}

// Count returns the number of reports in the store
func (s *ReportStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// cleanupIfNeeded drops the oldest reports once the store exceeds its cap.
// Must be called with lock held.
func (s *ReportStore) cleanupIfNeeded() {
	if s.maxReports <= 0 {
		return
	}
	if len(s.reports) <= s.maxReports {
		return
	}

	reports := make([]*model.ComplianceReport, 0, len(s.reports))
	for _, r := range s.reports {
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.Before(reports[j].CreatedAt)
	})

	removeCount := len(reports) - s.maxReports
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old report",
			"report_id", reports[i].ID,
			"created_at", reports[i].CreatedAt,
		)
		delete(s.reports, reports[i].ID)
	}
}
