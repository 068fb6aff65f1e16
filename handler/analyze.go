package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mayur7685/SpecterAI/config"
	"github.com/Mayur7685/SpecterAI/middleware"
	"github.com/Mayur7685/SpecterAI/model"
	"github.com/Mayur7685/SpecterAI/niche"
	"github.com/Mayur7685/SpecterAI/pkg/logger"
	"github.com/Mayur7685/SpecterAI/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisRunner runs the full document pipeline for one payer key.
// Satisfied by service.AnalysisService; a stub stands in during tests.
type AnalysisRunner interface {
	AnalyzeDocument(ctx context.Context, privateKeyHex, document, title string, profile *niche.Profile) (*model.ComplianceReport, error)
}

type AnalyzeHandler struct {
	config  *config.Config
	runner  AnalysisRunner
	archive *service.ArchiveService
	store   *service.ReportStore
}

// NewAnalyzeHandler wires the analysis pipeline into the HTTP layer.
// archive may be nil when the document archive is disabled.
func NewAnalyzeHandler(cfg *config.Config, runner AnalysisRunner, archive *service.ArchiveService) *AnalyzeHandler {
	return &AnalyzeHandler{
		config:  cfg,
		runner:  runner,
		archive: archive,
		store:   service.GetReportStore(),
	}
}

type nicheResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Regulations []string `json:"regulations"`
	FocusAreas  []string `json:"focusAreas"`
}

// Niches returns the available compliance profiles
func (h *AnalyzeHandler) Niches(c *gin.Context) {
	profiles := niche.All()
	result := make([]nicheResponse, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, nicheResponse{
			ID:          p.ID,
			Name:        p.Name,
			Icon:        p.Icon,
			Description: p.Description,
			Regulations: p.Regulations,
			FocusAreas:  p.FocusAreas,
		})
	}
	c.JSON(http.StatusOK, gin.H{"niches": result})
}

// Analyze handles a multipart document upload funded by the operator wallet.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	maxBytes := int64(h.config.Analysis.MaxUploadMB) << 20
	if header.Size > maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 10MB."})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".txt" && ext != ".md" && ext != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type: please upload TXT, PDF, or MD files"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	text, err := service.ExtractText(c.Request.Context(), header.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	document := service.CleanDocument(text)
	if len(document) < h.config.Analysis.MinDocumentChars {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document content is too short for meaningful analysis"})
		return
	}

	operatorKey := h.config.OperatorKey()
	if operatorKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error: analysis service is not configured"})
		return
	}

	profile := niche.Get(c.PostForm("nicheId"))

	report, err := h.runner.AnalyzeDocument(c.Request.Context(), operatorKey, document, header.Filename, profile)
	if err != nil {
		logger.Error(c.Request.Context(), "document analysis failed", "file", header.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze document. Please try again."})
		return
	}

	report.ID = uuid.New().String()
	report.CreatedAt = time.Now()
	h.store.Save(report)

	h.archiveDocument(c.Request.Context(), report, header.Filename, data)

	c.JSON(http.StatusOK, report)
}

type walletAnalyzeRequest struct {
	PrivateKey   string `json:"privateKey" binding:"required"`
	DocumentText string `json:"documentText" binding:"required"`
	FileName     string `json:"fileName"`
	NicheID      string `json:"nicheId"`
}

// AnalyzeWithWallet analyzes pre-extracted document text, funded by a
// caller-supplied private key.
func (h *AnalyzeHandler) AnalyzeWithWallet(c *gin.Context) {
	var req walletAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Private key and document text are required"})
		return
	}

	// Pre-extracted text is split as-is: collapsing whitespace here would
	// erase the line structure the heading splitter keys on.
	document := strings.TrimSpace(req.DocumentText)
	if len(document) < h.config.Analysis.MinDocumentChars {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document content is too short for meaningful analysis"})
		return
	}

	title := req.FileName
	if title == "" {
		title = "Untitled Document"
	}
	profile := niche.Get(req.NicheID)

	report, err := h.runner.AnalyzeDocument(c.Request.Context(), req.PrivateKey, document, title, profile)
	if err != nil {
		logger.Error(c.Request.Context(), "wallet analysis failed", "file", title, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze document. Please try again."})
		return
	}

	report.ID = uuid.New().String()
	report.CreatedAt = time.Now()
	h.store.Save(report)

	c.JSON(http.StatusOK, report)
}

type signatureAnalyzeRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	DocumentText  string `json:"documentText" binding:"required"`
	FileName      string `json:"fileName"`
	NicheID       string `json:"nicheId"`
}

// AnalyzeWithSignature analyzes pre-extracted document text funded by the
// operator wallet. The caller's wallet address is recorded on the report
// for attribution only; it never signs or pays for anything.
func (h *AnalyzeHandler) AnalyzeWithSignature(c *gin.Context) {
	var req signatureAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet address and document text are required"})
		return
	}

	operatorKey := h.config.OperatorKey()
	if operatorKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error: analysis service is not configured"})
		return
	}

	document := strings.TrimSpace(req.DocumentText)
	if len(document) < h.config.Analysis.MinDocumentChars {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document content is too short for meaningful analysis"})
		return
	}

	title := req.FileName
	if title == "" {
		title = "Untitled Document"
	}
	profile := niche.Get(req.NicheID)

	report, err := h.runner.AnalyzeDocument(c.Request.Context(), operatorKey, document, title, profile)
	if err != nil {
		logger.Error(c.Request.Context(), "signature analysis failed", "file", title, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze document. Please try again."})
		return
	}

	report.ID = uuid.New().String()
	report.Wallet = req.WalletAddress
	report.CreatedAt = time.Now()
	h.store.Save(report)

	c.JSON(http.StatusOK, report)
}

// ExtractTextContent extracts plain text from an uploaded PDF without
// running an analysis.
func (h *AnalyzeHandler) ExtractTextContent(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are supported"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	text, err := service.ExtractPDFText(c.Request.Context(), header.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// ListReports returns the authenticated user's stored reports, newest first.
func (h *AnalyzeHandler) ListReports(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	reports := h.store.GetByWallet(wallet)
	if reports == nil {
		reports = []*model.ComplianceReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// GetReport returns a single stored report owned by the authenticated user.
func (h *AnalyzeHandler) GetReport(c *gin.Context) {
	report := h.store.Get(c.Param("id"))
	if report == nil || report.Wallet != middleware.GetWallet(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// DeleteReport removes a stored report owned by the authenticated user.
func (h *AnalyzeHandler) DeleteReport(c *gin.Context) {
	report := h.store.Get(c.Param("id"))
	if report == nil || report.Wallet != middleware.GetWallet(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	h.store.Delete(report.ID)
	c.JSON(http.StatusOK, gin.H{"deleted": report.ID})
}

// archiveDocument stores the source document when the archive is enabled.
// Archive failures are logged and never fail the analysis request.
func (h *AnalyzeHandler) archiveDocument(ctx context.Context, report *model.ComplianceReport, filename string, data []byte) {
	if h.archive == nil {
		return
	}
	objectName := h.archive.ObjectName(report.Wallet, report.ID, filename)
	err := h.archive.StoreDocument(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentTypeFor(filename))
	if err != nil {
		logger.Warn(ctx, "failed to archive document", "object", objectName, "error", err)
	}
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".md":
		return "text/markdown"
	default:
		return "text/plain"
	}
}
