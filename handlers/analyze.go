package handlers

import (
	"net/http"

	"chronolex_app_go/config"
	"chronolex_app_go/db"
	"chronolex_app_go/middleware"
	"chronolex_app_go/models"
	"chronolex_app_go/services"

	"github.com/labstack/echo/v4"
)

type analyzeRequest struct {
	DocumentID  string `json:"documentId"`
	Content     string `json:"content"`
	Filename    string `json:"filename"`
	UserContext string `json:"userContext"`
}

// AnalyzeDocumentHandler runs one extraction pass over document text and
// returns candidate chronology entries. Nothing is persisted here: the
// analyst reviews the candidates before any of them become entries.
//
// The document may be referenced by id (content comes from the stored
// extraction) or passed inline as pasted text. The prompt carries the
// case's context fields and a compact summary of the existing chronology
// so the model can avoid duplicating known events.
func AnalyzeDocumentHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	cfg := c.Get("config").(*config.Config)

	caseRecord, err := services.FindAccessibleCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	content := req.Content
	filename := req.Filename
	if req.DocumentID != "" {
		var document models.Document
		if err := db.DB.Where("id = ? AND case_id = ?", req.DocumentID, caseRecord.ID).
			First(&document).Error; err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Document not found")
		}
		content = document.Content
		filename = document.Filename
	}
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No content to analyze")
	}

	if services.Inference == nil || !services.Inference.IsConfigured() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Analysis is not configured")
	}

	existing, err := services.ExistingEntriesForPrompt(db.DB, caseRecord.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load existing entries")
	}

	result, err := services.AnalyzeDocument(c.Request().Context(), &services.AnalysisRequest{
		Content:         content,
		Filename:        filename,
		CaseContext:     caseRecord.Context,
		KeyParties:      caseRecord.KeyParties,
		Instructions:    caseRecord.Instructions,
		UserContext:     req.UserContext,
		ExistingEntries: existing,
	}, cfg.AnthropicMaxTokens)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Analysis failed")
	}

	return c.JSON(http.StatusOK, result)
}
