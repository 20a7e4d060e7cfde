package handlers

import (
	"chronolex_app_go/db"
	"chronolex_app_go/middleware"
	"chronolex_app_go/models"
	"chronolex_app_go/services"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type caseRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Context      *string `json:"context"`
	KeyParties   *string `json:"keyParties"`
	Instructions *string `json:"instructions"`
}

// ListCasesHandler returns all cases the user owns or has been granted
// access to via a share, most recently updated first.
func ListCasesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var cases []models.Case
	err := db.DB.
		Where("user_id = ? OR id IN (?)", user.ID,
			db.DB.Model(&models.CaseShare{}).Select("case_id").Where("user_id = ?", user.ID)).
		Order("updated_at DESC").
		Find(&cases).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load cases")
	}

	return c.JSON(http.StatusOK, cases)
}

// CreateCaseHandler creates a new case owned by the current user
func CreateCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req caseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	name := ""
	if req.Name != nil {
		name = services.SanitizeText(*req.Name)
	}
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Case name is required")
	}

	caseRecord := models.Case{
		UserID:       user.ID,
		Name:         name,
		Description:  sanitizedOrEmpty(req.Description),
		Context:      sanitizedOrEmpty(req.Context),
		KeyParties:   sanitizedOrEmpty(req.KeyParties),
		Instructions: sanitizedOrEmpty(req.Instructions),
	}

	if err := db.DB.Create(&caseRecord).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create case")
	}

	return c.JSON(http.StatusCreated, caseRecord)
}

// GetCaseHandler returns a single case with its parties and shares
func GetCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindAccessibleCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	if err := db.DB.Preload("Parties").Preload("Shares.User").
		First(caseRecord, "id = ?", caseRecord.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load case")
	}

	return c.JSON(http.StatusOK, caseRecord)
}

// UpdateCaseHandler applies a partial update: only fields present in the
// request body are changed, everything else keeps its stored value.
func UpdateCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var req caseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil {
		name := services.SanitizeText(*req.Name)
		if name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Case name cannot be empty")
		}
		caseRecord.Name = name
	}
	if req.Description != nil {
		caseRecord.Description = services.SanitizeText(*req.Description)
	}
	if req.Context != nil {
		caseRecord.Context = services.SanitizeText(*req.Context)
	}
	if req.KeyParties != nil {
		caseRecord.KeyParties = services.SanitizeText(*req.KeyParties)
	}
	if req.Instructions != nil {
		caseRecord.Instructions = services.SanitizeText(*req.Instructions)
	}

	if err := db.DB.Save(caseRecord).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update case")
	}

	return c.JSON(http.StatusOK, caseRecord)
}

// DeleteCaseHandler deletes a case. Only the owner may delete; shared
// users get the same not-found response as strangers.
func DeleteCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	owner, err := services.IsCaseOwner(db.DB, caseID, user.ID)
	if err != nil || !owner {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	if err := db.DB.Select("Chronologies", "Entries", "Parties", "Documents", "Shares").
		Delete(&models.Case{ID: caseID}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete case")
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// caseNotFound maps any case-access failure to a 404. Missing cases and
// inaccessible cases are deliberately indistinguishable.
func caseNotFound(err error) error {
	if err == services.ErrCaseNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load case")
}

func sanitizedOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return services.SanitizeText(*value)
}

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
