package handlers

import (
	"chronolex_app_go/db"
	"chronolex_app_go/middleware"
	"chronolex_app_go/models"
	"chronolex_app_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

type chronologyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
}

// ListChronologiesHandler returns all chronologies for a case, default
// first, then oldest first.
func ListChronologiesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindAccessibleCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var chronologies []models.Chronology
	if err := db.DB.Where("case_id = ?", caseRecord.ID).
		Order("is_default DESC, created_at ASC").
		Find(&chronologies).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load chronologies")
	}

	return c.JSON(http.StatusOK, chronologies)
}

// CreateChronologyHandler creates a chronology in a case. The first
// chronology in a case automatically becomes the default.
func CreateChronologyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var req chronologyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	name := sanitizedOrEmpty(req.Name)
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Chronology name is required")
	}

	chronology, err := services.CreateChronology(db.DB, caseRecord.ID, user.ID,
		name, sanitizedOrEmpty(req.Description), sanitizedOrEmpty(req.Type))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create chronology")
	}

	return c.JSON(http.StatusCreated, chronology)
}

// UpdateChronologyHandler updates a chronology's name, description or type
func UpdateChronologyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var chronology models.Chronology
	if err := db.DB.Where("id = ? AND case_id = ?", c.Param("chronologyId"), caseRecord.ID).
		First(&chronology).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Chronology not found")
	}

	var req chronologyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil {
		name := services.SanitizeText(*req.Name)
		if name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Chronology name cannot be empty")
		}
		chronology.Name = name
	}
	if req.Description != nil {
		chronology.Description = services.SanitizeText(*req.Description)
	}
	if req.Type != nil {
		chronology.Type = services.SanitizeText(*req.Type)
	}

	if err := db.DB.Save(&chronology).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update chronology")
	}

	return c.JSON(http.StatusOK, chronology)
}

// SetDefaultChronologyHandler makes a chronology the case default.
// Exactly one chronology per case is default afterwards.
func SetDefaultChronologyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var chronology models.Chronology
	if err := db.DB.Where("id = ? AND case_id = ?", c.Param("chronologyId"), caseRecord.ID).
		First(&chronology).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Chronology not found")
	}

	updated, err := services.SetDefaultChronology(db.DB, chronology.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to set default chronology")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteChronologyHandler deletes a non-default chronology. Its entries
// are kept and unassigned rather than deleted.
func DeleteChronologyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var chronology models.Chronology
	if err := db.DB.Where("id = ? AND case_id = ?", c.Param("chronologyId"), caseRecord.ID).
		First(&chronology).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Chronology not found")
	}

	if err := services.DeleteChronology(db.DB, chronology.ID); err != nil {
		if err == services.ErrDefaultChronologyDelete {
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot delete the default chronology")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete chronology")
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
