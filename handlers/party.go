package handlers

import (
	"chronolex_app_go/db"
	"chronolex_app_go/middleware"
	"chronolex_app_go/models"
	"chronolex_app_go/services"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

type partyRequest struct {
	Name        *string `json:"name"`
	Role        *string `json:"role"`
	Description *string `json:"description"`
}

// ListPartiesHandler returns a case's parties ordered by role (controlled
// vocabulary order), then name.
func ListPartiesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindAccessibleCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var parties []models.Party
	if err := db.DB.Where("case_id = ?", caseRecord.ID).Find(&parties).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load parties")
	}

	sort.SliceStable(parties, func(i, j int) bool {
		if parties[i].RoleSortIndex() != parties[j].RoleSortIndex() {
			return parties[i].RoleSortIndex() < parties[j].RoleSortIndex()
		}
		return parties[i].Name < parties[j].Name
	})

	return c.JSON(http.StatusOK, parties)
}

// CreatePartyHandler adds a structured party to a case
func CreatePartyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var req partyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	name := sanitizedOrEmpty(req.Name)
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Party name is required")
	}
	role := ""
	if req.Role != nil {
		role = *req.Role
	}
	if !models.IsValidPartyRole(role) {
		return echo.NewHTTPError(http.StatusBadRequest, "Role is not a recognized party role")
	}

	party := models.Party{
		CaseID:      caseRecord.ID,
		Name:        name,
		Role:        role,
		Description: sanitizedOrEmpty(req.Description),
	}
	if err := db.DB.Create(&party).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create party")
	}

	return c.JSON(http.StatusCreated, party)
}

// UpdatePartyHandler applies a partial update to a party
func UpdatePartyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var party models.Party
	if err := db.DB.Where("id = ? AND case_id = ?", c.Param("partyId"), caseRecord.ID).
		First(&party).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Party not found")
	}

	var req partyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil {
		name := services.SanitizeText(*req.Name)
		if name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Party name cannot be empty")
		}
		party.Name = name
	}
	if req.Role != nil {
		if !models.IsValidPartyRole(*req.Role) {
			return echo.NewHTTPError(http.StatusBadRequest, "Role is not a recognized party role")
		}
		party.Role = *req.Role
	}
	if req.Description != nil {
		party.Description = services.SanitizeText(*req.Description)
	}

	if err := db.DB.Save(&party).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update party")
	}

	return c.JSON(http.StatusOK, party)
}

// DeletePartyHandler removes a party from a case
func DeletePartyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	result := db.DB.Where("id = ? AND case_id = ?", c.Param("partyId"), caseRecord.ID).
		Delete(&models.Party{})
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete party")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Party not found")
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
