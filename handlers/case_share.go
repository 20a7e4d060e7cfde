package handlers

import (
	"chronolex_app_go/config"
	"chronolex_app_go/db"
	"chronolex_app_go/middleware"
	"chronolex_app_go/models"
	"chronolex_app_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

type shareRequest struct {
	Email      string `json:"email"`
	Permission string `json:"permission"`
}

// ListCaseSharesHandler returns the shares on a case. Owner only.
func ListCaseSharesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	owner, err := services.IsCaseOwner(db.DB, caseID, user.ID)
	if err != nil || !owner {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	var shares []models.CaseShare
	if err := db.DB.Preload("User").Where("case_id = ?", caseID).Find(&shares).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load shares")
	}

	return c.JSON(http.StatusOK, shares)
}

// CreateCaseShareHandler shares a case with another registered user by
// email and notifies them. Owner only; the owner cannot share with
// themselves.
func CreateCaseShareHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	owner, err := services.IsCaseOwner(db.DB, caseID, user.ID)
	if err != nil || !owner {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	var req shareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	email := trimLower(req.Email)
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}
	if req.Permission == "" {
		req.Permission = models.SharePermissionRead
	}
	if !models.IsValidSharePermission(req.Permission) {
		return echo.NewHTTPError(http.StatusBadRequest, "Permission must be read or write")
	}

	var recipient models.User
	if err := db.DB.Where("email = ?", email).First(&recipient).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "No user found with that email")
	}
	if recipient.ID == user.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot share a case with yourself")
	}

	var existing models.CaseShare
	if err := db.DB.Where("case_id = ? AND user_id = ?", caseID, recipient.ID).
		First(&existing).Error; err == nil {
		// Re-sharing updates the permission in place
		existing.Permission = req.Permission
		if err := db.DB.Save(&existing).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update share")
		}
		return c.JSON(http.StatusOK, existing)
	}

	share := models.CaseShare{
		CaseID:     caseID,
		UserID:     recipient.ID,
		Permission: req.Permission,
	}
	if err := db.DB.Create(&share).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create share")
	}

	var caseRecord models.Case
	db.DB.First(&caseRecord, "id = ?", caseID)

	cfg := c.Get("config").(*config.Config)
	services.SendEmailAsync(cfg, services.BuildCaseShareEmail(
		recipient.Email, recipient.Name, user.Name, caseRecord.Name, share.Permission, cfg.AppURL))

	return c.JSON(http.StatusCreated, share)
}

// DeleteCaseShareHandler revokes a share. Owner only.
func DeleteCaseShareHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	owner, err := services.IsCaseOwner(db.DB, caseID, user.ID)
	if err != nil || !owner {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	result := db.DB.Where("id = ? AND case_id = ?", c.Param("shareId"), caseID).
		Delete(&models.CaseShare{})
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete share")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Share not found")
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
