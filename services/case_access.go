package services

import (
	"fmt"

	"chronolex_app_go/models"

	"gorm.io/gorm"
)

// ErrCaseNotFound is returned when a case does not exist or the requesting
// user has no grant on it. The two conditions are deliberately
// indistinguishable so that probing requests cannot confirm case existence.
var ErrCaseNotFound = fmt.Errorf("case not found")

// FindAccessibleCase returns the case when the user owns it or holds a share
// grant on it.
func FindAccessibleCase(db *gorm.DB, caseID, userID string) (*models.Case, error) {
	var caseRecord models.Case

	err := db.Where(
		"id = ? AND (user_id = ? OR id IN (SELECT case_id FROM case_shares WHERE user_id = ?))",
		caseID, userID, userID,
	).First(&caseRecord).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}

	return &caseRecord, nil
}

// FindWritableCase returns the case when the user owns it or holds a write
// share grant on it. Read-only collaborators get the same not-found answer
// as strangers.
func FindWritableCase(db *gorm.DB, caseID, userID string) (*models.Case, error) {
	var caseRecord models.Case

	err := db.Where(
		"id = ? AND (user_id = ? OR id IN (SELECT case_id FROM case_shares WHERE user_id = ? AND permission = ?))",
		caseID, userID, userID, models.SharePermissionWrite,
	).First(&caseRecord).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}

	return &caseRecord, nil
}

// IsCaseOwner reports whether the user is the creating owner of the case
func IsCaseOwner(db *gorm.DB, caseID, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.Case{}).
		Where("id = ? AND user_id = ?", caseID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check case ownership: %w", err)
	}
	return count > 0, nil
}
