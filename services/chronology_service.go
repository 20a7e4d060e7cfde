package services

import (
	"fmt"

	"chronolex_app_go/models"

	"gorm.io/gorm"
)

// ErrDefaultChronologyDelete is returned when deletion of a case's default
// chronology is attempted
var ErrDefaultChronologyDelete = fmt.Errorf("cannot delete the default chronology")

// entrySortAsc is the canonical presentation order: date, then clock time
// within the day, then creation order. The order is derived at read time,
// never stored as a rank, so date/time edits reorder automatically.
const (
	entrySortAsc  = "date ASC, time ASC, created_at ASC"
	entrySortDesc = "date DESC, time DESC, created_at DESC"
)

// CreateChronology creates a new chronology for a case. The first chronology
// of a case automatically becomes the default. The count-and-create runs in
// one transaction so two concurrent first creations cannot both claim the
// default flag.
func CreateChronology(db *gorm.DB, caseID, userID, name, description, chronologyType string) (*models.Chronology, error) {
	if name == "" {
		return nil, fmt.Errorf("chronology name is required")
	}

	chronology := &models.Chronology{
		CaseID:      caseID,
		UserID:      userID,
		Name:        name,
		Description: description,
		Type:        chronologyType,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Chronology{}).Where("case_id = ?", caseID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count chronologies: %w", err)
		}

		chronology.IsDefault = count == 0

		if err := tx.Create(chronology).Error; err != nil {
			return fmt.Errorf("failed to create chronology: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return chronology, nil
}

// DeleteChronology removes a chronology. The default chronology cannot be
// deleted. Entries belonging to the deleted chronology revert to unassigned
// rather than being removed.
func DeleteChronology(db *gorm.DB, chronologyID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var chronology models.Chronology
		if err := tx.First(&chronology, "id = ?", chronologyID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("chronology not found")
			}
			return fmt.Errorf("failed to fetch chronology: %w", err)
		}

		if chronology.IsDefault {
			return ErrDefaultChronologyDelete
		}

		if err := tx.Model(&models.ChronologyEntry{}).
			Where("chronology_id = ?", chronologyID).
			Update("chronology_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign entries: %w", err)
		}

		if err := tx.Delete(&chronology).Error; err != nil {
			return fmt.Errorf("failed to delete chronology: %w", err)
		}
		return nil
	})
}

// SetDefaultChronology flips the default flag to the target chronology.
// Clear-then-set runs inside a single transaction: a concurrent reader never
// observes zero or multiple defaults for the case.
func SetDefaultChronology(db *gorm.DB, chronologyID string) (*models.Chronology, error) {
	var chronology models.Chronology

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&chronology, "id = ?", chronologyID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("chronology not found")
			}
			return fmt.Errorf("failed to fetch chronology: %w", err)
		}

		if err := tx.Model(&models.Chronology{}).
			Where("case_id = ? AND is_default = ?", chronology.CaseID, true).
			Update("is_default", false).Error; err != nil {
			return fmt.Errorf("failed to clear default flag: %w", err)
		}

		if err := tx.Model(&chronology).Update("is_default", true).Error; err != nil {
			return fmt.Errorf("failed to set default flag: %w", err)
		}

		chronology.IsDefault = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &chronology, nil
}

// FindDefaultChronology returns the case's default chronology, or nil when
// the case has no chronologies yet
func FindDefaultChronology(db *gorm.DB, caseID string) (*models.Chronology, error) {
	var chronology models.Chronology
	err := db.Where("case_id = ? AND is_default = ?", caseID, true).First(&chronology).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch default chronology: %w", err)
	}
	return &chronology, nil
}

// CreateEntry persists a normalized entry and links the supplied source
// documents to it. Duplicate (date, title) pairs are legal: the same event
// may be documented by multiple sources, and deduplication is a human review
// step. When no chronology is specified the entry lands in the case's
// default chronology, if one exists.
func CreateEntry(db *gorm.DB, entry *models.ChronologyEntry, documentIDs []string) (*models.ChronologyEntry, error) {
	if entry.ChronologyID == nil {
		defaultChronology, err := FindDefaultChronology(db, entry.CaseID)
		if err != nil {
			return nil, err
		}
		if defaultChronology != nil {
			entry.ChronologyID = &defaultChronology.ID
		}
	}

	if err := db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	if len(documentIDs) > 0 {
		if _, err := LinkDocumentsToEntry(db, entry.ID, entry.CaseID, documentIDs); err != nil {
			return nil, err
		}
	}

	// Reload with linked documents for the response
	var created models.ChronologyEntry
	if err := db.Preload("Documents").First(&created, "id = ?", entry.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload entry: %w", err)
	}

	return &created, nil
}

// LinkDocumentsToEntry links uploaded documents to the entry they helped
// produce. The update is case-scoped: documents belonging to a different
// case are silently excluded, not an error.
func LinkDocumentsToEntry(db *gorm.DB, entryID, caseID string, documentIDs []string) (int64, error) {
	if len(documentIDs) == 0 {
		return 0, nil
	}

	result := db.Model(&models.Document{}).
		Where("id IN ? AND case_id = ?", documentIDs, caseID).
		Update("entry_id", entryID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to link documents: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// ListEntries returns a case's entries in presentation order, optionally
// filtered to one chronology
func ListEntries(db *gorm.DB, caseID string, chronologyID *string, descending bool) ([]models.ChronologyEntry, error) {
	order := entrySortAsc
	if descending {
		order = entrySortDesc
	}

	query := db.Preload("Documents").Where("case_id = ?", caseID)
	if chronologyID != nil {
		query = query.Where("chronology_id = ?", *chronologyID)
	}

	var entries []models.ChronologyEntry
	if err := query.Order(order).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, nil
}

// ExistingEntriesForPrompt projects a case's entries into the compact form
// embedded in analysis prompts
func ExistingEntriesForPrompt(db *gorm.DB, caseID string) ([]ExistingEntrySummary, error) {
	entries, err := ListEntries(db, caseID, nil, false)
	if err != nil {
		return nil, err
	}

	summaries := make([]ExistingEntrySummary, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, ExistingEntrySummary{
			Date:    entry.Date.Format("2006-01-02"),
			Time:    entry.Time,
			Title:   entry.Title,
			Summary: entry.Summary,
		})
	}
	return summaries, nil
}
