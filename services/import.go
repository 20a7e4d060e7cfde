package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// EntryImportResult contains the summary of a bulk entry import
type EntryImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	SuccessCount   int      `json:"success_count"`
	FailedCount    int      `json:"failed_count"`
	Errors         []string `json:"errors"`
}

// entryImportColumns maps spreadsheet columns to candidate fields, matching
// the export layout so an exported workbook can be re-imported
var entryImportColumns = []string{
	"date", "time", "parties", "title", "summary", "category",
	"legalSignificance", "source", "relatedEntries",
}

// BulkImportEntriesFromExcel reads chronology entries from a workbook's
// first sheet and persists the valid ones. Rows flow through the same
// normalizer as model-extracted candidates, so the validation rules are
// identical; each row is validated independently and failures never abort
// the rest of the batch.
func BulkImportEntriesFromExcel(db *gorm.DB, caseID string, chronologyID *string, userID string, file io.Reader) (*EntryImportResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("invalid excel format: no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read entries sheet: %w", err)
	}

	result := &EntryImportResult{Errors: []string{}}

	headerRow := findHeaderRow(rows)
	if headerRow < 0 {
		return nil, fmt.Errorf("invalid excel format: no header row with a Date column")
	}

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		result.TotalProcessed++

		candidate := CandidateEntry{}
		for col, field := range entryImportColumns {
			if col < len(row) {
				candidate[field] = strings.TrimSpace(row[col])
			}
		}

		entry, err := NormalizeCandidateEntry(candidate, caseID, chronologyID, userID)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		if _, err := CreateEntry(db, entry, nil); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}

// findHeaderRow locates the header row by its Date column, tolerating the
// title rows our own export writes above it
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			return i
		}
	}
	return -1
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
