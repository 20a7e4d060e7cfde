package services

import (
	"bytes"
	"fmt"
	"strings"

	"chronolex_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const entrySheetName = "Chronology"

var entryExportHeaders = []string{
	"Date", "Time", "Parties", "Title", "Summary", "Category",
	"Legal Significance", "Source", "Related Entries", "Questions",
}

// ExportChronologyToExcel renders a case's entries (optionally scoped to one
// chronology) as an xlsx workbook, in presentation order
func ExportChronologyToExcel(db *gorm.DB, caseRecord *models.Case, chronologyID *string) (*bytes.Buffer, error) {
	entries, err := ListEntries(db, caseRecord.ID, chronologyID, false)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", entrySheetName)

	// Title row
	f.SetCellValue(entrySheetName, "A1", fmt.Sprintf("Chronology - %s", caseRecord.Name))
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(entrySheetName, "A1", "A1", titleStyle)

	// Header row
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range entryExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(entrySheetName, cell, header)
		f.SetCellStyle(entrySheetName, cell, cell, headerStyle)
	}

	for rowIdx, entry := range entries {
		values := []interface{}{
			entry.Date.Format("2006-01-02"),
			entry.Time,
			entry.Parties,
			entry.Title,
			entry.Summary,
			entry.Category,
			entry.LegalSignificance,
			entry.Source,
			entry.RelatedEntries,
			strings.Join(entry.GetQuestions(), "; "),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+4)
			f.SetCellValue(entrySheetName, cell, value)
		}
	}

	// Readable column widths for the narrative columns
	f.SetColWidth(entrySheetName, "D", "E", 50)
	f.SetColWidth(entrySheetName, "G", "H", 35)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}

	return buf, nil
}
