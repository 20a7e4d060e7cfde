package services

import (
	"bytes"
	"testing"

	"chronolex_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestExportChronologyToExcel(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-02", "", "Second event")
	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-01", "09:00", "First event")

	buf, err := ExportChronologyToExcel(db, caseRecord, nil)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(entrySheetName)
	assert.NoError(t, err)

	assert.Equal(t, "Chronology - Smith v. Jones", rows[0][0])
	assert.Equal(t, "Date", rows[2][0])
	assert.Equal(t, "Title", rows[2][3])

	// Data rows follow presentation order, not insertion order
	assert.Equal(t, "2024-01-01", rows[3][0])
	assert.Equal(t, "First event", rows[3][3])
	assert.Equal(t, "2024-01-02", rows[4][0])
	assert.Equal(t, "Second event", rows[4][3])
}

func TestExportChronologyScopedToChronology(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	main, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Main", "", "")
	damages, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Damages", "", "")

	inMain := mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-01", "", "Main event")
	assert.Equal(t, main.ID, *inMain.ChronologyID)
	date, _ := ParseDate("2024-01-02")
	_, err := CreateEntry(db, &models.ChronologyEntry{
		CaseID: caseRecord.ID, ChronologyID: &damages.ID, UserID: caseRecord.UserID,
		Date: date, Title: "Damages event", Summary: "s",
	}, nil)
	assert.NoError(t, err)

	buf, err := ExportChronologyToExcel(db, caseRecord, &damages.ID)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()
	rows, _ := f.GetRows(entrySheetName)

	assert.Len(t, rows, 4) // title, blank, header, one data row
	assert.Equal(t, "Damages event", rows[3][3])
}

func TestBulkImportEntriesRoundTrip(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-01", "09:00", "Exported event")

	buf, err := ExportChronologyToExcel(db, caseRecord, nil)
	assert.NoError(t, err)

	target := models.Case{UserID: caseRecord.UserID, Name: "Re-imported"}
	assert.NoError(t, db.Create(&target).Error)

	result, err := BulkImportEntriesFromExcel(db, target.ID, nil, caseRecord.UserID, bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.FailedCount)

	entries, err := ListEntries(db, target.ID, nil, false)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "Exported event", entries[0].Title)
	assert.Equal(t, "09:00", entries[0].Time)
}

func TestBulkImportRowsFailIndependently(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Date", "Time", "Parties", "Title", "Summary"},
		{"2024-01-01", "", "", "Good row", "valid summary"},
		{"not-a-date", "", "", "Bad row", "summary"},
		{"2024-01-03", "", "", "", "missing title"},
		{"2024-01-04", "", "", "Another good row", "valid summary"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		assert.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)

	result, err := BulkImportEntriesFromExcel(db, caseRecord.ID, nil, caseRecord.UserID, bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 2, result.FailedCount)
	assert.Len(t, result.Errors, 2)

	entries, _ := ListEntries(db, caseRecord.ID, nil, false)
	assert.Len(t, entries, 2)
}

func TestBulkImportRejectsNonWorkbook(t *testing.T) {
	db := setupChronologyTestDB(t)
	_, err := BulkImportEntriesFromExcel(db, "case-1", nil, "user-1", bytes.NewReader([]byte("csv,not,xlsx")))
	assert.Error(t, err)
}
