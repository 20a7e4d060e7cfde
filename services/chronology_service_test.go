package services

import (
	"testing"
	"time"

	"chronolex_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupChronologyTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Case{}, &models.CaseShare{},
		&models.Chronology{}, &models.ChronologyEntry{}, &models.Document{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedCase(t *testing.T, db *gorm.DB) *models.Case {
	user := models.User{Name: "Analyst", Email: "analyst@example.com", Password: "x", IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	caseRecord := models.Case{UserID: user.ID, Name: "Smith v. Jones"}
	if err := db.Create(&caseRecord).Error; err != nil {
		t.Fatalf("failed to seed case: %v", err)
	}
	return &caseRecord
}

func mustEntry(t *testing.T, db *gorm.DB, caseID, userID, date, clock, title string) *models.ChronologyEntry {
	parsed, err := ParseDate(date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	entry := &models.ChronologyEntry{
		CaseID:  caseID,
		UserID:  userID,
		Date:    parsed,
		Time:    clock,
		Title:   title,
		Summary: "summary of " + title,
	}
	created, err := CreateEntry(db, entry, nil)
	if err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}
	return created
}

func defaultCount(t *testing.T, db *gorm.DB, caseID string) int64 {
	var count int64
	err := db.Model(&models.Chronology{}).
		Where("case_id = ? AND is_default = ?", caseID, true).Count(&count).Error
	assert.NoError(t, err)
	return count
}

func TestFirstChronologyBecomesDefault(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	first, err := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Main", "", "")
	assert.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Damages", "", "")
	assert.NoError(t, err)
	assert.False(t, second.IsDefault)

	assert.EqualValues(t, 1, defaultCount(t, db, caseRecord.ID))
}

func TestSetDefaultChronologyIsExclusive(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	first, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Main", "", "")
	second, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Damages", "", "")

	updated, err := SetDefaultChronology(db, second.ID)
	assert.NoError(t, err)
	assert.True(t, updated.IsDefault)

	var reloadedFirst models.Chronology
	db.First(&reloadedFirst, "id = ?", first.ID)
	assert.False(t, reloadedFirst.IsDefault)
	assert.EqualValues(t, 1, defaultCount(t, db, caseRecord.ID))
}

func TestSetDefaultChronologyScopedToCase(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseA := seedCase(t, db)
	caseB := models.Case{UserID: caseA.UserID, Name: "Doe v. Roe"}
	assert.NoError(t, db.Create(&caseB).Error)

	chronoA, _ := CreateChronology(db, caseA.ID, caseA.UserID, "Main", "", "")
	chronoB, _ := CreateChronology(db, caseB.ID, caseB.UserID, "Main", "", "")

	_, err := SetDefaultChronology(db, chronoB.ID)
	assert.NoError(t, err)

	// Changing case B's default leaves case A's untouched
	var reloadedA models.Chronology
	db.First(&reloadedA, "id = ?", chronoA.ID)
	assert.True(t, reloadedA.IsDefault)
	assert.EqualValues(t, 1, defaultCount(t, db, caseA.ID))
	assert.EqualValues(t, 1, defaultCount(t, db, caseB.ID))
}

func TestDefaultInvariantSurvivesOperationSequence(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	main, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Main", "", "")
	damages, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Damages", "", "")
	liability, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Liability", "", "")

	steps := []func() error{
		func() error { _, err := SetDefaultChronology(db, damages.ID); return err },
		func() error { return DeleteChronology(db, liability.ID) },
		func() error { _, err := SetDefaultChronology(db, main.ID); return err },
		func() error { return DeleteChronology(db, damages.ID) },
		func() error { _, err := SetDefaultChronology(db, main.ID); return err },
	}
	for i, step := range steps {
		assert.NoError(t, step(), "step %d", i)
		assert.EqualValues(t, 1, defaultCount(t, db, caseRecord.ID), "after step %d", i)
	}
}

func TestDeleteDefaultChronologyRejected(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	main, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Main", "", "")

	err := DeleteChronology(db, main.ID)
	assert.ErrorIs(t, err, ErrDefaultChronologyDelete)

	var count int64
	db.Model(&models.Chronology{}).Where("id = ?", main.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteChronologyUnassignsEntries(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	main, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Main", "", "")
	damages, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Damages", "", "")

	entry := &models.ChronologyEntry{
		CaseID:       caseRecord.ID,
		ChronologyID: &damages.ID,
		UserID:       caseRecord.UserID,
		Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Title:        "Invoice sent",
		Summary:      "Invoice 42 sent to defendant.",
	}
	created, err := CreateEntry(db, entry, nil)
	assert.NoError(t, err)
	assert.Equal(t, damages.ID, *created.ChronologyID)

	assert.NoError(t, DeleteChronology(db, damages.ID))

	var reloaded models.ChronologyEntry
	assert.NoError(t, db.First(&reloaded, "id = ?", created.ID).Error)
	assert.Nil(t, reloaded.ChronologyID)
	_ = main
}

func TestCreateEntryLandsInDefaultChronology(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	main, _ := CreateChronology(db, caseRecord.ID, caseRecord.UserID, "Main", "", "")

	created := mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-05-01", "", "Filing")
	assert.NotNil(t, created.ChronologyID)
	assert.Equal(t, main.ID, *created.ChronologyID)
}

func TestCreateEntryWithoutAnyChronology(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	created := mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-05-01", "", "Filing")
	assert.Nil(t, created.ChronologyID)
}

func TestListEntriesOrdering(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	// Created deliberately out of chronological order
	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-05", "", "Third")
	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-01", "09:00", "Second")
	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-01", "08:00", "First")

	entries, err := ListEntries(db, caseRecord.ID, nil, false)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "First", entries[0].Title)
	assert.Equal(t, "Second", entries[1].Title)
	assert.Equal(t, "Third", entries[2].Title)

	descending, err := ListEntries(db, caseRecord.ID, nil, true)
	assert.NoError(t, err)
	assert.Equal(t, "Third", descending[0].Title)
	assert.Equal(t, "First", descending[2].Title)
}

func TestListEntriesCreationOrderBreaksTies(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	a := mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-01", "09:00", "Earlier insert")
	db.Model(&models.ChronologyEntry{}).Where("id = ?", a.ID).
		Update("created_at", time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC))
	b := mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-01", "09:00", "Later insert")
	db.Model(&models.ChronologyEntry{}).Where("id = ?", b.ID).
		Update("created_at", time.Date(2024, 2, 1, 11, 0, 0, 0, time.UTC))

	entries, err := ListEntries(db, caseRecord.ID, nil, false)
	assert.NoError(t, err)
	assert.Equal(t, "Earlier insert", entries[0].Title)
	assert.Equal(t, "Later insert", entries[1].Title)
}

func TestDuplicateEntriesAreLegal(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-03-01", "", "Payment made")
	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-03-01", "", "Payment made")

	entries, err := ListEntries(db, caseRecord.ID, nil, false)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLinkDocumentsToEntryExcludesOtherCases(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseA := seedCase(t, db)
	caseB := models.Case{UserID: caseA.UserID, Name: "Doe v. Roe"}
	assert.NoError(t, db.Create(&caseB).Error)

	docA := models.Document{CaseID: caseA.ID, UserID: caseA.UserID, Filename: "a.pdf", StorageKey: "k/a"}
	docB := models.Document{CaseID: caseB.ID, UserID: caseA.UserID, Filename: "b.pdf", StorageKey: "k/b"}
	assert.NoError(t, db.Create(&docA).Error)
	assert.NoError(t, db.Create(&docB).Error)

	entry := mustEntry(t, db, caseA.ID, caseA.UserID, "2024-04-01", "", "Upload review")

	linked, err := LinkDocumentsToEntry(db, entry.ID, caseA.ID, []string{docA.ID, docB.ID})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, linked)

	var reloadedB models.Document
	db.First(&reloadedB, "id = ?", docB.ID)
	assert.Nil(t, reloadedB.EntryID, "cross-case document must stay unlinked")

	var reloadedA models.Document
	db.First(&reloadedA, "id = ?", docA.ID)
	assert.NotNil(t, reloadedA.EntryID)
	assert.Equal(t, entry.ID, *reloadedA.EntryID)
}

func TestExistingEntriesForPrompt(t *testing.T) {
	db := setupChronologyTestDB(t)
	caseRecord := seedCase(t, db)

	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-02", "", "Second event")
	mustEntry(t, db, caseRecord.ID, caseRecord.UserID, "2024-01-01", "10:00", "First event")

	summaries, err := ExistingEntriesForPrompt(db, caseRecord.ID)
	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, "2024-01-01", summaries[0].Date)
	assert.Equal(t, "10:00", summaries[0].Time)
	assert.Equal(t, "First event", summaries[0].Title)
	assert.Equal(t, "2024-01-02", summaries[1].Date)
}
