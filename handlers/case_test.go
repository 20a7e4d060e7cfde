package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"chronolex_app_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCreateCaseHandler(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "owner@example.com")

	body := `{"name": "Smith v. Jones", "context": "Contract dispute", "keyParties": "Smith, Jones"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/cases", strings.NewReader(body))
	asUser(c, user)

	assert.NoError(t, CreateCaseHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Case
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Smith v. Jones", created.Name)
	assert.Equal(t, "Contract dispute", created.Context)
	assert.Equal(t, user.ID, created.UserID)
}

func TestCreateCaseHandlerRequiresName(t *testing.T) {
	testDB := setupTestDB(t)
	user := createTestUser(t, testDB, "owner@example.com")

	_, c, _ := setupEcho(http.MethodPost, "/api/cases", strings.NewReader(`{"description": "no name"}`))
	asUser(c, user)

	err := CreateCaseHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestListCasesIncludesSharedCases(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createTestUser(t, testDB, "owner@example.com")
	viewer := createTestUser(t, testDB, "viewer@example.com")

	owned := createTestCase(t, testDB, owner)
	shared := &models.Case{UserID: owner.ID, Name: "Shared matter"}
	assert.NoError(t, testDB.Create(shared).Error)
	assert.NoError(t, testDB.Create(&models.CaseShare{
		CaseID: shared.ID, UserID: viewer.ID, Permission: models.SharePermissionRead,
	}).Error)

	_, c, rec := setupEcho(http.MethodGet, "/api/cases", nil)
	asUser(c, viewer)

	assert.NoError(t, ListCasesHandler(c))

	var cases []models.Case
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cases))
	assert.Len(t, cases, 1)
	assert.Equal(t, shared.ID, cases[0].ID)
	assert.NotEqual(t, owned.ID, cases[0].ID)
}

func TestGetCaseHandlerHidesInaccessibleCases(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createTestUser(t, testDB, "owner@example.com")
	stranger := createTestUser(t, testDB, "stranger@example.com")
	caseRecord := createTestCase(t, testDB, owner)

	_, c, _ := setupEcho(http.MethodGet, "/api/cases/"+caseRecord.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(caseRecord.ID)
	asUser(c, stranger)

	err := GetCaseHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	// Inaccessible cases look exactly like missing ones
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestUpdateCaseHandlerPartialMerge(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createTestUser(t, testDB, "owner@example.com")
	caseRecord := &models.Case{
		UserID: owner.ID, Name: "Smith v. Jones",
		Context: "original context", KeyParties: "Smith, Jones",
	}
	assert.NoError(t, testDB.Create(caseRecord).Error)

	// Only context is present in the body; other fields must survive
	_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+caseRecord.ID,
		strings.NewReader(`{"context": "updated context"}`))
	c.SetParamNames("id")
	c.SetParamValues(caseRecord.ID)
	asUser(c, owner)

	assert.NoError(t, UpdateCaseHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Case
	assert.NoError(t, testDB.First(&reloaded, "id = ?", caseRecord.ID).Error)
	assert.Equal(t, "updated context", reloaded.Context)
	assert.Equal(t, "Smith v. Jones", reloaded.Name)
	assert.Equal(t, "Smith, Jones", reloaded.KeyParties)
}

func TestUpdateCaseHandlerReadShareCannotWrite(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createTestUser(t, testDB, "owner@example.com")
	reader := createTestUser(t, testDB, "reader@example.com")
	caseRecord := createTestCase(t, testDB, owner)
	assert.NoError(t, testDB.Create(&models.CaseShare{
		CaseID: caseRecord.ID, UserID: reader.ID, Permission: models.SharePermissionRead,
	}).Error)

	_, c, _ := setupEcho(http.MethodPut, "/api/cases/"+caseRecord.ID,
		strings.NewReader(`{"name": "Hijacked"}`))
	c.SetParamNames("id")
	c.SetParamValues(caseRecord.ID)
	asUser(c, reader)

	err := UpdateCaseHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestDeleteCaseHandlerOwnerOnly(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createTestUser(t, testDB, "owner@example.com")
	writer := createTestUser(t, testDB, "writer@example.com")
	caseRecord := createTestCase(t, testDB, owner)
	assert.NoError(t, testDB.Create(&models.CaseShare{
		CaseID: caseRecord.ID, UserID: writer.ID, Permission: models.SharePermissionWrite,
	}).Error)

	// A write share is not ownership
	_, c, _ := setupEcho(http.MethodDelete, "/api/cases/"+caseRecord.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(caseRecord.ID)
	asUser(c, writer)

	err := DeleteCaseHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)

	_, c2, rec := setupEcho(http.MethodDelete, "/api/cases/"+caseRecord.ID, nil)
	c2.SetParamNames("id")
	c2.SetParamValues(caseRecord.ID)
	asUser(c2, owner)

	assert.NoError(t, DeleteCaseHandler(c2))
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	testDB.Model(&models.Case{}).Where("id = ?", caseRecord.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}
