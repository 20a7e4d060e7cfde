package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"chronolex_app_go/config"
	"chronolex_app_go/db"
	"chronolex_app_go/middleware"
	"chronolex_app_go/models"
	"chronolex_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while keeping the connection
	// pool on one database
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	if services.Storage == nil {
		services.Storage = services.NewLocalStorage(t.TempDir())
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Case{},
		&models.CaseShare{},
		&models.Chronology{},
		&models.ChronologyEntry{},
		&models.Party{},
		&models.Document{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *models.User {
	user := &models.User{Name: "Test User", Email: email, Password: "hashed", IsActive: true}
	assert.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestCase(t *testing.T, testDB *gorm.DB, owner *models.User) *models.Case {
	caseRecord := &models.Case{UserID: owner.ID, Name: "Smith v. Jones"}
	assert.NoError(t, testDB.Create(caseRecord).Error)
	return caseRecord
}

func asUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func stringToPtr(s string) *string {
	return &s
}
