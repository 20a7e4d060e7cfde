package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chronolex_app_go/db"
	"chronolex_app_go/models"
	"chronolex_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthMiddlewareDB(t *testing.T) *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, testDB.AutoMigrate(&models.User{}, &models.Session{}))
	db.DB = testDB
	return testDB
}

func authRequest(cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	setupAuthMiddlewareDB(t)

	c, _ := authRequest(nil)
	err := RequireAuth()(okHandler)(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	setupAuthMiddlewareDB(t)

	c, _ := authRequest(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
	err := RequireAuth()(okHandler)(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuthValidSession(t *testing.T) {
	testDB := setupAuthMiddlewareDB(t)

	user := models.User{Name: "Analyst", Email: "a@example.com", Password: "x", IsActive: true}
	assert.NoError(t, testDB.Create(&user).Error)
	session, err := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)

	c, rec := authRequest(&http.Cookie{Name: SessionCookieName, Value: session.Token})
	assert.NoError(t, RequireAuth()(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	current := GetCurrentUser(c)
	assert.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
}

func TestRequireAuthInactiveUser(t *testing.T) {
	testDB := setupAuthMiddlewareDB(t)

	user := models.User{Name: "Gone", Email: "gone@example.com", Password: "x", IsActive: false}
	assert.NoError(t, testDB.Create(&user).Error)
	session, err := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)

	c, _ := authRequest(&http.Cookie{Name: SessionCookieName, Value: session.Token})
	err = RequireAuth()(okHandler)(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
