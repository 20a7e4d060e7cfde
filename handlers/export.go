package handlers

import (
	"fmt"
	"net/http"
	"time"

	"chronolex_app_go/db"
	"chronolex_app_go/middleware"
	"chronolex_app_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportEntriesHandler streams the case chronology as an Excel workbook.
// Pass ?chronologyId= to export a single timeline.
func ExportEntriesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindAccessibleCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var chronologyID *string
	if id := c.QueryParam("chronologyId"); id != "" {
		chronologyID = &id
	}

	buf, err := services.ExportChronologyToExcel(db.DB, caseRecord, chronologyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export chronology")
	}

	filename := fmt.Sprintf("chronology-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportEntriesHandler bulk-imports entries from an uploaded Excel
// workbook laid out like an export. Rows are validated independently; the
// response reports per-row successes and failures.
func ImportEntriesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read file")
	}
	defer file.Close()

	var chronologyID *string
	if id := c.FormValue("chronologyId"); id != "" {
		chronologyID = &id
	}

	result, err := services.BulkImportEntriesFromExcel(db.DB, caseRecord.ID, chronologyID, user.ID, file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "File is not a valid workbook")
	}

	return c.JSON(http.StatusOK, result)
}
