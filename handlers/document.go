package handlers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"chronolex_app_go/config"
	"chronolex_app_go/db"
	"chronolex_app_go/middleware"
	"chronolex_app_go/models"
	"chronolex_app_go/services"

	"github.com/labstack/echo/v4"
)

const maxUploadSize = 50 << 20 // 50 MB per file

// uploadResult reports the outcome for one file in an upload batch
type uploadResult struct {
	Filename string           `json:"filename"`
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Document *models.Document `json:"document,omitempty"`
}

// ListDocumentsHandler returns a case's documents, newest first
func ListDocumentsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindAccessibleCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var documents []models.Document
	if err := db.DB.Where("case_id = ?", caseRecord.ID).
		Order("created_at DESC").Find(&documents).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load documents")
	}

	return c.JSON(http.StatusOK, documents)
}

// UploadDocumentsHandler accepts a multipart batch of files. Files are
// processed sequentially and independently: each is stored, its text
// extracted, and its metadata recorded, with a per-file success or error in
// the response. One corrupt file never fails the batch.
func UploadDocumentsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	cfg := c.Get("config").(*config.Config)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No files provided")
	}

	results := make([]uploadResult, 0, len(files))
	for _, fileHeader := range files {
		result := uploadResult{Filename: fileHeader.Filename}

		if fileHeader.Size > maxUploadSize {
			result.Error = "File exceeds the 50MB upload limit"
			results = append(results, result)
			continue
		}

		file, err := fileHeader.Open()
		if err != nil {
			result.Error = "Failed to read file"
			results = append(results, result)
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			result.Error = "Failed to read file"
			results = append(results, result)
			continue
		}

		key := services.GenerateCaseDocumentKey(user.ID, caseRecord.ID, fileHeader.Filename)
		contentType := fileHeader.Header.Get("Content-Type")
		stored, err := services.Storage.UploadReader(c.Request().Context(),
			bytes.NewReader(data), key, contentType, int64(len(data)))
		if err != nil {
			result.Error = "Failed to store file"
			results = append(results, result)
			continue
		}

		content := services.ExtractContent(c.Request().Context(), data, fileHeader.Filename, cfg)

		meta := &models.DocumentMetadata{
			OriginalName: fileHeader.Filename,
			UploadedAt:   time.Now(),
			PublicURL:    stored.URL,
		}
		if _, ok := services.ImageMediaType(fileHeader.Filename); ok {
			meta.Exif = services.ExtractImageMetadata(data)
		}

		document := models.Document{
			CaseID:     caseRecord.ID,
			UserID:     user.ID,
			Filename:   fileHeader.Filename,
			FileType:   contentType,
			FileSize:   int64(len(data)),
			StorageKey: stored.Key,
			Content:    content,
		}
		if err := document.SetMetadata(meta); err != nil {
			result.Error = "Failed to record file metadata"
			results = append(results, result)
			continue
		}
		if err := db.DB.Create(&document).Error; err != nil {
			services.Storage.Delete(c.Request().Context(), stored.Key)
			result.Error = "Failed to save document"
			results = append(results, result)
			continue
		}

		result.Success = true
		result.Document = &document
		results = append(results, result)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}

// GetDocumentHandler returns one document with a short-lived download URL
func GetDocumentHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindAccessibleCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var document models.Document
	if err := db.DB.Where("id = ? AND case_id = ?", c.Param("documentId"), caseRecord.ID).
		First(&document).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	url, err := services.Storage.GetSignedURL(c.Request().Context(), document.StorageKey, 15*time.Minute)
	if err != nil {
		url = ""
	}

	meta, _ := document.GetMetadata()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"document":    document,
		"downloadUrl": url,
		"metadata":    meta,
	})
}

// DownloadDocumentHandler streams the original file bytes
func DownloadDocumentHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindAccessibleCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var document models.Document
	if err := db.DB.Where("id = ? AND case_id = ?", c.Param("documentId"), caseRecord.ID).
		First(&document).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), document.StorageKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch file")
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+document.Filename+`"`)
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteDocumentHandler removes a document record and its stored file
func DeleteDocumentHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var document models.Document
	if err := db.DB.Where("id = ? AND case_id = ?", c.Param("documentId"), caseRecord.ID).
		First(&document).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	if err := db.DB.Delete(&document).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete document")
	}

	// Storage cleanup failure is logged inside the provider; the record is
	// already gone either way.
	services.Storage.Delete(c.Request().Context(), document.StorageKey)

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
