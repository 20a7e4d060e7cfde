package handlers

import (
	"chronolex_app_go/db"
	"chronolex_app_go/middleware"
	"chronolex_app_go/models"
	"chronolex_app_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

type entryRequest struct {
	Date              *string  `json:"date"`
	Time              *string  `json:"time"`
	Title             *string  `json:"title"`
	Summary           *string  `json:"summary"`
	Parties           *string  `json:"parties"`
	Source            *string  `json:"source"`
	Category          *string  `json:"category"`
	LegalSignificance *string  `json:"legalSignificance"`
	RelatedEntries    *string  `json:"relatedEntries"`
	Questions         []string `json:"questions"`
	ChronologyID      *string  `json:"chronologyId"`
	DocumentIDs       []string `json:"documentIds"`
}

// asCandidate converts the request into the loosely typed candidate shape
// shared with the analysis pipeline, so manual and extracted entries pass
// through the same validation.
func (r *entryRequest) asCandidate() services.CandidateEntry {
	candidate := services.CandidateEntry{}
	set := func(key string, value *string) {
		if value != nil {
			candidate[key] = *value
		}
	}
	set("date", r.Date)
	set("time", r.Time)
	set("title", r.Title)
	set("summary", r.Summary)
	set("parties", r.Parties)
	set("source", r.Source)
	set("category", r.Category)
	set("legalSignificance", r.LegalSignificance)
	set("relatedEntries", r.RelatedEntries)
	if len(r.Questions) > 0 {
		questions := make([]interface{}, len(r.Questions))
		for i, q := range r.Questions {
			questions[i] = q
		}
		candidate["questions"] = questions
	}
	return candidate
}

// ListEntriesHandler returns a case's entries in chronological order.
// Ordering is derived at read time from (date, time, creation time); pass
// ?order=desc for newest first, ?chronologyId= to filter to one timeline.
func ListEntriesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindAccessibleCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var chronologyID *string
	if id := c.QueryParam("chronologyId"); id != "" {
		chronologyID = &id
	}
	descending := c.QueryParam("order") == "desc"

	entries, err := services.ListEntries(db.DB, caseRecord.ID, chronologyID, descending)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load entries")
	}

	return c.JSON(http.StatusOK, entries)
}

// CreateEntryHandler creates a chronology entry, optionally linking the
// source documents that produced it. Duplicate entries are legal: the same
// event may be documented by several sources.
func CreateEntryHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.ChronologyID != nil {
		var chronology models.Chronology
		if err := db.DB.Where("id = ? AND case_id = ?", *req.ChronologyID, caseRecord.ID).
			First(&chronology).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Chronology does not belong to this case")
		}
	}

	entry, err := services.NormalizeCandidateEntry(req.asCandidate(), caseRecord.ID, req.ChronologyID, user.ID)
	if err != nil {
		if verr, ok := err.(*services.ValidationError); ok {
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create entry")
	}

	created, err := services.CreateEntry(db.DB, entry, req.DocumentIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create entry")
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateEntryHandler applies a partial update to an entry
func UpdateEntryHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var entry models.ChronologyEntry
	if err := db.DB.Where("id = ? AND case_id = ?", c.Param("entryId"), caseRecord.ID).
		First(&entry).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Entry not found")
	}

	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Date != nil {
		date, err := services.ParseDate(*req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Date must be a valid YYYY-MM-DD date")
		}
		entry.Date = date
	}
	if req.Time != nil {
		if *req.Time != "" && !services.IsValidEntryTime(*req.Time) {
			return echo.NewHTTPError(http.StatusBadRequest, "Time must be HH:MM")
		}
		entry.Time = *req.Time
	}
	if req.Title != nil {
		title := services.SanitizeText(*req.Title)
		if title == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Title cannot be empty")
		}
		entry.Title = title
	}
	if req.Summary != nil {
		summary := services.SanitizeText(*req.Summary)
		if summary == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Summary cannot be empty")
		}
		entry.Summary = summary
	}
	if req.Parties != nil {
		entry.Parties = services.SanitizeText(*req.Parties)
	}
	if req.Source != nil {
		entry.Source = services.SanitizeText(*req.Source)
	}
	if req.Category != nil {
		entry.Category = *req.Category
		entry.NeedsReview = *req.Category != "" && !models.IsValidEntryCategory(*req.Category)
	}
	if req.LegalSignificance != nil {
		entry.LegalSignificance = services.SanitizeText(*req.LegalSignificance)
	}
	if req.RelatedEntries != nil {
		entry.RelatedEntries = services.SanitizeText(*req.RelatedEntries)
	}
	if req.Questions != nil {
		if err := entry.SetQuestions(req.Questions); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update entry")
		}
	}
	if req.ChronologyID != nil {
		var chronology models.Chronology
		if err := db.DB.Where("id = ? AND case_id = ?", *req.ChronologyID, caseRecord.ID).
			First(&chronology).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Chronology does not belong to this case")
		}
		entry.ChronologyID = req.ChronologyID
	}

	if err := db.DB.Save(&entry).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update entry")
	}

	if len(req.DocumentIDs) > 0 {
		if _, err := services.LinkDocumentsToEntry(db.DB, entry.ID, caseRecord.ID, req.DocumentIDs); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to link documents")
		}
	}

	var updated models.ChronologyEntry
	if err := db.DB.Preload("Documents").First(&updated, "id = ?", entry.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reload entry")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteEntryHandler deletes an entry. Linked documents survive: the link
// is cleared, the files stay with the case.
func DeleteEntryHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	caseRecord, err := services.FindWritableCase(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return caseNotFound(err)
	}

	var entry models.ChronologyEntry
	if err := db.DB.Where("id = ? AND case_id = ?", c.Param("entryId"), caseRecord.ID).
		First(&entry).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Entry not found")
	}

	if err := db.DB.Model(&models.Document{}).Where("entry_id = ?", entry.ID).
		Update("entry_id", nil).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete entry")
	}

	if err := db.DB.Delete(&entry).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete entry")
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
