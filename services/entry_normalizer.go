package services

import (
	"fmt"
	"strings"

	"chronolex_app_go/models"
)

// ValidationError reports a field-level reason an entry candidate was
// rejected. Candidates are validated independently: one invalid entry in a
// batch never discards its siblings.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry: %s %s", e.Field, e.Reason)
}

// NormalizeCandidateEntry validates and coerces one raw candidate from the
// analysis result into a ChronologyEntry ready for persistence.
//
// Rules:
//   - date is required and must parse as YYYY-MM-DD; no coercion on failure
//   - title and summary are required non-empty strings
//   - optional fields normalize to empty string, never null
//   - an off-vocabulary category is stored as given but flagged for review
//   - clarifying questions are attached to the entry, never merged into
//     the summary or discarded
func NormalizeCandidateEntry(candidate CandidateEntry, caseID string, chronologyID *string, userID string) (*models.ChronologyEntry, error) {
	dateStr := stringField(candidate, "date")
	if dateStr == "" {
		return nil, &ValidationError{Field: "date", Reason: "is required"}
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a valid calendar date", dateStr)}
	}

	title := SanitizeText(stringField(candidate, "title"))
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "is required"}
	}

	summary := SanitizeText(stringField(candidate, "summary"))
	if summary == "" {
		return nil, &ValidationError{Field: "summary", Reason: "is required"}
	}

	entry := &models.ChronologyEntry{
		CaseID:            caseID,
		ChronologyID:      chronologyID,
		UserID:            userID,
		Date:              date,
		Time:              normalizeTime(stringField(candidate, "time")),
		Parties:           SanitizeText(stringField(candidate, "parties")),
		Title:             title,
		Summary:           summary,
		Source:            SanitizeText(stringField(candidate, "source")),
		LegalSignificance: SanitizeText(stringField(candidate, "legalSignificance")),
		RelatedEntries:    SanitizeText(stringField(candidate, "relatedEntries")),
	}

	// The category vocabulary is a filtering aid, not a hard constraint:
	// close-but-not-exact labels from the model are kept and flagged.
	category := stringField(candidate, "category")
	entry.Category = category
	if category != "" && !models.IsValidEntryCategory(category) {
		entry.NeedsReview = true
	}

	questions := questionsField(candidate)
	if err := entry.SetQuestions(questions); err != nil {
		return nil, fmt.Errorf("failed to store clarifying questions: %w", err)
	}

	return entry, nil
}

// normalizeTime blanks values that are not plausible clock times instead of
// rejecting the whole entry over an optional field
func normalizeTime(timeStr string) string {
	if !IsValidEntryTime(timeStr) {
		return ""
	}
	return timeStr
}

// stringField reads a candidate field as a trimmed string. Absent or null
// values become the empty string; scalar non-strings are rendered rather
// than rejected, since the model output is loosely typed.
func stringField(candidate CandidateEntry, key string) string {
	value, ok := candidate[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64, bool:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	default:
		return ""
	}
}

// questionsField reads the clarifying-questions array, tolerating a single
// string where an array was expected
func questionsField(candidate CandidateEntry) []string {
	value, ok := candidate["questions"]
	if !ok || value == nil {
		return nil
	}

	switch v := value.(type) {
	case []interface{}:
		var questions []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					questions = append(questions, s)
				}
			}
		}
		return questions
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		return []string{s}
	default:
		return nil
	}
}
