package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry category constants (fixed 10-value vocabulary)
const (
	CategoryCommunication        = "Communication"
	CategoryFinancialTransaction = "Financial Transaction"
	CategoryLegalFiling          = "Legal Filing"
	CategoryContract             = "Contract"
	CategoryMeetingConference    = "Meeting/Conference"
	CategoryDocumentCreation     = "Document Creation"
	CategoryPropertyRealEstate   = "Property/Real Estate"
	CategoryInvestigation        = "Investigation"
	CategoryCompliance           = "Compliance"
	CategoryOther                = "Other"
)

// EntryCategories lists the fixed category vocabulary offered to the
// extraction model and used for filtering. The vocabulary is a UI aid, not a
// hard schema constraint: off-vocabulary values are stored as given and
// flagged for review.
var EntryCategories = []string{
	CategoryCommunication,
	CategoryFinancialTransaction,
	CategoryLegalFiling,
	CategoryContract,
	CategoryMeetingConference,
	CategoryDocumentCreation,
	CategoryPropertyRealEstate,
	CategoryInvestigation,
	CategoryCompliance,
	CategoryOther,
}

// ChronologyEntry is one dated, categorized factual event in a timeline.
type ChronologyEntry struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   Case   `gorm:"foreignKey:CaseID" json:"-"`

	// Nullable: legacy entries may be unassigned until backfilled into a
	// chronology.
	ChronologyID *string     `gorm:"type:uuid;index" json:"chronology_id"`
	Chronology   *Chronology `gorm:"foreignKey:ChronologyID" json:"chronology,omitempty"`

	UserID string `gorm:"type:uuid;not null" json:"user_id"`

	Date time.Time `gorm:"not null;index" json:"date"`
	Time string    `gorm:"size:10" json:"time"` // optional "HH:MM", empty when unknown

	Title   string `gorm:"not null" json:"title"`
	Summary string `gorm:"type:text;not null" json:"summary"`

	// Free-text comma/semicolon-separated names. Not a reference to Party;
	// cross-linking structured parties is a manual review step.
	Parties string `gorm:"type:text" json:"parties"`

	Source            string `gorm:"type:text" json:"source"`
	Category          string `gorm:"size:50" json:"category"`
	LegalSignificance string `gorm:"type:text" json:"legal_significance"`

	// Free-text cross-reference to other entries, as suggested by the
	// extraction model and edited by humans. Deliberately not a foreign key:
	// the model cannot emit identifiers for entries it has not seen persisted.
	RelatedEntries string `gorm:"type:text" json:"related_entries"`

	// Clarifying questions raised by the extractor, serialized as a JSON
	// array. Non-empty questions mean the entry needs analyst review.
	Questions string `gorm:"type:text" json:"-"`

	// Set when the extractor produced a category outside the fixed
	// vocabulary; the value is kept as given.
	NeedsReview bool `gorm:"not null;default:false" json:"needs_review"`

	Documents []Document `gorm:"foreignKey:EntryID" json:"documents,omitempty"`
}

// BeforeCreate hook to generate UUID
func (e *ChronologyEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ChronologyEntry model
func (ChronologyEntry) TableName() string {
	return "chronology_entries"
}

// MarshalJSON renders the stored questions JSON as a proper array field
func (e ChronologyEntry) MarshalJSON() ([]byte, error) {
	type entryAlias ChronologyEntry
	questions := e.GetQuestions()
	if questions == nil {
		questions = []string{}
	}
	return json.Marshal(struct {
		entryAlias
		QuestionList []string `json:"questions"`
	}{entryAlias(e), questions})
}

// GetQuestions deserializes the stored clarifying questions
func (e *ChronologyEntry) GetQuestions() []string {
	if e.Questions == "" {
		return nil
	}
	var questions []string
	if err := json.Unmarshal([]byte(e.Questions), &questions); err != nil {
		return nil
	}
	return questions
}

// SetQuestions serializes clarifying questions for storage
func (e *ChronologyEntry) SetQuestions(questions []string) error {
	if len(questions) == 0 {
		e.Questions = ""
		return nil
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	e.Questions = string(data)
	return nil
}

// IsValidEntryCategory checks if the category is part of the fixed vocabulary
func IsValidEntryCategory(category string) bool {
	for _, c := range EntryCategories {
		if c == category {
			return true
		}
	}
	return false
}
