package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chronology is a named timeline grouping within a case. A case may hold
// several ("Main", "Damages Timeline", ...). Exactly one chronology per case
// is flagged as default once any exists; the default cannot be deleted.
type Chronology struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   Case   `gorm:"foreignKey:CaseID" json:"-"`

	UserID string `gorm:"type:uuid;not null" json:"user_id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Type        string `gorm:"size:50" json:"type"`
	IsDefault   bool   `gorm:"not null;default:false;index" json:"is_default"`

	Entries []ChronologyEntry `gorm:"foreignKey:ChronologyID" json:"entries,omitempty"`
}

// BeforeCreate hook to generate UUID
func (ch *Chronology) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Chronology model
func (Chronology) TableName() string {
	return "chronologies"
}
