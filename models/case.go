package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case represents a litigation matter. It is the ownership and sharing
// boundary: every chronology, entry, party and document hangs off a case.
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Owner relationship
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Free-text analyst context injected into every analysis prompt.
	// KeyParties is the informal roster, distinct from the structured
	// Party records.
	Context      string `gorm:"type:text" json:"context"`
	KeyParties   string `gorm:"type:text" json:"key_parties"`
	Instructions string `gorm:"type:text" json:"instructions"`

	// Relationships (cascade on case delete)
	Chronologies []Chronology      `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"chronologies,omitempty"`
	Entries      []ChronologyEntry `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`
	Parties      []Party           `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"parties,omitempty"`
	Documents    []Document        `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	Shares       []CaseShare       `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"shares,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}
