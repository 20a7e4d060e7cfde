package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Party role constants (controlled vocabulary)
const (
	PartyRolePlaintiff           = "Plaintiff"
	PartyRoleDefendant           = "Defendant"
	PartyRoleCoPlaintiff         = "Co-Plaintiff"
	PartyRoleCoDefendant         = "Co-Defendant"
	PartyRoleThirdPartyDefendant = "Third-Party Defendant"
	PartyRoleCrossDefendant      = "Cross-Defendant"
	PartyRoleWitness             = "Witness"
	PartyRoleExpertWitness       = "Expert Witness"
	PartyRoleAttorney            = "Attorney"
	PartyRoleJudge               = "Judge"
	PartyRoleMediator            = "Mediator"
	PartyRoleOther               = "Other"
)

// PartyRoles lists the controlled role vocabulary in display order.
// Parties are sorted by role (this order), then by name.
var PartyRoles = []string{
	PartyRolePlaintiff,
	PartyRoleCoPlaintiff,
	PartyRoleDefendant,
	PartyRoleCoDefendant,
	PartyRoleThirdPartyDefendant,
	PartyRoleCrossDefendant,
	PartyRoleAttorney,
	PartyRoleJudge,
	PartyRoleMediator,
	PartyRoleWitness,
	PartyRoleExpertWitness,
	PartyRoleOther,
}

// Party represents a structured participant in a case
type Party struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   Case   `gorm:"foreignKey:CaseID" json:"-"`

	Name        string `gorm:"not null" json:"name"`
	Role        string `gorm:"size:30;not null" json:"role"`
	Description string `gorm:"type:text" json:"description"`
}

// BeforeCreate hook to generate UUID
func (p *Party) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Party model
func (Party) TableName() string {
	return "parties"
}

// RoleSortIndex returns the position of the party's role within the
// controlled vocabulary. Unknown roles sort last.
func (p *Party) RoleSortIndex() int {
	for i, role := range PartyRoles {
		if p.Role == role {
			return i
		}
	}
	return len(PartyRoles)
}

// IsValidPartyRole checks if the role is part of the controlled vocabulary
func IsValidPartyRole(role string) bool {
	for _, r := range PartyRoles {
		if r == role {
			return true
		}
	}
	return false
}
