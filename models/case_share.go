package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Share permission constants
const (
	SharePermissionRead  = "read"
	SharePermissionWrite = "write"
)

// CaseShare grants another user access to a case owned by someone else.
// A case owner always has full access without a share row.
type CaseShare struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CaseID string `gorm:"type:uuid;not null;uniqueIndex:idx_case_share_user" json:"case_id"`
	Case   Case   `gorm:"foreignKey:CaseID" json:"-"`

	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_case_share_user" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Permission string `gorm:"size:10;not null;default:read" json:"permission"`
}

// BeforeCreate hook to generate UUID
func (cs *CaseShare) BeforeCreate(tx *gorm.DB) error {
	if cs.ID == "" {
		cs.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseShare model
func (CaseShare) TableName() string {
	return "case_shares"
}

// CanWrite checks if the share grants write access
func (cs *CaseShare) CanWrite() bool {
	return cs.Permission == SharePermissionWrite
}

// IsValidSharePermission checks if the permission is valid
func IsValidSharePermission(permission string) bool {
	return permission == SharePermissionRead || permission == SharePermissionWrite
}
