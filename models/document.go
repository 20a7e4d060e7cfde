package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentMetadata is the structured metadata bag persisted alongside a
// document. The JSON shape round-trips losslessly: fields are never silently
// dropped on re-read.
type DocumentMetadata struct {
	OriginalName string            `json:"originalName"`
	UploadedAt   time.Time         `json:"uploadedAt"`
	PublicURL    string            `json:"publicUrl,omitempty"`
	Exif         map[string]string `json:"exif,omitempty"`
}

// Document stores an uploaded file's metadata and extracted content. The
// original bytes live in object storage under StorageKey; Content holds the
// extracted text so re-analysis does not require re-extraction.
type Document struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   Case   `gorm:"foreignKey:CaseID" json:"-"`

	// Set after the fact, once the entry this document helped produce exists.
	// A document may only be linked to an entry in the same case.
	EntryID *string          `gorm:"type:uuid;index" json:"entry_id"`
	Entry   *ChronologyEntry `gorm:"foreignKey:EntryID" json:"-"`

	UserID string `gorm:"type:uuid;not null" json:"user_id"`

	Filename   string `gorm:"not null" json:"filename"`
	FileType   string `gorm:"size:100" json:"file_type"`
	FileSize   int64  `json:"file_size"`
	StorageKey string `gorm:"not null" json:"-"`

	Content  string `gorm:"type:text" json:"content"`
	Metadata string `gorm:"type:text" json:"-"`
}

// BeforeCreate hook to generate UUID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}

// GetMetadata deserializes the stored metadata bag
func (d *Document) GetMetadata() (*DocumentMetadata, error) {
	if d.Metadata == "" {
		return nil, nil
	}
	var meta DocumentMetadata
	if err := json.Unmarshal([]byte(d.Metadata), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// SetMetadata serializes the metadata bag for storage
func (d *Document) SetMetadata(meta *DocumentMetadata) error {
	if meta == nil {
		d.Metadata = ""
		return nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	d.Metadata = string(data)
	return nil
}
