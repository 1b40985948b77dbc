package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DocumentTypeProspectus = "prospectus"
	DocumentTypeContract   = "contract"
	DocumentTypeValuation  = "valuation"
	DocumentTypeOther      = "other"
)

// Document is a project file (prospectus, contract, valuation report) held
// in the S3 document vault and served through signed download tokens.
type Document struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UUID       string `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	ProjectID  uint   `gorm:"not null;index" json:"project_id"`
	UserID     uint   `gorm:"index" json:"user_id"`
	Type       string `gorm:"type:varchar(32);not null;default:'other'" json:"type" validate:"oneof=prospectus contract valuation other"`
	Title      string `gorm:"type:varchar(255);not null" json:"title"`
	FileName   string `gorm:"type:varchar(255);not null" json:"file_name"`
	StorageKey string `gorm:"type:varchar(500);not null" json:"-"`
	FileSize   int64  `gorm:"type:bigint" json:"file_size"`
	// Investor-visible documents show up on the public listing page.
	IsPublic      bool  `gorm:"default:false" json:"is_public"`
	DownloadCount int64 `gorm:"default:0" json:"download_count"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == "" {
		d.UUID = uuid.New().String()
	}
	return nil
}

// FindDocumentByUUID finds a document by its UUID.
func FindDocumentByUUID(db *gorm.DB, uuid string) (*Document, error) {
	var doc Document
	result := db.Where("uuid = ?", uuid).First(&doc)
	return &doc, result.Error
}

// FindPublicDocumentsByProject lists investor-visible documents of a project.
func FindPublicDocumentsByProject(db *gorm.DB, projectID uint) ([]Document, error) {
	var docs []Document
	result := db.Where("project_id = ? AND is_public = ?", projectID, true).
		Order("created_at ASC").
		Find(&docs)
	return docs, result.Error
}
