package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectImage is one uploaded photo of a listing, stored in a media pool.
// Thumbnails are generated asynchronously by the media processor.
type ProjectImage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UUID          string `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	ProjectID     uint   `gorm:"index" json:"project_id"`
	UserID        uint   `gorm:"index" json:"user_id"`
	StoragePoolID uint   `gorm:"index" json:"storage_pool_id"`
	FileName      string `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath      string `gorm:"type:varchar(255);not null" json:"file_path"`
	FileSize      int64  `gorm:"type:bigint" json:"file_size"`
	FileType      string `gorm:"type:varchar(50)" json:"file_type"`
	FileHash      string `gorm:"type:char(64);index" json:"-"`
	Width         int    `gorm:"type:int" json:"width"`
	Height        int    `gorm:"type:int" json:"height"`
	HasThumbnail  bool   `gorm:"default:false" json:"has_thumbnail"`

	// Capture metadata read from EXIF when present.
	CameraModel *string    `gorm:"type:varchar(255)" json:"camera_model,omitempty"`
	TakenAt     *time.Time `gorm:"type:datetime" json:"taken_at,omitempty"`
	Latitude    *float64   `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude   *float64   `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (pi *ProjectImage) BeforeCreate(tx *gorm.DB) error {
	if pi.UUID == "" {
		pi.UUID = uuid.New().String()
	}
	return nil
}

// FindProjectImageByUUID finds an uploaded photo by its UUID.
func FindProjectImageByUUID(db *gorm.DB, uuid string) (*ProjectImage, error) {
	var image ProjectImage
	result := db.Where("uuid = ?", uuid).First(&image)
	return &image, result.Error
}
