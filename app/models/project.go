package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/immofund/ImmoFund/internal/pkg/shortener"
)

// JSON stores raw JSON columns (asset references, repeatable sections).
type JSON json.RawMessage

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = JSON("{}")
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source")
	}
	*j = JSON(bytes)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSON) UnmarshalJSON(data []byte) error {
	*j = JSON(data)
	return nil
}

const (
	ProjectStatusDraft   = "draft"
	ProjectStatusPending = "pending"
	ProjectStatusFunding = "funding"
	ProjectStatusFunded  = "funded"
	ProjectStatusClosed  = "closed"
)

// Project is a property listing raising funds on the platform.
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UUID        string `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	UserID      uint   `gorm:"index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=3,max=150"`
	Location    string `gorm:"type:varchar(200)" json:"location" validate:"required,max=200"`
	// residential, commercial, mixed_use, land
	PropertyType string `gorm:"type:varchar(50)" json:"property_type"`
	Description  string `gorm:"type:text" json:"description"`
	ShareLink    string `gorm:"type:varchar(255) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex" json:"share_link"`

	TargetAmountCents  int64   `gorm:"type:bigint;not null" json:"target_amount_cents"`
	RaisedAmountCents  int64   `gorm:"type:bigint;default:0" json:"raised_amount_cents"`
	MinInvestmentCents int64   `gorm:"type:bigint;not null" json:"min_investment_cents"`
	MaxInvestmentCents int64   `gorm:"type:bigint;default:0" json:"max_investment_cents"` // 0 = no cap
	ExpectedROI        float64 `gorm:"type:decimal(5,2)" json:"expected_roi"`
	TermMonths         int     `gorm:"type:int" json:"term_months"`

	Status    string `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Featured  bool   `gorm:"default:false;index" json:"featured"`
	ViewCount int    `gorm:"default:0" json:"view_count"`

	// Asset references returned by the media uploader, plus the repeatable
	// narrative sections captured by the listing form.
	ImagesJSON      *JSON `gorm:"type:json" json:"images"`
	HighlightsJSON  *JSON `gorm:"type:json" json:"highlights"`
	RisksJSON       *JSON `gorm:"type:json" json:"risks"`
	MitigationsJSON *JSON `gorm:"type:json" json:"mitigations"`
	TimelineJSON    *JSON `gorm:"type:json" json:"timeline"`

	Images      []ProjectImage `gorm:"foreignKey:ProjectID" json:"project_images,omitempty"`
	Documents   []Document     `gorm:"foreignKey:ProjectID" json:"documents,omitempty"`
	Investments []Investment   `gorm:"foreignKey:ProjectID" json:"investments,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID and a placeholder share link.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	if p.ShareLink == "" {
		// The real share link needs the numeric ID, assigned after insert.
		p.ShareLink = "temp"
	}
	return nil
}

// AfterCreate replaces the placeholder share link once an ID exists.
func (p *Project) AfterCreate(tx *gorm.DB) error {
	if p.ShareLink == "temp" {
		p.ShareLink = shortener.EncodeID(p.ID)
		return tx.Model(p).Update("share_link", p.ShareLink).Error
	}
	return nil
}

// IsOpenForInvestment reports whether investments are currently accepted.
func (p *Project) IsOpenForInvestment() bool {
	return p.Status == ProjectStatusFunding
}

// IncrementViewCount bumps the listing view counter.
func (p *Project) IncrementViewCount(db *gorm.DB) error {
	return db.Model(p).UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// FindProjectByUUID finds a project by its UUID.
func FindProjectByUUID(db *gorm.DB, uuid string) (*Project, error) {
	var project Project
	result := db.Where("uuid = ?", uuid).First(&project)
	return &project, result.Error
}

// FindProjectByShareLink finds a project by its public share link.
func FindProjectByShareLink(db *gorm.DB, shareLink string) (*Project, error) {
	var project Project
	result := db.Where("share_link = ?", shareLink).First(&project)
	return &project, result.Error
}
