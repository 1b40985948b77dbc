package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AddOnTypeBoost    = "boost"
	AddOnTypeCampaign = "campaign"
	AddOnTypeBranding = "branding"

	AddOnStatusActive  = "active"
	AddOnStatusExpired = "expired"
)

// AddOn is a separately purchased capability, independent of the
// subscription tier. It may target a single project or the whole account.
type AddOn struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	ProjectID  *uint      `gorm:"index;default:null" json:"project_id,omitempty"`
	Type       string     `gorm:"type:varchar(32);not null" json:"type" validate:"oneof=boost campaign branding"`
	PriceCents int64      `gorm:"type:bigint;not null" json:"price_cents"`
	Status     string     `gorm:"type:varchar(20);not null;default:'active'" json:"status" validate:"oneof=active expired"`
	EndDate    *time.Time `gorm:"type:timestamp;default:null" json:"end_date,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired reports whether a time-boxed add-on has run out.
func (a *AddOn) IsExpired(now time.Time) bool {
	if a.Status == AddOnStatusExpired {
		return true
	}
	return a.EndDate != nil && a.EndDate.Before(now)
}

// FindActiveAddOns returns all currently active add-ons for a user.
func FindActiveAddOns(db *gorm.DB, userID uint) ([]AddOn, error) {
	var addons []AddOn
	result := db.Where("user_id = ? AND status = ?", userID, AddOnStatusActive).
		Order("created_at DESC").
		Find(&addons)
	return addons, result.Error
}
