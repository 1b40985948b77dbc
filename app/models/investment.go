package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	InvestmentStatusPending   = "pending"
	InvestmentStatusConfirmed = "confirmed"
	InvestmentStatusRefunded  = "refunded"
)

// Investment records one investor's commitment to a project. Fee and net
// amount are captured at creation time so later fee changes never rewrite
// history.
type Investment struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	ProjectID      uint    `gorm:"not null;index" json:"project_id"`
	Project        Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID         uint    `gorm:"not null;index" json:"user_id"`
	User           User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AmountCents    int64   `gorm:"type:bigint;not null" json:"amount_cents"`
	FeeCents       int64   `gorm:"type:bigint;not null" json:"fee_cents"`
	NetAmountCents int64   `gorm:"type:bigint;not null" json:"net_amount_cents"`
	FeePercent     float64 `gorm:"type:decimal(5,2);not null" json:"fee_percent"`
	Status         string  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Confirm marks the investment as settled and adds it to the project's
// raised amount in one transaction.
func (i *Investment) Confirm(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(i).Update("status", InvestmentStatusConfirmed).Error; err != nil {
			return err
		}
		return tx.Model(&Project{}).Where("id = ?", i.ProjectID).
			UpdateColumn("raised_amount_cents", gorm.Expr("raised_amount_cents + ?", i.NetAmountCents)).Error
	})
}

// SumConfirmedByProject returns the settled net total for a project.
func SumConfirmedByProject(db *gorm.DB, projectID uint) (int64, error) {
	var total int64
	err := db.Model(&Investment{}).
		Where("project_id = ? AND status = ?", projectID, InvestmentStatusConfirmed).
		Select("COALESCE(SUM(net_amount_cents), 0)").
		Row().Scan(&total)
	return total, err
}
