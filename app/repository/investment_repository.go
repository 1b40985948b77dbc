package repository

import (
	"fmt"
	"time"

	"github.com/immofund/ImmoFund/app/models"
	"gorm.io/gorm"
)

// investmentRepository implements the InvestmentRepository interface
type investmentRepository struct {
	db *gorm.DB
}

// NewInvestmentRepository creates a new investment repository instance
func NewInvestmentRepository(db *gorm.DB) InvestmentRepository {
	return &investmentRepository{db: db}
}

// Create creates a new investment in the database
func (r *investmentRepository) Create(investment *models.Investment) error {
	return r.db.Create(investment).Error
}

// GetByID retrieves an investment by its ID
func (r *investmentRepository) GetByID(id uint) (*models.Investment, error) {
	var investment models.Investment
	err := r.db.First(&investment, id).Error
	if err != nil {
		return nil, err
	}
	return &investment, nil
}

// GetByUserID retrieves an investor's investments with pagination
func (r *investmentRepository) GetByUserID(userID uint, offset, limit int) ([]models.Investment, error) {
	var investments []models.Investment
	err := r.db.Preload("Project").Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&investments).Error
	return investments, err
}

// GetByProjectID retrieves all investments in a project
func (r *investmentRepository) GetByProjectID(projectID uint) ([]models.Investment, error) {
	var investments []models.Investment
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").Find(&investments).Error
	return investments, err
}

// Count returns the total number of investments
func (r *investmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Investment{}).Count(&count).Error
	return count, err
}

// CountByUserID returns the total number of investments by a user
func (r *investmentRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Investment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// SumConfirmedByProject returns the settled net total for a project
func (r *investmentRepository) SumConfirmedByProject(projectID uint) (int64, error) {
	return models.SumConfirmedByProject(r.db, projectID)
}

// SumConfirmedNetTotal returns the settled net total across all projects
func (r *investmentRepository) SumConfirmedNetTotal() (int64, error) {
	var total int64
	err := r.db.Model(&models.Investment{}).
		Where("status = ?", models.InvestmentStatusConfirmed).
		Select("COALESCE(SUM(net_amount_cents), 0)").
		Row().Scan(&total)
	return total, err
}

// Confirm settles an investment and adds its net amount to the project
func (r *investmentRepository) Confirm(investment *models.Investment) error {
	return investment.Confirm(r.db)
}

// Refund reverses a confirmed investment and subtracts its net amount from
// the project's raised total
func (r *investmentRepository) Refund(investment *models.Investment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		wasConfirmed := investment.Status == models.InvestmentStatusConfirmed
		if err := tx.Model(investment).Update("status", models.InvestmentStatusRefunded).Error; err != nil {
			return err
		}
		if !wasConfirmed {
			return nil
		}
		return tx.Model(&models.Project{}).Where("id = ?", investment.ProjectID).
			UpdateColumn("raised_amount_cents", gorm.Expr("raised_amount_cents - ?", investment.NetAmountCents)).Error
	})
}

// GetDailyStats returns daily investment counts for a date range
func (r *investmentRepository) GetDailyStats(startDate, endDate time.Time) ([]models.DailyStats, error) {
	var results []struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}

	err := r.db.Model(&models.Investment{}).
		Select("DATE_FORMAT(created_at, '%Y-%m-%d') as date, COUNT(*) as count").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE_FORMAT(created_at, '%Y-%m-%d')").
		Order("date").
		Find(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get daily investment stats: %w", err)
	}

	dailyStats := make([]models.DailyStats, len(results))
	for i, result := range results {
		dailyStats[i] = models.DailyStats{
			Date:  result.Date,
			Count: int(result.Count),
		}
	}

	return dailyStats, nil
}
