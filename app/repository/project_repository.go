package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/immofund/ImmoFund/app/models"
	"gorm.io/gorm"
)

// projectRepository implements the ProjectRepository interface
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create creates a new project in the database
func (r *projectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// GetByID retrieves a project by its ID
func (r *projectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByUUID retrieves a project by its UUID
func (r *projectRepository) GetByUUID(uuid string) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("uuid = ?", uuid).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByShareLink retrieves a project by its public share link
func (r *projectRepository) GetByShareLink(shareLink string) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("share_link = ?", shareLink).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByUserID retrieves a developer's projects with pagination
func (r *projectRepository) GetByUserID(userID uint, offset, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&projects).Error
	return projects, err
}

// Update updates an existing project in the database
func (r *projectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete soft deletes a project by its ID
func (r *projectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Project{}, id).Error
}

// List retrieves a paginated list of projects
func (r *projectRepository) List(offset, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&projects).Error
	return projects, err
}

// Count returns the total number of projects
func (r *projectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}

// CountByUserID returns the total number of projects owned by a user
func (r *projectRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountActiveByUserID counts a developer's listings that still occupy a slot.
// Closed listings no longer count against the plan limit.
func (r *projectRepository) CountActiveByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Where("user_id = ? AND status <> ?", userID, models.ProjectStatusClosed).
		Count(&count).Error
	return count, err
}

// Search searches projects by title or location
func (r *projectRepository) Search(query string) ([]models.Project, error) {
	var projects []models.Project
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("title LIKE ? OR location LIKE ?", searchPattern, searchPattern).
		Find(&projects).Error
	return projects, err
}

// GetFundingProjects retrieves projects currently open for investment
func (r *projectRepository) GetFundingProjects(offset, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("status = ?", models.ProjectStatusFunding).
		Order("featured DESC, created_at DESC").
		Offset(offset).Limit(limit).Find(&projects).Error
	return projects, err
}

// GetFeaturedProjects retrieves featured projects open for investment
func (r *projectRepository) GetFeaturedProjects(limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("status = ? AND featured = ?", models.ProjectStatusFunding, true).
		Order("created_at DESC").Limit(limit).Find(&projects).Error
	return projects, err
}

// GetRecentProjects retrieves the most recently opened projects
func (r *projectRepository) GetRecentProjects(limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("status IN ?", []string{models.ProjectStatusFunding, models.ProjectStatusFunded}).
		Order("created_at DESC").Limit(limit).Find(&projects).Error
	return projects, err
}

// GetByStatus retrieves projects in a given lifecycle status
func (r *projectRepository) GetByStatus(status string, offset, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("status = ?", status).
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&projects).Error
	return projects, err
}

// CountByStatus counts projects in a given lifecycle status
func (r *projectRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// UpdateViewCount increments the view count for a project
func (r *projectRepository) UpdateViewCount(id uint) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// GetDailyStats returns daily project creation statistics for a date range
func (r *projectRepository) GetDailyStats(startDate, endDate time.Time) ([]models.DailyStats, error) {
	var results []struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}

	err := r.db.Model(&models.Project{}).
		Select("DATE_FORMAT(created_at, '%Y-%m-%d') as date, COUNT(*) as count").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE_FORMAT(created_at, '%Y-%m-%d')").
		Order("date").
		Find(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get daily project stats: %w", err)
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
