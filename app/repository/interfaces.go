package repository

import (
	"time"

	"github.com/immofund/ImmoFund/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, *models.UserSettings, error)
	GetStatsByUserID(userID uint) (*UserStats, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	GetWithStats(offset, limit int) ([]UserWithStats, error)
	SearchWithStats(query string) ([]UserWithStats, error)
	GetDailyStats(startDate, endDate time.Time) ([]models.DailyStats, error)
}

// ProjectRepository defines the interface for listing-related database operations
type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id uint) (*models.Project, error)
	GetByUUID(uuid string) (*models.Project, error)
	GetByShareLink(shareLink string) (*models.Project, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Project, error)
	Update(project *models.Project) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Project, error)
	Count() (int64, error)
	CountByUserID(userID uint) (int64, error)
	CountActiveByUserID(userID uint) (int64, error)
	Search(query string) ([]models.Project, error)
	GetFundingProjects(offset, limit int) ([]models.Project, error)
	GetFeaturedProjects(limit int) ([]models.Project, error)
	GetRecentProjects(limit int) ([]models.Project, error)
	GetByStatus(status string, offset, limit int) ([]models.Project, error)
	CountByStatus(status string) (int64, error)
	UpdateViewCount(id uint) error
	GetDailyStats(startDate, endDate time.Time) ([]models.DailyStats, error)
}

// InvestmentRepository defines the interface for investment-related database operations
type InvestmentRepository interface {
	Create(investment *models.Investment) error
	GetByID(id uint) (*models.Investment, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Investment, error)
	GetByProjectID(projectID uint) ([]models.Investment, error)
	Count() (int64, error)
	CountByUserID(userID uint) (int64, error)
	SumConfirmedByProject(projectID uint) (int64, error)
	SumConfirmedNetTotal() (int64, error)
	Confirm(investment *models.Investment) error
	Refund(investment *models.Investment) error
	GetDailyStats(startDate, endDate time.Time) ([]models.DailyStats, error)
}

// DocumentRepository defines the interface for vault document operations
type DocumentRepository interface {
	Create(document *models.Document) error
	GetByID(id uint) (*models.Document, error)
	GetByUUID(uuid string) (*models.Document, error)
	GetByProjectID(projectID uint) ([]models.Document, error)
	GetPublicByProjectID(projectID uint) ([]models.Document, error)
	Update(document *models.Document) error
	Delete(id uint) error
	CountByProjectID(projectID uint) (int64, error)
}

// StoragePoolRepository defines the interface for storage pool operations
type StoragePoolRepository interface {
	Create(pool *models.StoragePool) error
	GetByID(id uint) (*models.StoragePool, error)
	GetAll() ([]models.StoragePool, error)
	GetActive() ([]models.StoragePool, error)
	GetOptimalForFile(fileSize int64) (*models.StoragePool, error)
	Update(pool *models.StoragePool) error
	Delete(id uint) error
	UpdateUsage(id uint, sizeChange int64) error
	GetStats(id uint) (*models.StoragePoolStats, error)
	GetAllStats() ([]models.StoragePoolStats, error)

	// Additional methods for admin storage management
	GetHealthStatus() (map[uint]bool, error)
	IsPoolHealthy(id uint) (bool, error)
	CountImagesInPool(poolID uint) (int64, error)
	RecalculatePoolUsage(poolID uint) (int64, error)
}

// SettingRepository defines the interface for application settings
type SettingRepository interface {
	Get() (*models.AppSettings, error)
	Save(settings *models.AppSettings) error
	GetValue(key string) (string, error)
	SetValue(key, value string) error
}

// QueueRepository defines the interface for cache/queue operations
type QueueRepository interface {
	GetAllKeys() ([]string, error)
	GetValue(key string) (string, error)
	GetTTL(key string) (time.Duration, error)
	DeleteKey(key string) (int64, error)
	GetListLength(key string) (int64, error)
	FindKeysByPatterns(patterns []string) ([]string, error)
	DeleteKeys(keys []string) (int64, error)
}

// UserWithStats represents a user with additional statistics
type UserWithStats struct {
	User               models.User
	ProjectCount       int64
	InvestmentCount    int64
	InvestedTotalCents int64
}

// UserStats provides aggregated counts for a single user (listings, investments, invested total).
type UserStats struct {
	ProjectCount       int64
	InvestmentCount    int64
	InvestedTotalCents int64
}

// Repositories struct holds all repository instances
type Repositories struct {
	User        UserRepository
	Project     ProjectRepository
	Investment  InvestmentRepository
	Document    DocumentRepository
	StoragePool StoragePoolRepository
	Setting     SettingRepository
	Queue       QueueRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Project:     NewProjectRepository(db),
		Investment:  NewInvestmentRepository(db),
		Document:    NewDocumentRepository(db),
		StoragePool: NewStoragePoolRepository(db),
		Setting:     NewSettingRepository(db),
		Queue:       NewQueueRepository(),
	}
}
