package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/cache"
	"github.com/immofund/ImmoFund/internal/pkg/database"
)

const (
	CacheKeyProjectsTotal    = "statistics:projects:total"
	CacheKeyInvestmentsDaily = "statistics:investments:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyUsersTotal       = "statistics:users:total"
	CacheKeyRaisedTotal      = "statistics:raised:total"
	CacheExpiration          = 30 * time.Minute
)

// StatisticsData holds the aggregate numbers shown on the start page
type StatisticsData struct {
	TodayInvestments int
	TotalUsers       int
	TotalProjects    int
	TotalRaisedCents int64
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached numbers are stale
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the statistics cache when it is stale
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next check to refresh the cache
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache updates all statistics in the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalProjects int64
	if err := db.Model(&models.Project{}).Count(&totalProjects).Error; err != nil {
		log.Printf("Error counting total projects: %v", err)
		return err
	}

	var todayInvestments int64
	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)

	if err := db.Model(&models.Investment{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&todayInvestments).Error; err != nil {
		log.Printf("Error counting today's investments: %v", err)
		return err
	}

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Error counting total users: %v", err)
		return err
	}

	var totalRaised int64
	if err := db.Model(&models.Investment{}).
		Where("status = ?", models.InvestmentStatusConfirmed).
		Select("COALESCE(SUM(net_amount_cents), 0)").
		Scan(&totalRaised).Error; err != nil {
		log.Printf("Error summing raised amount: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyProjectsTotal, strconv.FormatInt(totalProjects, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total projects: %v", err)
		return err
	}

	dailyKey := fmt.Sprintf(CacheKeyInvestmentsDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todayInvestments, 10), CacheExpiration); err != nil {
		log.Printf("Error caching today's investments: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total users: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyRaisedTotal, strconv.FormatInt(totalRaised, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total raised: %v", err)
		return err
	}

	log.Printf("Statistics updated in cache: Projects: %d, Today's Investments: %d, Users: %d, Raised: %d",
		totalProjects, todayInvestments, totalUsers, totalRaised)

	return nil
}

// GetTotalProjects returns the total number of projects from cache or database
func GetTotalProjects() int {
	val, err := cache.Get(CacheKeyProjectsTotal)
	if err != nil {
		var count int64
		db := database.GetDB()
		if err := db.Model(&models.Project{}).Count(&count).Error; err != nil {
			log.Printf("Error counting total projects: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyProjectsTotal, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching total projects: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetTodayInvestments returns the number of investments made today from cache or database
func GetTodayInvestments() int {
	today := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf(CacheKeyInvestmentsDaily, today)

	val, err := cache.Get(dailyKey)
	if err != nil {
		var count int64
		db := database.GetDB()
		todayStart, _ := time.Parse("2006-01-02", today)
		todayEnd := todayStart.Add(24 * time.Hour)

		if err := db.Model(&models.Investment{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&count).Error; err != nil {
			log.Printf("Error counting today's investments: %v", err)
			return 0
		}

		if err := cache.Set(dailyKey, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching today's investments: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetTotalUsers returns the total number of users from cache or database
func GetTotalUsers() int {
	val, err := cache.Get(CacheKeyUsersTotal)
	if err != nil {
		var count int64
		db := database.GetDB()
		if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
			log.Printf("Error counting total users: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching total users: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetTotalRaisedCents returns the confirmed net amount raised across all projects
func GetTotalRaisedCents() int64 {
	val, err := cache.Get(CacheKeyRaisedTotal)
	if err != nil {
		var total int64
		db := database.GetDB()
		if err := db.Model(&models.Investment{}).
			Where("status = ?", models.InvestmentStatusConfirmed).
			Select("COALESCE(SUM(net_amount_cents), 0)").
			Scan(&total).Error; err != nil {
			log.Printf("Error summing raised amount: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyRaisedTotal, strconv.FormatInt(total, 10), CacheExpiration); err != nil {
			log.Printf("Error caching total raised: %v", err)
		}

		return total
	}

	total, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return total
}

// GetStatisticsData returns all statistics data as StatisticsData structure
func GetStatisticsData() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TodayInvestments: GetTodayInvestments(),
		TotalUsers:       GetTotalUsers(),
		TotalProjects:    GetTotalProjects(),
		TotalRaisedCents: GetTotalRaisedCents(),
	}
}
