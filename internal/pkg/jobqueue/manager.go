package jobqueue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/immofund/ImmoFund/internal/pkg/billing"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/env"
	metrics "github.com/immofund/ImmoFund/internal/pkg/metrics/counter"
	"github.com/immofund/ImmoFund/internal/pkg/statistics"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue              *Queue
	billingTicker      *time.Ticker
	counterFlushTicker *time.Ticker
	statisticsTicker   *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 5
		if v, err := strconv.Atoi(env.GetEnv("JOB_QUEUE_WORKERS", "5")); err == nil && v > 0 {
			workerCount = v
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	// Start the job queue
	m.queue.Start()

	// Subscription sweep - expires lapsed subscriptions, renews auto-renewing ones
	billingInterval := 1 * time.Hour
	if v, err := strconv.Atoi(env.GetEnv("BILLING_SWEEP_INTERVAL_MINUTES", "")); err == nil && v > 0 {
		billingInterval = time.Duration(v) * time.Minute
	}
	m.billingTicker = time.NewTicker(billingInterval)
	m.wg.Add(1)
	go m.billingSweepWorker(billingInterval)

	// Start counter flush worker (Redis -> DB) every 5 seconds
	m.counterFlushTicker = time.NewTicker(5 * time.Second)
	m.wg.Add(1)
	go m.counterFlushWorker()

	// Refresh the cached platform statistics every 5 minutes
	m.statisticsTicker = time.NewTicker(5 * time.Minute)
	m.wg.Add(1)
	go m.statisticsWorker()

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.billingTicker != nil {
		m.billingTicker.Stop()
	}
	if m.counterFlushTicker != nil {
		m.counterFlushTicker.Stop()
	}
	if m.statisticsTicker != nil {
		m.statisticsTicker.Stop()
	}

	// Signal workers to stop
	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	// Stop the job queue
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// billingSweepWorker runs periodically to expire lapsed subscriptions
func (m *Manager) billingSweepWorker(interval time.Duration) {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started billing sweep worker (interval: %s)", interval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Billing sweep worker stopping")
			return
		case <-m.billingTicker.C:
			log.Debug("[JobQueue Manager] Running subscription expiry sweep")
			if err := m.runBillingSweepOnce(); err != nil {
				log.Errorf("[JobQueue Manager] Subscription sweep error: %v", err)
			}
		}
	}
}

// counterFlushWorker periodically flushes view and download counters from Redis to DB
func (m *Manager) counterFlushWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Counter flush worker stopping")
			return
		case <-m.counterFlushTicker.C:
			if err := m.flushCountersOnce(); err != nil {
				log.Errorf("[JobQueue Manager] Counter flush error: %v", err)
			}
		}
	}
}

// statisticsWorker periodically rebuilds the cached platform statistics
func (m *Manager) statisticsWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Statistics worker stopping")
			return
		case <-m.statisticsTicker.C:
			if err := statistics.UpdateStatisticsCache(); err != nil {
				log.Errorf("[JobQueue Manager] Statistics refresh error: %v", err)
			}
		}
	}
}

func (m *Manager) flushCountersOnce() error {
	// Flush Redis -> DB (batched CASE update)
	return metrics.FlushAll()
}

func (m *Manager) runBillingSweepOnce() error {
	svc := billing.NewServiceFromDB(database.GetDB())
	expired, err := svc.ExpireLapsed(context.Background(), time.Now())
	if err != nil {
		return err
	}
	if expired > 0 {
		log.Infof("[JobQueue Manager] Expired %d lapsed subscriptions", expired)
	}
	return nil
}

// RunBillingSweepOnce exposes a manual trigger for a single expiry sweep (admin use).
func (m *Manager) RunBillingSweepOnce() error {
	return m.runBillingSweepOnce()
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
