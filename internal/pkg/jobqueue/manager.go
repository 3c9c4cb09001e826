package jobqueue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/shopforge/shopforge/internal/pkg/database"
	"github.com/shopforge/shopforge/internal/pkg/env"
	"github.com/shopforge/shopforge/internal/pkg/payments"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue            *Queue
	staleEventTicker *time.Ticker
	stopCh           chan struct{}
	wg               sync.WaitGroup
	mu               sync.Mutex
	running          bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := envInt("JOBQUEUE_WORKERS", 5)

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

	m.queue.Start()

	// Stale webhook event sweep. Payment providers stop redelivering after a
	// while, so claimed-but-unprocessed rows older than the cutoff need an
	// operator and get surfaced in the log.
	sweepInterval := time.Duration(envInt("STALE_EVENT_SWEEP_MINUTES", 15)) * time.Minute
	m.staleEventTicker = time.NewTicker(sweepInterval)
	m.wg.Add(1)
	go m.staleEventWorker()

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

	if m.staleEventTicker != nil {
		m.staleEventTicker.Stop()
	}

	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	m.wg.Wait()

	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// staleEventWorker runs periodically to flag webhook events that were
// claimed but never reached a processed state.
func (m *Manager) staleEventWorker() {
	defer m.wg.Done()
	log.Info("[JobQueue Manager] Started stale event worker")

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Stale event worker stopping")
			return
		case <-m.staleEventTicker.C:
			if err := m.runStaleEventSweepOnce(); err != nil {
				log.Errorf("[JobQueue Manager] Stale event sweep error: %v", err)
			}
		}
	}
}

func (m *Manager) runStaleEventSweepOnce() error {
	maxAge := time.Duration(envInt("STALE_EVENT_MAX_AGE_MINUTES", 60)) * time.Minute
	svc := payments.NewServiceFromDB(database.GetDB(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events, err := svc.StaleUnprocessedEvents(ctx, maxAge, 100)
	if err != nil {
		return err
	}

	for _, evt := range events {
		log.Warnf("[JobQueue Manager] Stale webhook event %s (provider=%s, type=%s, age=%s)",
			evt.EventID, evt.Provider, evt.EventType, time.Since(evt.CreatedAt).Round(time.Second))
	}
	if len(events) > 0 {
		log.Warnf("[JobQueue Manager] %d stale webhook events need attention", len(events))
	}

	return nil
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// RunStaleEventSweepOnce exposes a manual trigger for a single sweep (admin use).
func (m *Manager) RunStaleEventSweepOnce() error {
	return m.runStaleEventSweepOnce()
}

func envInt(key string, fallback int) int {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
