// Package scheduler triggers periodic catalog syncs on a cron schedule. The
// actual sync runs through the task queue so failed runs are retried.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kaanbaran/libraryapp/internal/client/tasks"
	"github.com/kaanbaran/libraryapp/internal/config"
)

// CatalogSyncScheduler enqueues a catalog sync task on a fixed schedule.
type CatalogSyncScheduler struct {
	taskClient *tasks.Client
	cfg        config.CatalogSync

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewCatalogSyncScheduler creates a scheduler over the given task client.
func NewCatalogSyncScheduler(taskClient *tasks.Client, cfg config.CatalogSync) *CatalogSyncScheduler {
	return &CatalogSyncScheduler{
		taskClient: taskClient,
		cfg:        cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if periodic sync is enabled.
func (s *CatalogSyncScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Catalog sync scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.enqueue("scheduled")
	})
	if err != nil {
		return fmt.Errorf("invalid catalog sync schedule '%s': %w", s.cfg.Schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Catalog sync scheduler: started with schedule '%s'", s.cfg.Schedule)
	return nil
}

// Stop halts the scheduler and waits for any in-flight trigger to finish.
func (s *CatalogSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	log.Printf("Catalog sync scheduler: stopped")
}

// RunNow enqueues an immediate sync regardless of the schedule.
func (s *CatalogSyncScheduler) RunNow() {
	s.enqueue("manual")
}

// IsRunning reports whether the scheduler is active.
func (s *CatalogSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next scheduled sync will fire.
func (s *CatalogSyncScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CatalogSyncScheduler) enqueue(reason string) {
	if _, err := s.taskClient.Add(tasks.CatalogSyncTask{Reason: reason}).Save(); err != nil {
		log.Printf("Catalog sync scheduler: failed to enqueue sync: %v", err)
	}
}
