package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CatalogSyncer refreshes the local catalog from the backend.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context) error
}

// CatalogSyncTask pulls the full catalog into the local cache. Failed runs
// are retried with backoff, so a sync requested while offline completes once
// connectivity returns.
type CatalogSyncTask struct {
	Reason string `json:"reason"`
}

// Config returns the queue configuration for catalog sync tasks.
func (t CatalogSyncTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "catalog_sync",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CatalogSyncProcessor creates a processor function for CatalogSyncTask.
func CatalogSyncProcessor(syncer CatalogSyncer) backlite.QueueProcessor[CatalogSyncTask] {
	return func(ctx context.Context, task CatalogSyncTask) error {
		if syncer == nil {
			return fmt.Errorf("catalog syncer not configured")
		}

		if err := syncer.SyncCatalog(ctx); err != nil {
			return fmt.Errorf("catalog sync (%s): %w", task.Reason, err)
		}

		log.Printf("[TASK] Catalog synced (%s)", task.Reason)
		return nil
	}
}

// NewCatalogSyncQueue creates a backlite queue for catalog sync tasks.
func NewCatalogSyncQueue(syncer CatalogSyncer) backlite.Queue {
	return backlite.NewQueue(CatalogSyncProcessor(syncer))
}
