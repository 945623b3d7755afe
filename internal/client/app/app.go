// Package app wires the client together: cache, API client, session,
// repositories, task queue and scheduler.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/kaanbaran/libraryapp/internal/client/api"
	"github.com/kaanbaran/libraryapp/internal/client/cache"
	"github.com/kaanbaran/libraryapp/internal/client/repository"
	"github.com/kaanbaran/libraryapp/internal/client/scheduler"
	"github.com/kaanbaran/libraryapp/internal/client/session"
	"github.com/kaanbaran/libraryapp/internal/client/tasks"
	"github.com/kaanbaran/libraryapp/internal/config"
)

// App owns every client component. Construct with New, start background
// work with Start, and tear down with Stop and Close.
type App struct {
	Cache     *cache.Cache
	Session   *session.Session
	API       *api.Client
	Books     *repository.BookRepository
	Auth      *repository.AuthRepository
	Tasks     *tasks.Client
	Scheduler *scheduler.CatalogSyncScheduler
}

// New assembles the client from configuration.
func New(cfg *config.Config) (*App, error) {
	c, err := cache.Open(cfg.Client.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	sess, err := session.NewSession(c)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	apiClient := api.NewClient(cfg.Client.ServerURL, sess.Token)

	books, err := repository.NewBookRepository(c, apiClient)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build book repository: %w", err)
	}

	auth := repository.NewAuthRepository(c, apiClient, sess)

	app := &App{
		Cache:   c,
		Session: sess,
		API:     apiClient,
		Books:   books,
		Auth:    auth,
	}

	if cfg.Tasks.Enabled {
		taskClient, err := tasks.NewClient(cfg.Client.CachePath, tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to build task queue: %w", err)
		}
		taskClient.Register(tasks.NewCatalogSyncQueue(books))

		app.Tasks = taskClient
		app.Scheduler = scheduler.NewCatalogSyncScheduler(taskClient, cfg.CatalogSync)
	}

	return app, nil
}

// Start launches the task workers and the periodic sync scheduler, then
// kicks off an initial catalog sync.
func (a *App) Start(ctx context.Context) error {
	if a.Tasks != nil {
		go a.Tasks.Start(ctx)
	}
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(); err != nil {
			return err
		}
		a.Scheduler.RunNow()
	} else {
		a.Books.Refresh(ctx)
	}
	return nil
}

// Stop halts background work, waiting up to the context deadline.
func (a *App) Stop(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
	}
}

// Close releases the app's databases. Call after Stop.
func (a *App) Close() {
	if a.Tasks != nil {
		if err := a.Tasks.Close(); err != nil {
			log.Printf("Error closing tasks database: %v", err)
		}
	}
	if err := a.Cache.Close(); err != nil {
		log.Printf("Error closing cache: %v", err)
	}
}
