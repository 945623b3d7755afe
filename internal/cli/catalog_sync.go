// Package cli implements the one-shot commands of the binary.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kaanbaran/libraryapp/internal/client/api"
	"github.com/kaanbaran/libraryapp/internal/client/cache"
	"github.com/kaanbaran/libraryapp/internal/client/repository"
	"github.com/kaanbaran/libraryapp/internal/client/session"
	"github.com/kaanbaran/libraryapp/internal/config"
)

// CatalogSyncCommand performs a single catalog sync into the local cache.
type CatalogSyncCommand struct {
	ServerURL string
	CachePath string
	Timeout   time.Duration
}

// NewCatalogSyncCommand creates a new CatalogSyncCommand.
func NewCatalogSyncCommand() *CatalogSyncCommand {
	return &CatalogSyncCommand{}
}

// ParseFlags parses command line flags.
func (cmd *CatalogSyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	fs.StringVar(&cmd.ServerURL, "server", "http://localhost:3000", "Base URL of the backend server")
	fs.StringVar(&cmd.CachePath, "cache", config.DefaultCacheDatabasePath, "Path to the local cache database")
	fs.DurationVar(&cmd.Timeout, "timeout", 2*time.Minute, "Overall timeout for the sync")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch the full book catalog from the server into the local cache.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sync\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -server https://library.example.com\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the sync command.
func (cmd *CatalogSyncCommand) Run() error {
	absCachePath, err := filepath.Abs(cmd.CachePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for cache: %w", err)
	}

	c, err := cache.Open(absCachePath)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer c.Close()

	sess, err := session.NewSession(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	client := api.NewClient(cmd.ServerURL, sess.Token)
	repo, err := repository.NewBookRepository(c, client)
	if err != nil {
		return fmt.Errorf("failed to build repository: %w", err)
	}

	fmt.Printf("Cache: %s\n", absCachePath)
	fmt.Printf("Server: %s\n", cmd.ServerURL)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	if err := repo.SyncCatalog(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	count, err := c.CountBooks()
	if err != nil {
		return err
	}
	fmt.Printf("Synced catalog: %d books cached\n", count)
	return nil
}
