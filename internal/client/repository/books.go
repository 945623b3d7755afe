// Package repository implements the client's offline-first data policies.
// Reads come from the local cache; the network is used to refresh it and to
// push changes, and every screen-facing read keeps working without it.
package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kaanbaran/libraryapp/internal/client/api"
	"github.com/kaanbaran/libraryapp/internal/client/cache"
	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/observe"
)

// ErrBookNotFound is returned when a book exists neither locally nor on the
// backend.
var ErrBookNotFound = errors.New("book not found")

// BookRepository manages the catalog, favorites and reviews. The observable
// catalog always reflects the cache contents.
type BookRepository struct {
	cache   *cache.Cache
	api     *api.Client
	catalog *observe.Value[[]entities.Book]
}

// NewBookRepository creates a repository and publishes whatever the cache
// currently holds.
func NewBookRepository(c *cache.Cache, a *api.Client) (*BookRepository, error) {
	books, err := c.AllBooks()
	if err != nil {
		return nil, err
	}
	return &BookRepository{
		cache:   c,
		api:     a,
		catalog: observe.NewValue(books),
	}, nil
}

// Observe subscribes to catalog changes. The current catalog is delivered
// immediately. The returned function cancels the subscription.
func (r *BookRepository) Observe(fn func([]entities.Book)) func() {
	return r.catalog.Subscribe(fn)
}

// Books returns the current cached catalog.
func (r *BookRepository) Books() []entities.Book {
	return r.catalog.Get()
}

// Refresh updates the cache from the backend. Failures are logged, never
// returned: screens keep rendering whatever is cached.
func (r *BookRepository) Refresh(ctx context.Context) {
	if err := r.SyncCatalog(ctx); err != nil {
		log.Printf("catalog refresh failed: %v", err)
	}
}

// SyncCatalog fetches the full catalog and replaces the cached copy. When the
// fetch fails and the cache is empty, a small built-in catalog is seeded so
// the app never shows a blank first screen. The fetch error is returned so
// callers can retry.
func (r *BookRepository) SyncCatalog(ctx context.Context) error {
	books, err := r.api.Books(ctx)
	if err != nil {
		r.seedIfEmpty()
		return err
	}

	if err := r.cache.UpsertBooks(books); err != nil {
		return err
	}
	r.publish()
	return nil
}

// seedIfEmpty populates the cache with the built-in demo catalog, but only
// when it holds no books at all. Seeding twice is a no-op.
func (r *BookRepository) seedIfEmpty() {
	count, err := r.cache.CountBooks()
	if err != nil {
		log.Printf("failed to count cached books: %v", err)
		return
	}
	if count > 0 {
		return
	}
	if err := r.cache.UpsertBooks(demoCatalog(time.Now().UnixMilli())); err != nil {
		log.Printf("failed to seed demo catalog: %v", err)
		return
	}
	r.publish()
}

// GetByID returns the book from the cache, falling back to a single backend
// lookup on a local miss. A fetched book is cached before being returned.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*entities.Book, error) {
	book, err := r.cache.GetBook(id)
	if err != nil {
		return nil, err
	}
	if book != nil {
		return book, nil
	}

	book, err = r.api.BookByID(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if err := r.cache.UpsertBook(*book); err != nil {
		return nil, err
	}
	r.publish()
	return book, nil
}

// Add creates a book on the backend and caches the server's copy. When the
// backend is unreachable the book is stored locally with a generated id so
// the work is not lost.
func (r *BookRepository) Add(ctx context.Context, book entities.Book) (*entities.Book, error) {
	created, err := r.api.AddBook(ctx, book)
	if err != nil {
		log.Printf("remote book create failed, keeping local copy: %v", err)
		created = &book
		if created.ID == "" {
			created.ID = uuid.NewString()
		}
		now := time.Now().UnixMilli()
		if created.AddedAt == 0 {
			created.AddedAt = now
		}
		created.UpdatedAt = now
	}

	if err := r.cache.UpsertBook(*created); err != nil {
		return nil, err
	}
	r.publish()
	return created, nil
}

// Delete removes the book locally and tells the backend. The local delete is
// authoritative: a backend failure is logged and the book stays gone.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	if err := r.cache.DeleteBook(id); err != nil {
		return err
	}
	r.publish()

	if err := r.api.DeleteBook(ctx, id); err != nil {
		log.Printf("remote book delete failed: %v", err)
	}
	return nil
}

// Search matches the cached catalog by title, author or ISBN.
func (r *BookRepository) Search(query string) ([]entities.Book, error) {
	return r.cache.SearchBooks(query)
}

// Recommendations asks the backend for a random sample, falling back to the
// newest cached books when offline.
func (r *BookRepository) Recommendations(ctx context.Context) ([]entities.Book, error) {
	books, err := r.api.Recommendations(ctx)
	if err == nil {
		return books, nil
	}
	log.Printf("recommendations fetch failed, using cache: %v", err)

	cached, cacheErr := r.cache.AllBooks()
	if cacheErr != nil {
		return nil, cacheErr
	}
	if len(cached) > 3 {
		cached = cached[:3]
	}
	return cached, nil
}

// --- Favorites ---

// ToggleFavorite flips the local favorite state and reports the new state.
// The backend update is best effort.
func (r *BookRepository) ToggleFavorite(ctx context.Context, userID, bookID string) (bool, error) {
	isFav, err := r.cache.IsFavorite(userID, bookID)
	if err != nil {
		return false, err
	}

	if isFav {
		if err := r.cache.RemoveFavorite(userID, bookID); err != nil {
			return false, err
		}
		if err := r.api.RemoveFavorite(ctx, bookID); err != nil {
			log.Printf("remote favorite remove failed: %v", err)
		}
		return false, nil
	}

	if err := r.cache.AddFavorite(userID, bookID, time.Now().UnixMilli()); err != nil {
		return false, err
	}
	if err := r.api.AddFavorite(ctx, bookID); err != nil {
		log.Printf("remote favorite add failed: %v", err)
	}
	return true, nil
}

// IsFavorite reads the local favorite state.
func (r *BookRepository) IsFavorite(userID, bookID string) (bool, error) {
	return r.cache.IsFavorite(userID, bookID)
}

// FavoriteIDs returns the user's locally cached favorite book ids.
func (r *BookRepository) FavoriteIDs(userID string) ([]string, error) {
	return r.cache.FavoriteBookIDs(userID)
}

// SyncFavorites replaces the local favorites with the backend's list.
// Failures are logged, the local state stays as is.
func (r *BookRepository) SyncFavorites(ctx context.Context, userID string) {
	ids, err := r.api.Favorites(ctx)
	if err != nil {
		log.Printf("favorites sync failed: %v", err)
		return
	}
	if err := r.cache.ReplaceFavorites(userID, ids, time.Now().UnixMilli()); err != nil {
		log.Printf("failed to store synced favorites: %v", err)
	}
}

// --- Reviews ---

// AddReview submits a review to the backend. Failures are logged and the
// review is dropped: reviews only exist server side.
func (r *BookRepository) AddReview(ctx context.Context, bookID string, rating int, comment string) {
	if err := r.api.AddReview(ctx, bookID, rating, comment); err != nil {
		log.Printf("review submit failed: %v", err)
	}
}

// Reviews returns the backend's reviews for a book, or an empty list when
// the fetch fails.
func (r *BookRepository) Reviews(ctx context.Context, bookID string) []entities.BookReview {
	reviews, err := r.api.Reviews(ctx, bookID)
	if err != nil {
		log.Printf("reviews fetch failed: %v", err)
		return []entities.BookReview{}
	}
	if reviews == nil {
		reviews = []entities.BookReview{}
	}
	return reviews
}

// DeleteReview removes a review on the backend. Best effort.
func (r *BookRepository) DeleteReview(ctx context.Context, reviewID string) {
	if err := r.api.DeleteReview(ctx, reviewID); err != nil {
		log.Printf("review delete failed: %v", err)
	}
}

// publish reloads the catalog from the cache and notifies observers.
func (r *BookRepository) publish() {
	books, err := r.cache.AllBooks()
	if err != nil {
		log.Printf("failed to reload cached catalog: %v", err)
		return
	}
	r.catalog.Set(books)
}
