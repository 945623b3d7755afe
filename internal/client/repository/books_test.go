package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaanbaran/libraryapp/internal/client/api"
	"github.com/kaanbaran/libraryapp/internal/client/cache"
	"github.com/kaanbaran/libraryapp/internal/entities"
)

func setupCache(t *testing.T) *cache.Cache {
	t.Helper()
	path := fmt.Sprintf("./test_%s.db", t.Name())
	c, err := cache.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
		_ = os.Remove(path)
	})
	return c
}

func newBookRepo(t *testing.T, c *cache.Cache, serverURL string) *BookRepository {
	t.Helper()
	client := api.NewClient(serverURL, func() string { return "test-token" })
	repo, err := NewBookRepository(c, client)
	require.NoError(t, err)
	return repo
}

// deadServer returns a base URL that refuses connections.
func deadServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestSyncCatalogFetchesAndCaches(t *testing.T) {
	c := setupCache(t)

	remote := []entities.Book{
		{ID: "10", Title: "Remote One", Author: "A", AddedAt: 200},
		{ID: "11", Title: "Remote Two", Author: "B", AddedAt: 100},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(remote)
	}))
	defer srv.Close()

	repo := newBookRepo(t, c, srv.URL)

	var emissions [][]entities.Book
	unsubscribe := repo.Observe(func(books []entities.Book) {
		emissions = append(emissions, books)
	})
	defer unsubscribe()

	require.NoError(t, repo.SyncCatalog(context.Background()))

	books := repo.Books()
	require.Len(t, books, 2)
	assert.Equal(t, "10", books[0].ID, "newest first")
	assert.Equal(t, "11", books[1].ID)

	// initial emission plus the post-sync one
	require.Len(t, emissions, 2)
	assert.Empty(t, emissions[0])
	assert.Len(t, emissions[1], 2)
}

func TestSyncCatalogSeedsDemoWhenOfflineAndEmpty(t *testing.T) {
	c := setupCache(t)
	repo := newBookRepo(t, c, deadServer(t))

	err := repo.SyncCatalog(context.Background())
	require.Error(t, err)

	books := repo.Books()
	require.Len(t, books, 3)
	for _, b := range books {
		assert.Zero(t, b.AverageRating)
		assert.Zero(t, b.TotalReviews)
	}

	// a second offline sync must not duplicate the seed
	require.Error(t, repo.SyncCatalog(context.Background()))
	assert.Len(t, repo.Books(), 3)
}

func TestSyncCatalogOfflineKeepsExistingCache(t *testing.T) {
	c := setupCache(t)
	existing := entities.Book{ID: "local-1", Title: "Mine", Author: "Me", AddedAt: 1}
	require.NoError(t, c.UpsertBook(existing))

	repo := newBookRepo(t, c, deadServer(t))

	require.Error(t, repo.SyncCatalog(context.Background()))

	books := repo.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "local-1", books[0].ID)
}

func TestGetByIDServedLocallyWithoutNetwork(t *testing.T) {
	c := setupCache(t)
	require.NoError(t, c.UpsertBook(entities.Book{ID: "b1", Title: "Cached", Author: "X"}))

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	repo := newBookRepo(t, c, srv.URL)

	book, err := repo.GetByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Cached", book.Title)
	assert.Zero(t, hits.Load())
}

func TestGetByIDFallsBackToBackend(t *testing.T) {
	c := setupCache(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books/b2", r.URL.Path)
		_ = json.NewEncoder(w).Encode(entities.Book{ID: "b2", Title: "Fetched", Author: "Y"})
	}))
	defer srv.Close()

	repo := newBookRepo(t, c, srv.URL)

	book, err := repo.GetByID(context.Background(), "b2")
	require.NoError(t, err)
	assert.Equal(t, "Fetched", book.Title)

	cached, err := c.GetBook("b2")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Fetched", cached.Title)
}

func TestGetByIDNotFound(t *testing.T) {
	c := setupCache(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Book not found"})
	}))
	defer srv.Close()

	repo := newBookRepo(t, c, srv.URL)

	book, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, book)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestAddCachesServerCopy(t *testing.T) {
	c := setupCache(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/books", r.URL.Path)

		var book entities.Book
		require.NoError(t, json.NewDecoder(r.Body).Decode(&book))
		book.ID = "srv-42"
		book.AddedAt = 12345

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "Book added", "book": book})
	}))
	defer srv.Close()

	repo := newBookRepo(t, c, srv.URL)

	created, err := repo.Add(context.Background(), entities.Book{Title: "New", Author: "Z"})
	require.NoError(t, err)
	assert.Equal(t, "srv-42", created.ID)
	assert.EqualValues(t, 12345, created.AddedAt)

	cached, err := c.GetBook("srv-42")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "New", cached.Title)
}

func TestAddFallsBackToLocalWhenOffline(t *testing.T) {
	c := setupCache(t)
	repo := newBookRepo(t, c, deadServer(t))

	created, err := repo.Add(context.Background(), entities.Book{Title: "Offline", Author: "Z"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotZero(t, created.AddedAt)

	cached, err := c.GetBook(created.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Offline", cached.Title)
}

func TestDeleteIsLocalAuthoritative(t *testing.T) {
	c := setupCache(t)
	require.NoError(t, c.UpsertBook(entities.Book{ID: "doomed", Title: "Doomed", Author: "X"}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := newBookRepo(t, c, srv.URL)

	require.NoError(t, repo.Delete(context.Background(), "doomed"))

	cached, err := c.GetBook("doomed")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestToggleFavorite(t *testing.T) {
	c := setupCache(t)

	var adds, removes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			adds.Add(1)
		case http.MethodDelete:
			removes.Add(1)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	repo := newBookRepo(t, c, srv.URL)
	ctx := context.Background()

	nowFav, err := repo.ToggleFavorite(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.True(t, nowFav)
	assert.EqualValues(t, 1, adds.Load())

	isFav, err := repo.IsFavorite("u1", "b1")
	require.NoError(t, err)
	assert.True(t, isFav)

	nowFav, err = repo.ToggleFavorite(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.False(t, nowFav)
	assert.EqualValues(t, 1, removes.Load())

	isFav, err = repo.IsFavorite("u1", "b1")
	require.NoError(t, err)
	assert.False(t, isFav)
}

func TestToggleFavoriteSurvivesBackendOutage(t *testing.T) {
	c := setupCache(t)
	repo := newBookRepo(t, c, deadServer(t))

	nowFav, err := repo.ToggleFavorite(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.True(t, nowFav)

	ids, err := repo.FavoriteIDs("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, ids)
}

func TestSyncFavoritesReplacesLocalSet(t *testing.T) {
	c := setupCache(t)
	require.NoError(t, c.AddFavorite("u1", "stale", 1))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/favorites", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]string{"b1", "b2"})
	}))
	defer srv.Close()

	repo := newBookRepo(t, c, srv.URL)
	repo.SyncFavorites(context.Background(), "u1")

	ids, err := repo.FavoriteIDs("u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b1", "b2"}, ids)
}

func TestReviewsEmptyOnFailure(t *testing.T) {
	c := setupCache(t)
	repo := newBookRepo(t, c, deadServer(t))

	reviews := repo.Reviews(context.Background(), "b1")
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestReviewsReturnsBackendList(t *testing.T) {
	c := setupCache(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books/b1/reviews", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]entities.BookReview{
			{ID: "r1", UserName: "alice", BookID: "b1", Rating: 5, Comment: "great"},
		})
	}))
	defer srv.Close()

	repo := newBookRepo(t, c, srv.URL)

	reviews := repo.Reviews(context.Background(), "b1")
	require.Len(t, reviews, 1)
	assert.Equal(t, "alice", reviews[0].UserName)
}

func TestRecommendationsFallBackToCache(t *testing.T) {
	c := setupCache(t)
	for i := 1; i <= 5; i++ {
		require.NoError(t, c.UpsertBook(entities.Book{
			ID: fmt.Sprintf("b%d", i), Title: "T", Author: "A", AddedAt: int64(i),
		}))
	}

	repo := newBookRepo(t, c, deadServer(t))

	books, err := repo.Recommendations(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 3)
}
