package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/server/auth"
	"github.com/kaanbaran/libraryapp/internal/server/store"
)

const testBcryptCost = 4

func setupAPI(t *testing.T) (*gin.Engine, *store.Store, *auth.TokenManager, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_api_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	s, err := store.NewStore(dbPath, testBcryptCost)
	require.NoError(t, err)

	tokens := auth.NewTokenManager("test-secret")
	router := NewRouter(RouterConfig{
		Store:      s,
		Tokens:     tokens,
		BcryptCost: testBcryptCost,
	})

	cleanup := func() {
		s.Close()
		os.Remove(dbPath)
	}
	return router, s, tokens, cleanup
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine, username, email string) AuthResponse {
	t.Helper()

	w := doJSON(t, router, "POST", "/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "password1",
		"fullName": "Test User",
		"role":     "STUDENT",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func loginAdmin(t *testing.T, router *gin.Engine) AuthResponse {
	t.Helper()

	w := doJSON(t, router, "POST", "/auth/login", "", gin.H{
		"email":    "admin@library.com",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	router, _, tokens, cleanup := setupAPI(t)
	defer cleanup()

	t.Run("register issues a decodable token", func(t *testing.T) {
		resp := registerUser(t, router, "alice", "alice@example.com")

		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice", resp.User.Username)
		assert.Equal(t, entities.UserRoleStudent, resp.User.Role)

		claims, err := tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, entities.UserRoleStudent, claims.Role)
	})

	t.Run("duplicate registration fails with 400", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/auth/register", "", gin.H{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "password1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login with wrong password returns 400 and no token", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/auth/login", "", gin.H{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), "token")
	})

	t.Run("login with unknown email returns 400", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/auth/login", "", gin.H{
			"email":    "nobody@example.com",
			"password": "whatever",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login with correct credentials round-trips identity", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/auth/login", "", gin.H{
			"email":    "alice@example.com",
			"password": "password1",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		claims, err := tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
	})
}

func TestBooksEndpoints(t *testing.T) {
	router, s, _, cleanup := setupAPI(t)
	defer cleanup()

	admin := loginAdmin(t, router)
	student := registerUser(t, router, "bob", "bob@example.com")

	t.Run("requires a token", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/books", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("lists the seeded catalog", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/books", student.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var books []entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
		assert.Len(t, books, 3)
	})

	t.Run("get by id returns the book or 404", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/books/1", student.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "Clean Code", book.Title)

		w = doJSON(t, router, "GET", "/books/does-not-exist", student.Token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-admin create is rejected with no state change", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/books", student.Token, gin.H{
			"title":  "Forbidden Book",
			"author": "Nobody",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)

		books, err := s.AllBooks()
		require.NoError(t, err)
		assert.Len(t, books, 3)
	})

	t.Run("admin creates and deletes books", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/books", admin.Token, gin.H{
			"title":         "The Go Programming Language",
			"author":        "Donovan & Kernighan",
			"isbn":          "9780134190440",
			"category":      "Technology",
			"publishedYear": 2015,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var createResp struct {
			Status string        `json:"status"`
			Book   entities.Book `json:"book"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
		assert.Equal(t, "Book added", createResp.Status)
		assert.NotEmpty(t, createResp.Book.ID)

		books, err := s.AllBooks()
		require.NoError(t, err)
		require.Len(t, books, 4)

		var created entities.Book
		for _, b := range books {
			if b.Title == "The Go Programming Language" {
				created = b
			}
		}
		require.NotEmpty(t, created.ID)
		assert.Equal(t, "en", created.Language)
		assert.Equal(t, 1, created.TotalCopies)

		w = doJSON(t, router, "DELETE", "/books/"+created.ID, admin.Token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		_, err = s.GetBook(created.ID)
		assert.ErrorIs(t, err, store.ErrBookNotFound)
	})

	t.Run("recommendations returns a 3-book sample", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/recommendations", student.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var books []entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
		assert.Len(t, books, 3)
	})
}

func TestFavoritesEndpoints(t *testing.T) {
	router, _, _, cleanup := setupAPI(t)
	defer cleanup()

	student := registerUser(t, router, "carol", "carol@example.com")

	listFavorites := func() []string {
		w := doJSON(t, router, "GET", "/favorites", student.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var ids []string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
		return ids
	}

	assert.Empty(t, listFavorites())

	w := doJSON(t, router, "POST", "/favorites/1", student.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Adding the same pair twice is a no-op
	w = doJSON(t, router, "POST", "/favorites/1", student.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/favorites/2", student.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.ElementsMatch(t, []string{"1", "2"}, listFavorites())

	w = doJSON(t, router, "DELETE", "/favorites/1", student.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"2"}, listFavorites())
}

func TestReviewsEndpoints(t *testing.T) {
	router, s, _, cleanup := setupAPI(t)
	defer cleanup()

	admin := loginAdmin(t, router)
	student := registerUser(t, router, "dave", "dave@example.com")

	addReview := func(token string, rating int) {
		w := doJSON(t, router, "POST", "/books/2/reviews", token, gin.H{
			"rating":  rating,
			"comment": fmt.Sprintf("%d stars", rating),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	t.Run("review average and count track the review set", func(t *testing.T) {
		addReview(student.Token, 4)

		book, err := s.GetBook("2")
		require.NoError(t, err)
		assert.Equal(t, 1, book.TotalReviews)
		assert.InDelta(t, 4.0, book.AverageRating, 1e-9)

		addReview(admin.Token, 2)
		addReview(student.Token, 3)

		book, err = s.GetBook("2")
		require.NoError(t, err)
		assert.Equal(t, 3, book.TotalReviews)
		assert.InDelta(t, 3.0, book.AverageRating, 1e-9)
	})

	t.Run("out-of-range rating is rejected", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/books/2/reviews", student.Token, gin.H{
			"rating": 6,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("listing joins reviewer usernames newest first", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/books/2/reviews", student.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var reviews []entities.BookReview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
		require.Len(t, reviews, 3)
		for _, r := range reviews {
			assert.NotEmpty(t, r.UserName)
			assert.Equal(t, "2", r.BookID)
		}
	})

	t.Run("non-admin review delete is rejected with no state change", func(t *testing.T) {
		reviews, err := s.ReviewsForBook("2")
		require.NoError(t, err)
		require.NotEmpty(t, reviews)

		w := doJSON(t, router, "DELETE", "/reviews/"+reviews[0].ID, student.Token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		count, err := s.CountReviews("2")
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("admin deletes a review", func(t *testing.T) {
		reviews, err := s.ReviewsForBook("2")
		require.NoError(t, err)
		require.NotEmpty(t, reviews)

		w := doJSON(t, router, "DELETE", "/reviews/"+reviews[0].ID, admin.Token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		count, err := s.CountReviews("2")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestBookDeleteCascades(t *testing.T) {
	router, s, _, cleanup := setupAPI(t)
	defer cleanup()

	admin := loginAdmin(t, router)
	student := registerUser(t, router, "erin", "erin@example.com")

	w := doJSON(t, router, "POST", "/favorites/3", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/books/3/reviews", student.Token, gin.H{
		"rating":  5,
		"comment": "great",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "DELETE", "/books/3", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	ids, err := s.FavoriteBookIDs(student.User.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	count, err := s.CountReviews("3")
	require.NoError(t, err)
	assert.Zero(t, count)
}
