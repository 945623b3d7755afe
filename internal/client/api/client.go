// Package api is the typed HTTP client for the backend. Each method maps to
// one endpoint; callers decide what to do with failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kaanbaran/libraryapp/internal/entities"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the current bearer token, or "" when signed out.
// It is consulted on every request so token changes take effect immediately.
type TokenSource func() string

// Client talks to the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string, token TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		token: token,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  entities.User `json:"user"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type createBookResponse struct {
	Status string         `json:"status"`
	Book   *entities.Book `json:"book"`
}

// --- Auth ---

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Books ---

func (c *Client) Books(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) BookByID(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	if err := c.do(ctx, http.MethodGet, "/books/"+id, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// AddBook creates a book and returns the server's copy of it when the
// response includes one, otherwise the submitted book.
func (c *Client) AddBook(ctx context.Context, book entities.Book) (*entities.Book, error) {
	var resp createBookResponse
	if err := c.do(ctx, http.MethodPost, "/books", book, &resp); err != nil {
		return nil, err
	}
	if resp.Book != nil {
		return resp.Book, nil
	}
	return &book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+id, nil, nil)
}

func (c *Client) Recommendations(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := c.do(ctx, http.MethodGet, "/recommendations", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// --- Favorites ---

func (c *Client) AddFavorite(ctx context.Context, bookID string) error {
	return c.do(ctx, http.MethodPost, "/favorites/"+bookID, nil, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, bookID string) error {
	return c.do(ctx, http.MethodDelete, "/favorites/"+bookID, nil, nil)
}

func (c *Client) Favorites(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// --- Reviews ---

func (c *Client) AddReview(ctx context.Context, bookID string, rating int, comment string) error {
	return c.do(ctx, http.MethodPost, "/books/"+bookID+"/reviews", ReviewRequest{Rating: rating, Comment: comment}, nil)
}

func (c *Client) Reviews(ctx context.Context, bookID string) ([]entities.BookReview, error) {
	var reviews []entities.BookReview
	if err := c.do(ctx, http.MethodGet, "/books/"+bookID+"/reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/reviews/"+id, nil, nil)
}

// do performs one request: marshals body, injects the bearer token, maps
// non-2xx statuses to errors and decodes the response into out when given.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
