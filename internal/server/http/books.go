package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/server/store"
)

type BooksController struct {
	store *store.Store
}

func NewBooksController(s *store.Store) *BooksController {
	return &BooksController{store: s}
}

type CreateBookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	ISBN          string `json:"isbn"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Publisher     string `json:"publisher"`
	PublishedYear int    `json:"publishedYear"`
	PageCount     int    `json:"pageCount"`
	Language      string `json:"language"`
	CoverImageURL string `json:"coverImageUrl"`
}

// List returns the full catalog, newest first.
// GET /books
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.store.AllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if books == nil {
		books = []entities.Book{}
	}
	c.JSON(http.StatusOK, books)
}

// Get returns a single book by id.
// GET /books/:id
func (bc *BooksController) Get(c *gin.Context) {
	book, err := bc.store.GetBook(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Create adds a book to the catalog. Admin only.
// POST /books
func (bc *BooksController) Create(c *gin.Context) {
	if !isAdmin(c) {
		respondForbidden(c)
		return
	}

	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book := entities.Book{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Category:      req.Category,
		Description:   req.Description,
		Publisher:     req.Publisher,
		PublishedYear: req.PublishedYear,
		PageCount:     req.PageCount,
		Language:      req.Language,
		CoverImageURL: req.CoverImageURL,
	}

	if err := bc.store.CreateBook(&book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "Book added", "book": book})
}

// Delete removes a book and, explicitly, every favorite and review that
// references it. Admin only.
// DELETE /books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	if !isAdmin(c) {
		respondForbidden(c)
		return
	}

	if err := bc.store.DeleteBook(c.Param("id")); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "Book deleted successfully")
}

// Recommendations returns a random 3-book sample of the catalog.
// GET /recommendations
func (bc *BooksController) Recommendations(c *gin.Context) {
	books, err := bc.store.RandomBooks(3)
	if err != nil {
		respondInternalError(c, err, "recommendations")
		return
	}
	if books == nil {
		books = []entities.Book{}
	}
	c.JSON(http.StatusOK, books)
}
