package viewstate

import (
	"context"

	"github.com/kaanbaran/libraryapp/internal/client/repository"
	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/observe"
)

// BooksState is what the catalog screen renders.
type BooksState struct {
	Status Status
	Books  []entities.Book
	Query  string
}

// BooksController drives the catalog screen. It mirrors the repository's
// observable catalog and layers search filtering on top.
type BooksController struct {
	books *repository.BookRepository
	state *observe.Value[BooksState]
	stop  func()
}

// NewBooksController subscribes to the catalog. Call Close when the screen
// goes away.
func NewBooksController(books *repository.BookRepository) *BooksController {
	c := &BooksController{
		books: books,
		state: observe.NewValue(BooksState{Status: StatusIdle}),
	}
	c.stop = books.Observe(func(catalog []entities.Book) {
		current := c.state.Get()
		if current.Query != "" {
			// an active search keeps its filtered view until re-run
			return
		}
		c.state.Set(BooksState{Status: StatusSuccess, Books: catalog})
	})
	return c
}

// Observe subscribes to screen state changes.
func (c *BooksController) Observe(fn func(BooksState)) func() {
	return c.state.Subscribe(fn)
}

// State returns the current screen state.
func (c *BooksController) State() BooksState {
	return c.state.Get()
}

// Load refreshes the catalog from the backend. The screen shows its cached
// state while loading and never enters an error phase here: offline users
// still get the cache.
func (c *BooksController) Load(ctx context.Context) {
	current := c.state.Get()
	c.state.Set(BooksState{Status: StatusLoading, Books: current.Books})
	c.books.Refresh(ctx)
	c.state.Set(BooksState{Status: StatusSuccess, Books: c.books.Books()})
}

// Add creates a book through the repository. The catalog subscription picks
// up the new row; an active search is cleared so the book is visible.
func (c *BooksController) Add(ctx context.Context, book entities.Book) (*entities.Book, error) {
	created, err := c.books.Add(ctx, book)
	if err != nil {
		return nil, err
	}
	c.state.Set(BooksState{Status: StatusSuccess, Books: c.books.Books()})
	return created, nil
}

// Delete removes a book and refreshes the screen.
func (c *BooksController) Delete(ctx context.Context, bookID string) error {
	if err := c.books.Delete(ctx, bookID); err != nil {
		return err
	}
	c.state.Set(BooksState{Status: StatusSuccess, Books: c.books.Books()})
	return nil
}

// Search filters the cached catalog. An empty query restores the full list.
func (c *BooksController) Search(query string) error {
	if query == "" {
		c.state.Set(BooksState{Status: StatusSuccess, Books: c.books.Books()})
		return nil
	}
	matches, err := c.books.Search(query)
	if err != nil {
		return err
	}
	c.state.Set(BooksState{Status: StatusSuccess, Books: matches, Query: query})
	return nil
}

// Close cancels the catalog subscription.
func (c *BooksController) Close() {
	c.stop()
}
