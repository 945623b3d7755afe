package viewstate

import (
	"context"

	"github.com/kaanbaran/libraryapp/internal/client/repository"
	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/observe"
)

// BookDetailState is what the detail screen renders.
type BookDetailState struct {
	Status     Status
	Book       *entities.Book
	Reviews    []entities.BookReview
	IsFavorite bool
	IsAdmin    bool
	Err        string
}

// BookDetailController drives a single book's detail screen.
type BookDetailController struct {
	books *repository.BookRepository
	auth  *repository.AuthRepository
	state *observe.Value[BookDetailState]
}

func NewBookDetailController(books *repository.BookRepository, auth *repository.AuthRepository) *BookDetailController {
	return &BookDetailController{
		books: books,
		auth:  auth,
		state: observe.NewValue(BookDetailState{Status: StatusIdle}),
	}
}

// Observe subscribes to detail state changes.
func (c *BookDetailController) Observe(fn func(BookDetailState)) func() {
	return c.state.Subscribe(fn)
}

// State returns the current detail state.
func (c *BookDetailController) State() BookDetailState {
	return c.state.Get()
}

// Load gathers everything the screen needs: the book, its reviews, the
// favorite flag and whether the viewer may administer it.
func (c *BookDetailController) Load(ctx context.Context, bookID string) {
	c.state.Set(BookDetailState{Status: StatusLoading})

	book, err := c.books.GetByID(ctx, bookID)
	if err != nil {
		c.state.Set(BookDetailState{Status: StatusError, Err: err.Error()})
		return
	}

	reviews := c.books.Reviews(ctx, bookID)

	isFav := false
	if userID := c.auth.CurrentUserID(); userID != "" {
		isFav, _ = c.books.IsFavorite(userID, bookID)
	}

	c.state.Set(BookDetailState{
		Status:     StatusSuccess,
		Book:       book,
		Reviews:    reviews,
		IsFavorite: isFav,
		IsAdmin:    c.isAdmin(),
	})
}

// ToggleFavorite flips the favorite flag for the signed-in user.
func (c *BookDetailController) ToggleFavorite(ctx context.Context) {
	current := c.state.Get()
	if current.Book == nil {
		return
	}
	userID := c.auth.CurrentUserID()
	if userID == "" {
		return
	}

	nowFav, err := c.books.ToggleFavorite(ctx, userID, current.Book.ID)
	if err != nil {
		return
	}
	current.IsFavorite = nowFav
	c.state.Set(current)
}

// SubmitReview sends a review and reloads the screen so fresh aggregates
// show up once the backend has them.
func (c *BookDetailController) SubmitReview(ctx context.Context, rating int, comment string) {
	current := c.state.Get()
	if current.Book == nil {
		return
	}
	c.books.AddReview(ctx, current.Book.ID, rating, comment)
	c.Load(ctx, current.Book.ID)
}

// DeleteReview removes a review and reloads. The backend enforces that only
// admins may do this.
func (c *BookDetailController) DeleteReview(ctx context.Context, reviewID string) {
	current := c.state.Get()
	if current.Book == nil {
		return
	}
	c.books.DeleteReview(ctx, reviewID)
	c.Load(ctx, current.Book.ID)
}

func (c *BookDetailController) isAdmin() bool {
	user, err := c.auth.CurrentUser()
	if err != nil {
		return false
	}
	return user.Role == entities.UserRoleAdmin
}
