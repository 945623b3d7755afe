package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/server/store"
)

type ReviewsController struct {
	store *store.Store
}

func NewReviewsController(s *store.Store) *ReviewsController {
	return &ReviewsController{store: s}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Create records a review and updates the book's rating aggregates.
// POST /books/:id/reviews
func (rc *ReviewsController) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rating must be between 1 and 5")
		return
	}

	review := entities.Review{
		UserID:  GetUserID(c),
		BookID:  c.Param("id"),
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	if err := rc.store.CreateReview(&review); err != nil {
		respondInternalError(c, err, "create review")
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Review added"})
}

// List returns the book's reviews joined with usernames, newest first.
// GET /books/:id/reviews
func (rc *ReviewsController) List(c *gin.Context) {
	reviews, err := rc.store.ReviewsForBook(c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Delete removes a review. Admin only. The book's aggregates are left as-is,
// matching the historical backend behavior.
// DELETE /reviews/:id
func (rc *ReviewsController) Delete(c *gin.Context) {
	if !isAdmin(c) {
		respondForbidden(c)
		return
	}

	if err := rc.store.DeleteReview(c.Param("id")); err != nil {
		respondInternalError(c, err, "delete review")
		return
	}

	respondSuccess(c, "Review deleted successfully")
}
