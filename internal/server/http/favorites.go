package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaanbaran/libraryapp/internal/server/store"
)

type FavoritesController struct {
	store *store.Store
}

func NewFavoritesController(s *store.Store) *FavoritesController {
	return &FavoritesController{store: s}
}

// Add marks a book as a favorite of the calling user.
// POST /favorites/:bookId
func (fc *FavoritesController) Add(c *gin.Context) {
	if err := fc.store.AddFavorite(GetUserID(c), c.Param("bookId")); err != nil {
		respondInternalError(c, err, "add favorite")
		return
	}
	respondSuccess(c, "Added to favorites")
}

// Remove deletes a favorite of the calling user.
// DELETE /favorites/:bookId
func (fc *FavoritesController) Remove(c *gin.Context) {
	if err := fc.store.RemoveFavorite(GetUserID(c), c.Param("bookId")); err != nil {
		respondInternalError(c, err, "remove favorite")
		return
	}
	respondSuccess(c, "Removed from favorites")
}

// List returns the ids of the calling user's favorite books.
// GET /favorites
func (fc *FavoritesController) List(c *gin.Context) {
	ids, err := fc.store.FavoriteBookIDs(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, ids)
}
