package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kaanbaran/libraryapp/internal/server/auth"
	"github.com/kaanbaran/libraryapp/internal/server/store"
)

// RouterConfig carries every dependency the router needs. Dependencies are
// assembled once at process start and passed down; there is no ambient
// global lookup.
type RouterConfig struct {
	Store      *store.Store
	Tokens     *auth.TokenManager
	BcryptCost int
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	authController := NewAuthController(cfg.Store, cfg.Tokens, cfg.BcryptCost)
	booksController := NewBooksController(cfg.Store)
	favoritesController := NewFavoritesController(cfg.Store)
	reviewsController := NewReviewsController(cfg.Store)

	router.POST("/auth/register", authController.Register)
	router.POST("/auth/login", authController.Login)

	// Everything below requires a valid bearer token. Admin-only routes make
	// their own role check inside the handler.
	authorized := router.Group("/")
	authorized.Use(AuthRequired(cfg.Tokens))

	authorized.GET("/books", booksController.List)
	authorized.GET("/books/:id", booksController.Get)
	authorized.POST("/books", booksController.Create)
	authorized.DELETE("/books/:id", booksController.Delete)
	authorized.GET("/recommendations", booksController.Recommendations)

	authorized.POST("/favorites/:bookId", favoritesController.Add)
	authorized.DELETE("/favorites/:bookId", favoritesController.Remove)
	authorized.GET("/favorites", favoritesController.List)

	authorized.POST("/books/:id/reviews", reviewsController.Create)
	authorized.GET("/books/:id/reviews", reviewsController.List)
	authorized.DELETE("/reviews/:id", reviewsController.Delete)

	return router
}
