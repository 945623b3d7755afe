package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/server/auth"
	"github.com/kaanbaran/libraryapp/internal/server/store"
)

type AuthController struct {
	store      *store.Store
	tokens     *auth.TokenManager
	bcryptCost int
}

func NewAuthController(s *store.Store, tokens *auth.TokenManager, bcryptCost int) *AuthController {
	return &AuthController{
		store:      s,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the signed token plus the user row. The user includes
// the password hash: the historical client contract expects the full entity
// and is fed straight into its local cache.
type AuthResponse struct {
	Token string        `json:"token"`
	User  entities.User `json:"user"`
}

// Register creates a new account and signs the caller in.
// POST /auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	role := entities.UserRole(req.Role)
	if role != entities.UserRoleAdmin {
		role = entities.UserRoleStudent
	}

	hash, err := auth.HashPassword(req.Password, ac.bcryptCost)
	if err != nil {
		respondBadRequest(c, "invalid password")
		return
	}

	now := time.Now().UnixMilli()
	user := entities.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		FullName:     req.FullName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := ac.store.CreateUser(&user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			respondBadRequest(c, "registration failed, username or email may already exist")
			return
		}
		respondInternalError(c, err, "register")
		return
	}

	token, err := ac.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondInternalError(c, err, "issue token")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Login checks the supplied credentials against the stored hash.
// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.store.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondBadRequest(c, "user not found")
			return
		}
		respondInternalError(c, err, "login")
		return
	}

	if err := auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		respondBadRequest(c, "invalid password")
		return
	}

	token, err := ac.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondInternalError(c, err, "issue token")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: *user})
}
