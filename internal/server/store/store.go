// Package store owns the backend's authoritative database. The client-side
// cache mirrors rows served from here, never the reverse.
package store

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/server/auth"
)

var (
	ErrUserExists   = errors.New("username or email already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrBookNotFound = errors.New("book not found")
)

type Store struct {
	DB *gorm.DB
}

// NewStore opens the backend database, migrates the schema and seeds the
// demo catalog plus a default admin account on first start.
func NewStore(dbPath string, bcryptCost int) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Favorite{},
		&entities.Review{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	store := &Store{DB: db}

	if err := store.seedBooks(); err != nil {
		return nil, fmt.Errorf("failed to seed books: %w", err)
	}
	if err := store.seedAdmin(bcryptCost); err != nil {
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Printf("Store initialized at %s", dbPath)

	return store, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- Users ---

// CreateUser inserts a new user. Fails with ErrUserExists when the username
// or email is already taken.
func (s *Store) CreateUser(user *entities.User) error {
	var existing entities.User
	err := s.DB.Where("username = ? OR email = ?", user.Username, user.Email).First(&existing).Error
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UnixMilli()
	if user.CreatedAt == 0 {
		user.CreatedAt = now
	}
	if user.UpdatedAt == 0 {
		user.UpdatedAt = user.CreatedAt
	}

	return s.DB.Create(user).Error
}

func (s *Store) GetUserByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByID(id string) (*entities.User, error) {
	var user entities.User
	err := s.DB.Where("user_id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Books ---

func (s *Store) AllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := s.DB.Order("added_at DESC").Find(&books).Error
	return books, err
}

func (s *Store) GetBook(id string) (*entities.Book, error) {
	var book entities.Book
	err := s.DB.Where("book_id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook inserts a new catalog entry with zeroed rating aggregates.
func (s *Store) CreateBook(book *entities.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.Language == "" {
		book.Language = "en"
	}
	if book.AvailableCopies == 0 {
		book.AvailableCopies = 1
	}
	if book.TotalCopies == 0 {
		book.TotalCopies = 1
	}
	now := time.Now().UnixMilli()
	if book.AddedAt == 0 {
		book.AddedAt = now
	}
	if book.UpdatedAt == 0 {
		book.UpdatedAt = book.AddedAt
	}
	book.AverageRating = 0
	book.TotalReviews = 0

	return s.DB.Create(book).Error
}

// DeleteBook removes a book along with every favorite and review that
// references it. The cascade is explicit: the schema carries no foreign-key
// constraints between these tables.
func (s *Store) DeleteBook(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.Book{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Where("book_id = ?", id).Delete(&entities.Review{}).Error
	})
}

// RandomBooks returns a uniformly-random sample of up to n books.
func (s *Store) RandomBooks(n int) ([]entities.Book, error) {
	var books []entities.Book
	err := s.DB.Order("RANDOM()").Limit(n).Find(&books).Error
	return books, err
}

// --- Favorites ---

// AddFavorite records a (user, book) pair. Adding the same pair twice is a
// no-op.
func (s *Store) AddFavorite(userID, bookID string) error {
	favorite := entities.Favorite{
		UserID:  userID,
		BookID:  bookID,
		AddedAt: time.Now().UnixMilli(),
	}
	return s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
}

func (s *Store) RemoveFavorite(userID, bookID string) error {
	return s.DB.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&entities.Favorite{}).Error
}

// FavoriteBookIDs lists the ids of every book the user has favorited.
func (s *Store) FavoriteBookIDs(userID string) ([]string, error) {
	var ids []string
	err := s.DB.Model(&entities.Favorite{}).Where("user_id = ?", userID).Pluck("book_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// --- Reviews ---

// CreateReview inserts the review and recomputes the parent book's average
// rating and review count from the full review set, all in one transaction.
func (s *Store) CreateReview(review *entities.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now().UnixMilli()
	if review.CreatedAt == 0 {
		review.CreatedAt = now
	}
	if review.UpdatedAt == 0 {
		review.UpdatedAt = review.CreatedAt
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var stats struct {
			AvgRating float64
			Count     int
		}
		err := tx.Model(&entities.Review{}).
			Select("AVG(rating) as avg_rating, COUNT(*) as count").
			Where("book_id = ?", review.BookID).
			Scan(&stats).Error
		if err != nil {
			return err
		}

		return tx.Model(&entities.Book{}).
			Where("book_id = ?", review.BookID).
			Updates(map[string]any{
				"average_rating": stats.AvgRating,
				"total_reviews":  stats.Count,
			}).Error
	})
}

// ReviewsForBook lists the book's reviews joined with the reviewer's
// username, newest first.
func (s *Store) ReviewsForBook(bookID string) ([]entities.BookReview, error) {
	var reviews []entities.BookReview
	err := s.DB.Model(&entities.Review{}).
		Select("reviews.review_id as id, reviews.user_id, users.username as user_name, reviews.book_id, reviews.rating, reviews.comment, reviews.created_at as timestamp").
		Joins("JOIN users ON users.user_id = reviews.user_id").
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []entities.BookReview{}
	}
	return reviews, nil
}

func (s *Store) DeleteReview(id string) error {
	return s.DB.Where("review_id = ?", id).Delete(&entities.Review{}).Error
}

func (s *Store) CountReviews(bookID string) (int64, error) {
	var count int64
	err := s.DB.Model(&entities.Review{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

func (s *Store) seedAdmin(bcryptCost int) error {
	var existing entities.User
	err := s.DB.Where("role = ?", entities.UserRoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("admin123", bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	admin := entities.User{
		ID:           uuid.New().String(),
		Username:     "admin",
		Email:        "admin@library.com",
		PasswordHash: hash,
		Role:         entities.UserRoleAdmin,
		FullName:     "System Admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.DB.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded default admin user %s", admin.Email)
	return nil
}
