// Package cache is the client's local database. It mirrors rows fetched from
// the backend and is the single source of truth for reads: screens only ever
// render what is cached here.
package cache

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/kaanbaran/libraryapp/internal/entities"
)

type Cache struct {
	DB *gorm.DB
}

// Open opens (or creates) the cache database and migrates its schema.
func Open(dbPath string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Favorite{},
		&entities.Review{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	log.Printf("Cache initialized at %s", dbPath)

	return &Cache{DB: db}, nil
}

func (c *Cache) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- Books ---

// UpsertBooks inserts the given books, replacing existing rows with the same
// primary key. Rows not present in the slice are left alone.
func (c *Cache) UpsertBooks(books []entities.Book) error {
	if len(books) == 0 {
		return nil
	}
	return c.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&books).Error
}

func (c *Cache) UpsertBook(book entities.Book) error {
	return c.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&book).Error
}

// GetBook returns the cached book, or nil when it is not cached.
func (c *Cache) GetBook(id string) (*entities.Book, error) {
	var book entities.Book
	err := c.DB.Where("book_id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Cache) DeleteBook(id string) error {
	return c.DB.Where("book_id = ?", id).Delete(&entities.Book{}).Error
}

// AllBooks returns every cached book, most recently added first.
func (c *Cache) AllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := c.DB.Order("added_at DESC").Find(&books).Error
	return books, err
}

// SearchBooks does a case-insensitive substring match over title, author
// and ISBN.
func (c *Cache) SearchBooks(query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + query + "%"
	err := c.DB.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?) OR LOWER(isbn) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Order("added_at DESC").
		Find(&books).Error
	return books, err
}

func (c *Cache) CountBooks() (int64, error) {
	var count int64
	err := c.DB.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// --- Users ---

func (c *Cache) UpsertUser(user entities.User) error {
	return c.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&user).Error
}

// GetUser returns the cached user, or nil when it is not cached.
func (c *Cache) GetUser(id string) (*entities.User, error) {
	var user entities.User
	err := c.DB.Where("user_id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAllUsers wipes the user cache. Used on logout.
func (c *Cache) DeleteAllUsers() error {
	return c.DB.Where("1 = 1").Delete(&entities.User{}).Error
}

// --- Settings ---

// GetSetting retrieves a setting value, or "" when the key is absent.
func (c *Cache) GetSetting(key string) (string, error) {
	var setting entities.Setting
	err := c.DB.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// SetSetting creates or updates a setting.
func (c *Cache) SetSetting(key, value string) error {
	var setting entities.Setting
	result := c.DB.Where("key = ?", key).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		setting = entities.Setting{Key: key, Value: value}
		return c.DB.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	setting.Value = value
	return c.DB.Save(&setting).Error
}

// DeleteSetting removes a setting by key. Deleting a missing key is not an
// error.
func (c *Cache) DeleteSetting(key string) error {
	err := c.DB.Where("key = ?", key).Delete(&entities.Setting{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// --- Favorites ---

// AddFavorite marks a book as a favorite of the user. Adding an existing
// favorite is a no-op.
func (c *Cache) AddFavorite(userID, bookID string, addedAt int64) error {
	fav := entities.Favorite{UserID: userID, BookID: bookID, AddedAt: addedAt}
	return c.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error
}

// RemoveFavorite unmarks a favorite. Removing a missing row is not an error.
func (c *Cache) RemoveFavorite(userID, bookID string) error {
	return c.DB.
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.Favorite{}).Error
}

// IsFavorite reports whether the user has favorited the book.
func (c *Cache) IsFavorite(userID, bookID string) (bool, error) {
	var count int64
	err := c.DB.Model(&entities.Favorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

// FavoriteBookIDs returns the ids of the user's favorited books.
func (c *Cache) FavoriteBookIDs(userID string) ([]string, error) {
	ids := []string{}
	err := c.DB.Model(&entities.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("book_id", &ids).Error
	return ids, err
}

// ReplaceFavorites swaps the user's local favorites for the given set.
func (c *Cache) ReplaceFavorites(userID string, bookIDs []string, addedAt int64) error {
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		for _, id := range bookIDs {
			fav := entities.Favorite{UserID: userID, BookID: id, AddedAt: addedAt}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
