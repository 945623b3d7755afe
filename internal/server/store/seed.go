package store

import (
	"log"
	"time"

	"github.com/kaanbaran/libraryapp/internal/entities"
)

// demoCatalog is inserted on first start so a fresh install has something to
// browse before an admin adds real books.
func demoCatalog(now int64) []entities.Book {
	return []entities.Book{
		{
			ID:            "1",
			Title:         "Clean Code",
			Author:        "Robert C. Martin",
			ISBN:          "9780132350884",
			Category:      "Technology",
			Description:   "Even bad code can function. But if code isn't clean, it can bring a development organization to its knees.",
			PublishedYear: 2008,
			Language:      "en",
			CoverImageURL: "https://m.media-amazon.com/images/I/41xShlnTZTL._SX218_BO1,204,203,200_QL40_FMwebp_.jpg",
			AverageRating: 5.0,
			TotalReviews:  10,
			AddedAt:       now,
			UpdatedAt:     now,
		},
		{
			ID:            "2",
			Title:         "The Hobbit",
			Author:        "J.R.R. Tolkien",
			ISBN:          "9780547928227",
			Category:      "Fiction",
			Description:   "In a hole in the ground there lived a hobbit.",
			PublishedYear: 1937,
			Language:      "en",
			CoverImageURL: "https://m.media-amazon.com/images/I/91b0C2YNSrL._AC_UF1000,1000_QL80_.jpg",
			AverageRating: 4.8,
			TotalReviews:  20,
			AddedAt:       now,
			UpdatedAt:     now,
		},
		{
			ID:            "3",
			Title:         "Design Patterns",
			Author:        "Erich Gamma",
			ISBN:          "0201633612",
			Category:      "Technology",
			Description:   "Capturing a wealth of experience about the design of object-oriented software.",
			PublishedYear: 1994,
			Language:      "en",
			CoverImageURL: "https://m.media-amazon.com/images/I/51k+0d2l84L._SX377_BO1,204,203,200_.jpg",
			AverageRating: 4.9,
			TotalReviews:  15,
			AddedAt:       now,
			UpdatedAt:     now,
		},
	}
}

func (s *Store) seedBooks() error {
	var count int64
	if err := s.DB.Model(&entities.Book{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	books := demoCatalog(time.Now().UnixMilli())
	for i := range books {
		book := books[i]
		book.AvailableCopies = 1
		book.TotalCopies = 1
		if err := s.DB.Create(&book).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d demo books", len(books))
	return nil
}
