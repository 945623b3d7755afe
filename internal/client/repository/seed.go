package repository

import "github.com/kaanbaran/libraryapp/internal/entities"

// demoCatalog is the offline fallback shown when the first catalog fetch
// fails against an empty cache. Ratings start at zero here; real aggregates
// arrive with the first successful sync.
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
			AddedAt:       now,
			UpdatedAt:     now,
		},
	}
}
