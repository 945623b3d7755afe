package entities

type UserRole string

const (
	UserRoleStudent UserRole = "STUDENT"
	UserRoleAdmin   UserRole = "ADMIN"
)

// User is stored both in the backend database and in the client cache.
// JSON field names follow the wire contract of the mobile client.
// Timestamps are milliseconds since epoch throughout.
type User struct {
	ID              string   `gorm:"primaryKey;column:user_id;size:64" json:"userId"`
	Username        string   `gorm:"uniqueIndex;size:100" json:"username"`
	Email           string   `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash    string   `gorm:"size:128" json:"passwordHash"`
	Role            UserRole `gorm:"size:16" json:"role"`
	FullName        string   `gorm:"size:256" json:"fullName,omitempty"`
	ProfileImageURL string   `gorm:"size:2048" json:"profileImageUrl,omitempty"`
	CreatedAt       int64    `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt       int64    `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

type Book struct {
	ID              string  `gorm:"primaryKey;column:book_id;size:64" json:"bookId"`
	Title           string  `gorm:"index;size:512" json:"title"`
	Author          string  `gorm:"index;size:256" json:"author"`
	ISBN            string  `gorm:"index;size:20" json:"isbn"`
	Category        string  `gorm:"size:100" json:"category"`
	Description     string  `gorm:"type:text" json:"description"`
	Publisher       string  `gorm:"size:256" json:"publisher,omitempty"`
	PublishedYear   int     `json:"publishedYear"`
	PageCount       int     `json:"pageCount,omitempty"`
	Language        string  `gorm:"size:8;default:'en'" json:"language"`
	CoverImageURL   string  `gorm:"size:2048" json:"coverImageUrl,omitempty"`
	AverageRating   float64 `json:"averageRating"`
	TotalReviews    int     `json:"totalReviews"`
	AvailableCopies int     `gorm:"default:1" json:"availableCopies"`
	TotalCopies     int     `gorm:"default:1" json:"totalCopies"`
	AddedAt         int64   `json:"addedAt"`
	UpdatedAt       int64   `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// Favorite is the users<->books junction table. One row per (user, book) pair.
type Favorite struct {
	UserID  string `gorm:"primaryKey;column:user_id;size:64" json:"userId"`
	BookID  string `gorm:"primaryKey;column:book_id;size:64" json:"bookId"`
	AddedAt int64  `json:"addedAt"`
}

type Review struct {
	ID        string `gorm:"primaryKey;column:review_id;size:64" json:"id"`
	UserID    string `gorm:"index;size:64" json:"userId"`
	BookID    string `gorm:"index;size:64" json:"bookId"`
	Rating    int    `json:"rating"`
	Comment   string `gorm:"type:text" json:"comment"`
	CreatedAt int64  `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt int64  `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// BookReview is the review list wire shape: a review joined with the
// reviewer's username.
type BookReview struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	BookID    string `json:"bookId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Timestamp int64  `json:"timestamp"`
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (Favorite) TableName() string {
	return "favorites"
}

func (Review) TableName() string {
	return "reviews"
}
