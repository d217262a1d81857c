package data

import (
	"time"

	"github.com/emzola/bookshelf/internal/validator"
)

// Rating defines the aggregated ratings for a book. All five buckets are
// always present, so a book with no reviews reports zero counts and a zero
// average.
type Rating struct {
	FiveStars  int64   `json:"fivestars"`
	FourStars  int64   `json:"fourstars"`
	ThreeStars int64   `json:"threestars"`
	TwoStars   int64   `json:"twostars"`
	OneStar    int64   `json:"onestar"`
	Average    float64 `json:"average"`
	Total      int64   `json:"total"`
}

// Add records a single review rating in the aggregate.
func (r *Rating) Add(rating int8) {
	switch rating {
	case 5:
		r.FiveStars++
	case 4:
		r.FourStars++
	case 3:
		r.ThreeStars++
	case 2:
		r.TwoStars++
	case 1:
		r.OneStar++
	default:
		return
	}
	r.Total++
}

// Review defines a book review. A user may hold at most one review per book.
type Review struct {
	ID        int64      `json:"id"`
	BookID    int64      `json:"book_id"`
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username,omitempty"`
	BookTitle string     `json:"book_title,omitempty"`
	Rating    int8       `json:"rating"`
	Content   string     `json:"content,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Version   int32      `json:"-"`
}

func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(review.Rating >= 1, "rating", "must be at least 1")
	v.Check(review.Rating <= 5, "rating", "must not be greater than 5")
	v.Check(len(review.Content) <= 10_000, "content", "must not be more than 10000 bytes long")
}
