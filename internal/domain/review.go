package domain

import "errors"

// Common validation errors for Review.
var (
	ErrEmptyReviewText   = errors.New("review text cannot be empty")
	ErrEmptyReviewAuthor = errors.New("review author cannot be empty")
	ErrEmptyReviewBook   = errors.New("review book cannot be empty")
)

// Review is a free-text review of a book written by a user.
// Reviews are immutable: there is no update or delete surface.
type Review struct {
	ID       int64  `json:"review_id"`
	AuthorID int64  `json:"user_id"`
	BookID   int64  `json:"book_id"`
	Text     string `json:"review_text"`
}

// NewReview creates a new Review by the given author for the given book.
func NewReview(authorID, bookID int64, text string) (*Review, error) {
	review := &Review{
		AuthorID: authorID,
		BookID:   bookID,
		Text:     text,
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	return review, nil
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if r.AuthorID == 0 {
		return ErrEmptyReviewAuthor
	}

	if r.BookID == 0 {
		return ErrEmptyReviewBook
	}

	if r.Text == "" {
		return ErrEmptyReviewText
	}

	return nil
}
