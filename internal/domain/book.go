package domain

import "errors"

// Common validation errors for Book.
var (
	ErrEmptyBookTitle = errors.New("book title cannot be empty")
	ErrEmptyBookOwner = errors.New("book owner cannot be empty")
)

// Book represents a book offered on the exchange by its owner.
// Availability marks whether the book may still be offered in new deals;
// it is flipped to false once a deal over the book completes.
type Book struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsAvailable bool   `json:"is_available"`
}

// NewBook creates a new Book owned by the given user.
// Books start out available. The ID is assigned by the store on creation.
func NewBook(ownerID int64, title, description string) (*Book, error) {
	book := &Book{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		IsAvailable: true,
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
func (b *Book) Validate() error {
	if b.OwnerID == 0 {
		return ErrEmptyBookOwner
	}

	if b.Title == "" {
		return ErrEmptyBookTitle
	}

	return nil
}
