package domain

import "time"

// Book is a catalogued book. Books are shared between bookshelves and book
// groups and are looked up by ISBN before a new one is created.
type Book struct {
	ID          int64     `json:"bookId" db:"id"`
	Title       string    `json:"title" db:"title"`
	Author      string    `json:"author" db:"author"`
	ISBN        string    `json:"isbn" db:"isbn"`
	Contents    string    `json:"contents" db:"contents"`
	URL         string    `json:"url" db:"url"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	ImageKey    string    `json:"-" db:"image_key"`
	Publisher   string    `json:"publisher" db:"publisher"`
	APIProvider string    `json:"apiProvider" db:"api_provider"`
	IsDeleted   bool      `json:"-" db:"is_deleted"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// BookCreateRequest is the embedded book payload of group creation and
// bookshelf inserts.
type BookCreateRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Contents    string `json:"contents"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl"`
	Publisher   string `json:"publisher"`
	APIProvider string `json:"apiProvider"`
}

// ToBook builds an unsaved Book from the request.
func (r BookCreateRequest) ToBook(now time.Time) *Book {
	return &Book{
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Contents:    r.Contents,
		URL:         r.URL,
		ImageURL:    r.ImageURL,
		Publisher:   r.Publisher,
		APIProvider: r.APIProvider,
		CreatedAt:   now,
	}
}
