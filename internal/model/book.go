package model

// Book represents a title in the catalog. Availability is tracked per copy
// count; deactivated books keep their row for loan history.
type Book struct {
	ID              int     `json:"id" db:"id"`
	Name            string  `json:"name" db:"name"`
	Author          string  `json:"author" db:"author"`
	YearPublished   int     `json:"year_published" db:"year_published"`
	BookType        string  `json:"book_type" db:"book_type"`
	Category        string  `json:"category" db:"category"`
	Active          bool    `json:"active" db:"active"`
	AvailableCopies int     `json:"available_copies" db:"available_copies"`
	Description     *string `json:"description" db:"description"`
}

// BookCreate represents data needed to add a book to the catalog.
type BookCreate struct {
	Name            string  `json:"name" binding:"required"`
	Author          string  `json:"author" binding:"required"`
	YearPublished   int     `json:"year_published" binding:"required"`
	BookType        string  `json:"book_type" binding:"required"`
	Category        string  `json:"category"`
	AvailableCopies *int    `json:"available_copies" binding:"omitempty,min=0"`
	Description     *string `json:"description"`
}

// BookUpdate represents a partial update; nil fields are left untouched.
type BookUpdate struct {
	Name            *string `json:"name"`
	Author          *string `json:"author"`
	YearPublished   *int    `json:"year_published"`
	BookType        *string `json:"book_type"`
	Category        *string `json:"category"`
	AvailableCopies *int    `json:"available_copies" binding:"omitempty,min=0"`
	Description     *string `json:"description"`
}
