package book

import "context"

// Repository is the book data accessor. Reads embed the author summary.
//
// Absent rows are reported with [dberr.ErrNotFound]; Delete reports absence
// through its boolean instead.
type Repository interface {
	Create(context context.Context, book *NewBook) (*Book, error)
	FindByID(context context.Context, id int64) (*Book, error)
	FindByISBN(context context.Context, isbn string) (*Book, error)
	FindAll(context context.Context, limit, offset int) ([]*Book, error)
	Count(context context.Context) (int, error)
	Search(context context.Context, term string, limit int) ([]*Book, error)
	FindByGenre(context context.Context, genre string, limit int) ([]*Book, error)

	// FindByAuthor orders by publication date, newest first. A limit <= 0
	// returns every book of the author.
	FindByAuthor(context context.Context, authorID int64, limit int) ([]*Book, error)

	LowStock(context context.Context, threshold int) ([]*Book, error)
	Update(context context.Context, id int64, patch Patch) (*Book, error)
	UpdateStock(context context.Context, id int64, quantity int32) (*Book, error)
	Delete(context context.Context, id int64) (bool, error)
}

// AuthorLookup checks that a referenced author exists.
type AuthorLookup interface {
	Exists(context context.Context, id int64) (bool, error)
}
