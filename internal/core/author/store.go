package author

import "context"

// Repository is the author data accessor.
//
// Absent rows are reported with [dberr.ErrNotFound]; Delete reports absence
// through its boolean instead.
type Repository interface {
	Create(context context.Context, author *NewAuthor) (*Author, error)
	FindByID(context context.Context, id int64) (*Author, error)
	FindByEmail(context context.Context, email string) (*Author, error)
	FindAll(context context.Context, limit, offset int) ([]*Author, error)
	Count(context context.Context) (int, error)
	Search(context context.Context, term string, limit int) ([]*Author, error)
	Update(context context.Context, id int64, patch Patch) (*Author, error)
	Delete(context context.Context, id int64) (bool, error)
	Exists(context context.Context, id int64) (bool, error)
}
