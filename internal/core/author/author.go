package author

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/taibuivan/library-api/internal/platform/apperr"
)

// Author is a writer whose books the library stocks.
type Author struct {
	ID          int64       `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       *string     `json:"email"`
	BirthDate   pgtype.Date `json:"birth_date"`
	Nationality *string     `json:"nationality"`
	Bio         *string     `json:"bio"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewAuthor holds the validated values of an author about to be inserted.
type NewAuthor struct {
	FirstName   string
	LastName    string
	Email       *string
	BirthDate   pgtype.Date
	Nationality *string
	Bio         *string
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	BirthDate   *pgtype.Date
	Nationality *string
	Bio         *string
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.BirthDate == nil && p.Nationality == nil && p.Bio == nil
}

// Filter selects between a search and the plain paginated listing.
type Filter struct {
	Search string
}

// Global field names for validation
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldBirthDate   = "birth_date"
	FieldNationality = "nationality"
	FieldBio         = "bio"
)

// Domain errors
var (
	ErrNotFound   = apperr.NotFound("Author")
	ErrEmailTaken = apperr.Conflict("Author with this email already exists")
	ErrHasBooks   = apperr.Conflict("Author still has books")
	ErrNoFields   = apperr.ValidationError("No fields to update")
)
