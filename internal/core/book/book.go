package book

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/library-api/internal/platform/apperr"
)

// Book is a title held in the library's stock.
type Book struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	ISBN            string           `json:"isbn"`
	AuthorID        int64            `json:"author_id"`
	Genre           *string          `json:"genre"`
	PublicationDate pgtype.Date      `json:"publication_date"`
	Pages           *int32           `json:"pages"`
	Price           *decimal.Decimal `json:"price"`
	Description     *string          `json:"description"`
	StockQuantity   int32            `json:"stock_quantity"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Author is joined in on reads; nil if the author row is missing.
	Author *AuthorSummary `json:"author,omitempty"`
}

// AuthorSummary is the slice of the author embedded in book responses.
type AuthorSummary struct {
	ID          int64   `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email"`
	Nationality *string `json:"nationality"`
}

// NewBook holds the validated values of a book about to be inserted.
type NewBook struct {
	Title           string
	ISBN            string
	AuthorID        int64
	Genre           *string
	PublicationDate pgtype.Date
	Pages           *int32
	Price           *decimal.Decimal
	Description     *string
	StockQuantity   int32
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title           *string
	ISBN            *string
	AuthorID        *int64
	Genre           *string
	PublicationDate *pgtype.Date
	Pages           *int32
	Price           *decimal.Decimal
	Description     *string
	StockQuantity   *int32
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.ISBN == nil && p.AuthorID == nil && p.Genre == nil &&
		p.PublicationDate == nil && p.Pages == nil && p.Price == nil &&
		p.Description == nil && p.StockQuantity == nil
}

// Filter picks one listing mode. The first non-empty field wins, in the
// order Search, Genre, AuthorID; all empty means the plain listing.
type Filter struct {
	Search   string
	Genre    string
	AuthorID int64
}

// Global field names for validation
const (
	FieldTitle           = "title"
	FieldISBN            = "isbn"
	FieldAuthorID        = "author_id"
	FieldGenre           = "genre"
	FieldPublicationDate = "publication_date"
	FieldPages           = "pages"
	FieldPrice           = "price"
	FieldDescription     = "description"
	FieldStockQuantity   = "stock_quantity"
	FieldThreshold       = "threshold"
)

// Domain errors
var (
	ErrNotFound       = apperr.NotFound("Book")
	ErrAuthorNotFound = apperr.NotFound("Author")
	ErrISBNTaken      = apperr.Conflict("Book with this ISBN already exists")
	ErrNoFields       = apperr.ValidationError("No fields to update")
)
