package book

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/taibuivan/library-api/internal/platform/validate"
	"github.com/taibuivan/library-api/pkg/normalize"
)

const (
	titleMinLength       = 1
	titleMaxLength       = 255
	genreMaxLength       = 100
	descriptionMaxLength = 5000

	// NUMERIC(10,2)
	priceIntegerDigits = 8
	priceScale         = 2

	authorIDMessage    = "Author ID must be a positive integer"
	genreMessage       = "Genre must not exceed 100 characters"
	dateMessage        = "Please provide a valid publication date in YYYY-MM-DD format"
	pagesMessage       = "Pages must be a positive integer"
	priceMessage       = "Price must be a decimal with up to 2 decimal places"
	descriptionMessage = "Description must not exceed 5000 characters"
	stockMessage       = "Stock quantity must be a non-negative integer"
)

// CreateInput is the request body of POST /books.
type CreateInput struct {
	Title           string            `json:"title"`
	ISBN            string            `json:"isbn"`
	AuthorID        *int64            `json:"author_id"`
	Genre           *string           `json:"genre"`
	PublicationDate *string           `json:"publication_date"`
	Pages           *int32            `json:"pages"`
	Price           *validate.Decimal `json:"price"`
	Description     *string           `json:"description"`
	StockQuantity   *int32            `json:"stock_quantity"`
}

// Normalize trims and NFC-normalizes every text field.
func (in *CreateInput) Normalize() {
	in.Title = normalize.Text(in.Title)
	in.ISBN = normalize.Text(in.ISBN)
	in.Genre = normalize.OptionalText(in.Genre)
	in.PublicationDate = normalize.OptionalText(in.PublicationDate)
	in.Description = normalize.OptionalText(in.Description)
}

// Validate applies the create rule set.
func (in *CreateInput) Validate() error {
	return validate.Struct(in,
		validation.Field(&in.Title,
			validation.Required.Error("Title is required"),
			validation.RuneLength(titleMinLength, titleMaxLength).Error("Title must be between 1 and 255 characters"),
		),
		validation.Field(&in.ISBN,
			validation.Required.Error("ISBN is required"),
			validation.RuneLength(validate.ISBNMinLength, validate.ISBNMaxLength).Error("ISBN must be between 10 and 20 characters"),
		),
		validation.Field(&in.AuthorID,
			validation.NotNil.Error("Author ID is required"),
			validate.PositiveInt(authorIDMessage),
		),
		validation.Field(&in.Genre, validation.RuneLength(0, genreMaxLength).Error(genreMessage)),
		validation.Field(&in.PublicationDate, dateRules()...),
		validation.Field(&in.Pages, validate.PositiveInt(pagesMessage)),
		validation.Field(&in.Price, validate.Money(priceIntegerDigits, priceScale, priceMessage)),
		validation.Field(&in.Description, validation.RuneLength(0, descriptionMaxLength).Error(descriptionMessage)),
		validation.Field(&in.StockQuantity, validate.NonNegativeInt(stockMessage)),
	)
}

// NewBook converts a validated input into insert values. A missing stock
// quantity starts at zero.
func (in *CreateInput) NewBook() *NewBook {
	book := &NewBook{
		Title:       in.Title,
		ISBN:        in.ISBN,
		Genre:       in.Genre,
		Pages:       in.Pages,
		Price:       in.Price.Amount(),
		Description: in.Description,
	}
	if in.AuthorID != nil {
		book.AuthorID = *in.AuthorID
	}
	if in.StockQuantity != nil {
		book.StockQuantity = *in.StockQuantity
	}
	if date := validate.ParseDate(in.PublicationDate); date != nil {
		book.PublicationDate = *date
	}
	return book
}

// UpdateInput is the request body of PUT /books/{id}. Absent and null
// fields are left unchanged.
type UpdateInput struct {
	Title           *string           `json:"title"`
	ISBN            *string           `json:"isbn"`
	AuthorID        *int64            `json:"author_id"`
	Genre           *string           `json:"genre"`
	PublicationDate *string           `json:"publication_date"`
	Pages           *int32            `json:"pages"`
	Price           *validate.Decimal `json:"price"`
	Description     *string           `json:"description"`
	StockQuantity   *int32            `json:"stock_quantity"`
}

// Normalize trims and NFC-normalizes every present text field.
func (in *UpdateInput) Normalize() {
	in.Title = normalize.OptionalText(in.Title)
	in.ISBN = normalize.OptionalText(in.ISBN)
	in.Genre = normalize.OptionalText(in.Genre)
	in.PublicationDate = normalize.OptionalText(in.PublicationDate)
	in.Description = normalize.OptionalText(in.Description)
}

// Validate applies the update rule set: every field optional, checked when present.
func (in *UpdateInput) Validate() error {
	return validate.Struct(in,
		validation.Field(&in.Title, validate.Length("Title", titleMinLength, titleMaxLength)...),
		validation.Field(&in.ISBN, validate.Length("ISBN", validate.ISBNMinLength, validate.ISBNMaxLength)...),
		validation.Field(&in.AuthorID, validate.PositiveInt(authorIDMessage)),
		validation.Field(&in.Genre, validation.RuneLength(0, genreMaxLength).Error(genreMessage)),
		validation.Field(&in.PublicationDate, dateRules()...),
		validation.Field(&in.Pages, validate.PositiveInt(pagesMessage)),
		validation.Field(&in.Price, validate.Money(priceIntegerDigits, priceScale, priceMessage)),
		validation.Field(&in.Description, validation.RuneLength(0, descriptionMaxLength).Error(descriptionMessage)),
		validation.Field(&in.StockQuantity, validate.NonNegativeInt(stockMessage)),
	)
}

// Patch converts a validated input into a typed partial update.
func (in *UpdateInput) Patch() Patch {
	return Patch{
		Title:           in.Title,
		ISBN:            in.ISBN,
		AuthorID:        in.AuthorID,
		Genre:           in.Genre,
		PublicationDate: validate.ParseDate(in.PublicationDate),
		Pages:           in.Pages,
		Price:           in.Price.Amount(),
		Description:     in.Description,
		StockQuantity:   in.StockQuantity,
	}
}

// StockInput is the request body of PATCH /books/{id}/stock.
type StockInput struct {
	StockQuantity *int32 `json:"stock_quantity"`
}

// Validate requires a non-negative quantity.
func (in *StockInput) Validate() error {
	return validate.Struct(in,
		validation.Field(&in.StockQuantity,
			validation.NotNil.Error(stockMessage),
			validate.NonNegativeInt(stockMessage),
		),
	)
}

func dateRules() []validation.Rule {
	return []validation.Rule{
		validation.NilOrNotEmpty.Error(dateMessage),
		validation.Date(validate.DateLayout).Error(dateMessage),
	}
}
