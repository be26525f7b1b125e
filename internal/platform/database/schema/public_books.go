package schema

// BooksTable represents the 'books' table
type BooksTable struct {
	Table           string
	ID              string
	Title           string
	ISBN            string
	AuthorID        string
	Genre           string
	PublicationDate string
	Pages           string
	Price           string
	Description     string
	StockQuantity   string
	CreatedAt       string
	UpdatedAt       string
}

// Books is the schema definition for books
var Books = BooksTable{
	Table:           "books",
	ID:              "id",
	Title:           "title",
	ISBN:            "isbn",
	AuthorID:        "author_id",
	Genre:           "genre",
	PublicationDate: "publication_date",
	Pages:           "pages",
	Price:           "price",
	Description:     "description",
	StockQuantity:   "stock_quantity",
	CreatedAt:       "created_at",
	UpdatedAt:       "updated_at",
}

func (t BooksTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.ISBN, t.AuthorID, t.Genre, t.PublicationDate,
		t.Pages, t.Price, t.Description, t.StockQuantity, t.CreatedAt, t.UpdatedAt,
	}
}

// Constraint names referenced by the error mapping.
const (
	ConstraintAuthorsEmailKey  = "authors_email_key"
	ConstraintBooksISBNKey     = "books_isbn_key"
	ConstraintBooksAuthorFK    = "books_author_id_fkey"
	ConstraintBooksStockNonNeg = "books_stock_quantity_check"
)
