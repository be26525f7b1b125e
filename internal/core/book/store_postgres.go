package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/library-api/internal/platform/database/schema"
	"github.com/taibuivan/library-api/internal/platform/dberr"
	"github.com/taibuivan/library-api/internal/platform/postgres"
	"github.com/taibuivan/library-api/pkg/normalize"
	"github.com/taibuivan/library-api/pkg/pointer"
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectBooks is the shared projection: every book column plus the joined
// author summary. A LEFT JOIN keeps books whose author row is gone.
var selectBooks = fmt.Sprintf(`
	SELECT %s, a.%s, a.%s, a.%s, a.%s, a.%s
	FROM %s b
	LEFT JOIN %s a ON b.%s = a.%s
`,
	qualify("b", schema.Books.Columns()),
	schema.Authors.ID, schema.Authors.FirstName, schema.Authors.LastName, schema.Authors.Email, schema.Authors.Nationality,
	schema.Books.Table, schema.Authors.Table, schema.Books.AuthorID, schema.Authors.ID,
)

func (repository *PostgresRepository) Create(context context.Context, b *NewBook) (*Book, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`,
		schema.Books.Table, schema.Books.Title, schema.Books.ISBN, schema.Books.AuthorID, schema.Books.Genre,
		schema.Books.PublicationDate, schema.Books.Pages, schema.Books.Price, schema.Books.Description,
		schema.Books.StockQuantity,
		schema.Books.ID,
	)

	var id int64
	err := repository.db.QueryRow(context, query,
		b.Title, b.ISBN, b.AuthorID, b.Genre, b.PublicationDate, b.Pages, b.Price, b.Description, b.StockQuantity,
	).Scan(&id)
	if err != nil {
		return nil, dberr.Wrap(err, "create_book")
	}

	return repository.FindByID(context, id)
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Book, error) {
	query := selectBooks + fmt.Sprintf(`WHERE b.%s = $1`, schema.Books.ID)

	book, err := scanBook(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_book_by_id")
	}
	return book, nil
}

func (repository *PostgresRepository) FindByISBN(context context.Context, isbn string) (*Book, error) {
	query := selectBooks + fmt.Sprintf(`WHERE b.%s = $1`, schema.Books.ISBN)

	book, err := scanBook(repository.db.QueryRow(context, query, isbn))
	if err != nil {
		return nil, dberr.Wrap(err, "find_book_by_isbn")
	}
	return book, nil
}

func (repository *PostgresRepository) FindAll(context context.Context, limit, offset int) ([]*Book, error) {
	query := selectBooks + fmt.Sprintf(`
		ORDER BY b.%s DESC, b.%s DESC
		LIMIT $1 OFFSET $2
	`, schema.Books.CreatedAt, schema.Books.ID)

	return repository.list(context, "list_books", query, limit, offset)
}

func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.Books.Table)

	var total int
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_books")
	}
	return total, nil
}

func (repository *PostgresRepository) Search(context context.Context, term string, limit int) ([]*Book, error) {
	query := selectBooks + fmt.Sprintf(`
		WHERE b.%s ILIKE $1 OR b.%s ILIKE $1 OR b.%s ILIKE $1 OR b.%s ILIKE $1
		ORDER BY b.%s DESC, b.%s DESC
		LIMIT $2
	`,
		schema.Books.Title, schema.Books.ISBN, schema.Books.Genre, schema.Books.Description,
		schema.Books.CreatedAt, schema.Books.ID,
	)

	return repository.list(context, "search_books", query, normalize.Contains(term), limit)
}

func (repository *PostgresRepository) FindByGenre(context context.Context, genre string, limit int) ([]*Book, error) {
	query := selectBooks + fmt.Sprintf(`
		WHERE lower(b.%s) = lower($1)
		ORDER BY b.%s DESC, b.%s DESC
		LIMIT $2
	`, schema.Books.Genre, schema.Books.CreatedAt, schema.Books.ID)

	return repository.list(context, "find_books_by_genre", query, genre, limit)
}

func (repository *PostgresRepository) FindByAuthor(context context.Context, authorID int64, limit int) ([]*Book, error) {
	query := selectBooks + fmt.Sprintf(`
		WHERE b.%s = $1
		ORDER BY b.%s DESC NULLS LAST, b.%s DESC
		LIMIT $2
	`, schema.Books.AuthorID, schema.Books.PublicationDate, schema.Books.ID)

	// LIMIT NULL means no limit
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	return repository.list(context, "find_books_by_author", query, authorID, limitArg)
}

func (repository *PostgresRepository) LowStock(context context.Context, threshold int) ([]*Book, error) {
	query := selectBooks + fmt.Sprintf(`
		WHERE b.%s <= $1
		ORDER BY b.%s ASC, b.%s ASC
	`, schema.Books.StockQuantity, schema.Books.StockQuantity, schema.Books.ID)

	return repository.list(context, "find_low_stock_books", query, threshold)
}

func (repository *PostgresRepository) Update(context context.Context, id int64, patch Patch) (*Book, error) {
	if patch.IsEmpty() {
		return nil, ErrNoFields
	}

	var set postgres.Assignments
	if patch.Title != nil {
		set.Set(schema.Books.Title, *patch.Title)
	}
	if patch.ISBN != nil {
		set.Set(schema.Books.ISBN, *patch.ISBN)
	}
	if patch.AuthorID != nil {
		set.Set(schema.Books.AuthorID, *patch.AuthorID)
	}
	if patch.Genre != nil {
		set.Set(schema.Books.Genre, *patch.Genre)
	}
	if patch.PublicationDate != nil {
		set.Set(schema.Books.PublicationDate, *patch.PublicationDate)
	}
	if patch.Pages != nil {
		set.Set(schema.Books.Pages, *patch.Pages)
	}
	if patch.Price != nil {
		set.Set(schema.Books.Price, *patch.Price)
	}
	if patch.Description != nil {
		set.Set(schema.Books.Description, *patch.Description)
	}
	if patch.StockQuantity != nil {
		set.Set(schema.Books.StockQuantity, *patch.StockQuantity)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s, %s = NOW() WHERE %s = $%d`,
		schema.Books.Table, set.SQL(), schema.Books.UpdatedAt, schema.Books.ID, set.Next(),
	)

	cmd, err := repository.db.Exec(context, query, set.Args(id)...)
	if err != nil {
		return nil, dberr.Wrap(err, "update_book")
	}

	if cmd.RowsAffected() == 0 {
		return nil, dberr.ErrNotFound
	}

	return repository.FindByID(context, id)
}

func (repository *PostgresRepository) UpdateStock(context context.Context, id int64, quantity int32) (*Book, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		schema.Books.Table, schema.Books.StockQuantity, schema.Books.UpdatedAt, schema.Books.ID,
	)

	cmd, err := repository.db.Exec(context, query, quantity, id)
	if err != nil {
		return nil, dberr.Wrap(err, "update_book_stock")
	}

	if cmd.RowsAffected() == 0 {
		return nil, dberr.ErrNotFound
	}

	return repository.FindByID(context, id)
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Books.Table, schema.Books.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "delete_book")
	}
	return cmd.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) list(context context.Context, action, query string, args ...any) ([]*Book, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	books := make([]*Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return books, nil
}

// scanBook reads one row of [selectBooks].
func scanBook(row pgx.Row) (*Book, error) {
	var (
		b        Book
		authorID *int64
		first    *string
		last     *string
		summary  AuthorSummary
	)

	err := row.Scan(
		&b.ID, &b.Title, &b.ISBN, &b.AuthorID, &b.Genre, &b.PublicationDate,
		&b.Pages, &b.Price, &b.Description, &b.StockQuantity, &b.CreatedAt, &b.UpdatedAt,
		&authorID, &first, &last, &summary.Email, &summary.Nationality,
	)
	if err != nil {
		return nil, err
	}

	if authorID != nil {
		summary.ID = *authorID
		summary.FirstName = pointer.Val(first)
		summary.LastName = pointer.Val(last)
		b.Author = &summary
	}
	return &b, nil
}

func qualify(alias string, columns []string) string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}
