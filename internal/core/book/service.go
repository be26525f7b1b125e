package book

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/library-api/internal/platform/database/schema"
	"github.com/taibuivan/library-api/internal/platform/dberr"
	"github.com/taibuivan/library-api/internal/platform/validate"
)

type Service struct {
	repo    Repository
	authors AuthorLookup
	logger  *slog.Logger
}

func NewService(repo Repository, authors AuthorLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		authors: authors,
		logger:  logger,
	}
}

// ListBooks runs the first filter that is set, or the plain listing. The
// total is the full row count for the plain listing and the number of
// matches otherwise.
func (service *Service) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	var (
		books []*Book
		err   error
	)

	switch {
	case filter.Search != "":
		books, err = service.repo.Search(context, filter.Search, limit)
	case filter.Genre != "":
		books, err = service.repo.FindByGenre(context, filter.Genre, limit)
	case filter.AuthorID > 0:
		books, err = service.repo.FindByAuthor(context, filter.AuthorID, limit)
	default:
		return service.listAll(context, limit, offset)
	}

	if err != nil {
		return nil, 0, err
	}
	return books, len(books), nil
}

func (service *Service) listAll(context context.Context, limit, offset int) ([]*Book, int, error) {
	books, err := service.repo.FindAll(context, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repo.Count(context)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (service *Service) GetBook(context context.Context, id int64) (*Book, error) {
	book, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, notFound(err)
	}
	return book, nil
}

func (service *Service) GetBookByISBN(context context.Context, isbn string) (*Book, error) {
	book, err := service.repo.FindByISBN(context, isbn)
	if err != nil {
		return nil, notFound(err)
	}
	return book, nil
}

// LowStock lists books with at most threshold copies, most depleted first.
func (service *Service) LowStock(context context.Context, threshold int) ([]*Book, error) {
	return service.repo.LowStock(context, threshold)
}

func (service *Service) CreateBook(context context.Context, input CreateInput) (*Book, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if err := service.ensureISBNFree(context, input.ISBN); err != nil {
		return nil, err
	}

	newBook := input.NewBook()
	if err := service.ensureAuthor(context, newBook.AuthorID); err != nil {
		return nil, err
	}

	book, err := service.repo.Create(context, newBook)
	if err != nil {
		return nil, constraintError(err)
	}

	service.logger.Info("book_created",
		slog.Int64("book_id", book.ID),
		slog.String("isbn", book.ISBN),
	)
	return book, nil
}

func (service *Service) UpdateBook(context context.Context, id int64, input UpdateInput) (*Book, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := service.GetBook(context, id)
	if err != nil {
		return nil, err
	}

	patch := input.Patch()
	if patch.IsEmpty() {
		return nil, ErrNoFields
	}

	if patch.ISBN != nil && *patch.ISBN != current.ISBN {
		if err := service.ensureISBNFree(context, *patch.ISBN); err != nil {
			return nil, err
		}
	}

	if patch.AuthorID != nil && *patch.AuthorID != current.AuthorID {
		if err := service.ensureAuthor(context, *patch.AuthorID); err != nil {
			return nil, err
		}
	}

	book, err := service.repo.Update(context, id, patch)
	if err != nil {
		return nil, notFound(constraintError(err))
	}

	service.logger.Info("book_updated", slog.Int64("book_id", id))
	return book, nil
}

// UpdateStock overwrites the stock quantity of a book.
func (service *Service) UpdateStock(context context.Context, id int64, input StockInput) (*Book, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	previous, err := service.GetBook(context, id)
	if err != nil {
		return nil, err
	}

	book, err := service.repo.UpdateStock(context, id, *input.StockQuantity)
	if err != nil {
		return nil, notFound(constraintError(err))
	}

	service.logger.Info("book_stock_updated",
		slog.Int64("book_id", id),
		slog.Int("from", int(previous.StockQuantity)),
		slog.Int("to", int(book.StockQuantity)),
	)
	return book, nil
}

func (service *Service) DeleteBook(context context.Context, id int64) error {
	if _, err := service.GetBook(context, id); err != nil {
		return err
	}

	deleted, err := service.repo.Delete(context, id)
	if err != nil {
		return err
	}

	// Removed by a concurrent request since the lookup
	if !deleted {
		return ErrNotFound
	}

	service.logger.Warn("book_deleted", slog.Int64("book_id", id))
	return nil
}

func (service *Service) ensureISBNFree(context context.Context, isbn string) error {
	_, err := service.repo.FindByISBN(context, isbn)
	switch {
	case err == nil:
		return ErrISBNTaken
	case errors.Is(err, dberr.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (service *Service) ensureAuthor(context context.Context, authorID int64) error {
	exists, err := service.authors.Exists(context, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAuthorNotFound
	}
	return nil
}

// constraintError maps violations that slipped past the pre-checks.
func constraintError(err error) error {
	switch dberr.ConstraintName(err) {
	case schema.ConstraintBooksISBNKey:
		return ErrISBNTaken
	case schema.ConstraintBooksAuthorFK:
		return ErrAuthorNotFound
	case schema.ConstraintBooksStockNonNeg:
		return validate.FieldError(FieldStockQuantity, stockMessage)
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
