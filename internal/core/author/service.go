package author

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/library-api/internal/core/book"
	"github.com/taibuivan/library-api/internal/platform/database/schema"
	"github.com/taibuivan/library-api/internal/platform/dberr"
)

// BookFinder lists the books written by an author.
type BookFinder interface {
	FindByAuthor(context context.Context, authorID int64, limit int) ([]*book.Book, error)
}

// Books is the payload of GET /authors/{id}/books.
type Books struct {
	Author *Author      `json:"author"`
	Books  []*book.Book `json:"books"`
}

type Service struct {
	repo   Repository
	books  BookFinder
	logger *slog.Logger
}

func NewService(repo Repository, books BookFinder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		books:  books,
		logger: logger,
	}
}

// ListAuthors runs the search when a term is given, otherwise the plain
// listing. The total is the full row count for the plain listing and the
// number of matches for a search.
func (service *Service) ListAuthors(context context.Context, filter Filter, limit, offset int) ([]*Author, int, error) {
	if filter.Search != "" {
		authors, err := service.repo.Search(context, filter.Search, limit)
		if err != nil {
			return nil, 0, err
		}
		return authors, len(authors), nil
	}

	authors, err := service.repo.FindAll(context, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repo.Count(context)
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

func (service *Service) GetAuthor(context context.Context, id int64) (*Author, error) {
	author, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, notFound(err)
	}
	return author, nil
}

// GetAuthorBooks returns the author together with every book they wrote.
func (service *Service) GetAuthorBooks(context context.Context, id int64) (*Books, error) {
	author, err := service.GetAuthor(context, id)
	if err != nil {
		return nil, err
	}

	books, err := service.books.FindByAuthor(context, id, 0)
	if err != nil {
		return nil, err
	}

	return &Books{Author: author, Books: books}, nil
}

func (service *Service) CreateAuthor(context context.Context, input CreateInput) (*Author, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := service.ensureEmailFree(context, *input.Email); err != nil {
			return nil, err
		}
	}

	author, err := service.repo.Create(context, input.NewAuthor())
	if err != nil {
		return nil, emailConflict(err)
	}

	service.logger.Info("author_created", slog.Int64("author_id", author.ID))
	return author, nil
}

func (service *Service) UpdateAuthor(context context.Context, id int64, input UpdateInput) (*Author, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := service.GetAuthor(context, id)
	if err != nil {
		return nil, err
	}

	patch := input.Patch()
	if patch.IsEmpty() {
		return nil, ErrNoFields
	}

	// Only a changed email can collide with another author
	if patch.Email != nil && (current.Email == nil || *current.Email != *patch.Email) {
		if err := service.ensureEmailFree(context, *patch.Email); err != nil {
			return nil, err
		}
	}

	author, err := service.repo.Update(context, id, patch)
	if err != nil {
		return nil, notFound(emailConflict(err))
	}

	service.logger.Info("author_updated", slog.Int64("author_id", id))
	return author, nil
}

func (service *Service) DeleteAuthor(context context.Context, id int64) error {
	if _, err := service.GetAuthor(context, id); err != nil {
		return err
	}

	deleted, err := service.repo.Delete(context, id)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return ErrHasBooks
		}
		return err
	}

	// Removed by a concurrent request since the lookup
	if !deleted {
		return ErrNotFound
	}

	service.logger.Warn("author_deleted", slog.Int64("author_id", id))
	return nil
}

func (service *Service) ensureEmailFree(context context.Context, email string) error {
	_, err := service.repo.FindByEmail(context, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case errors.Is(err, dberr.ErrNotFound):
		return nil
	default:
		return err
	}
}

// emailConflict maps a unique violation that slipped past the pre-check.
func emailConflict(err error) error {
	if dberr.ConstraintName(err) == schema.ConstraintAuthorsEmailKey {
		return ErrEmailTaken
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
