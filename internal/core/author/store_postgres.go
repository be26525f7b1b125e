package author

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/library-api/internal/platform/database/schema"
	"github.com/taibuivan/library-api/internal/platform/dberr"
	"github.com/taibuivan/library-api/internal/platform/postgres"
	"github.com/taibuivan/library-api/pkg/normalize"
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = strings.Join(schema.Authors.Columns(), ", ")

func (repository *PostgresRepository) Create(context context.Context, a *NewAuthor) (*Author, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`,
		schema.Authors.Table, schema.Authors.FirstName, schema.Authors.LastName, schema.Authors.Email,
		schema.Authors.BirthDate, schema.Authors.Nationality, schema.Authors.Bio,
		schema.Authors.ID,
	)

	var id int64
	err := repository.db.QueryRow(context, query,
		a.FirstName, a.LastName, a.Email, a.BirthDate, a.Nationality, a.Bio,
	).Scan(&id)
	if err != nil {
		return nil, dberr.Wrap(err, "create_author")
	}

	return repository.FindByID(context, id)
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.Authors.Table, schema.Authors.ID,
	)

	author, err := scanAuthor(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_author_by_id")
	}
	return author, nil
}

func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.Authors.Table, schema.Authors.Email,
	)

	author, err := scanAuthor(repository.db.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "find_author_by_email")
	}
	return author, nil
}

func (repository *PostgresRepository) FindAll(context context.Context, limit, offset int) ([]*Author, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2
	`,
		selectColumns, schema.Authors.Table, schema.Authors.CreatedAt, schema.Authors.ID,
	)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "list_authors")
	}
	return collectAuthors(rows, "list_authors")
}

func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.Authors.Table)

	var total int
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_authors")
	}
	return total, nil
}

func (repository *PostgresRepository) Search(context context.Context, term string, limit int) ([]*Author, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s ILIKE $1 OR %s ILIKE $1 OR %s ILIKE $1
		ORDER BY %s DESC, %s DESC
		LIMIT $2
	`,
		selectColumns, schema.Authors.Table,
		schema.Authors.FirstName, schema.Authors.LastName, schema.Authors.Email,
		schema.Authors.CreatedAt, schema.Authors.ID,
	)

	rows, err := repository.db.Query(context, query, normalize.Contains(term), limit)
	if err != nil {
		return nil, dberr.Wrap(err, "search_authors")
	}
	return collectAuthors(rows, "search_authors")
}

func (repository *PostgresRepository) Update(context context.Context, id int64, patch Patch) (*Author, error) {
	if patch.IsEmpty() {
		return nil, ErrNoFields
	}

	var set postgres.Assignments
	if patch.FirstName != nil {
		set.Set(schema.Authors.FirstName, *patch.FirstName)
	}
	if patch.LastName != nil {
		set.Set(schema.Authors.LastName, *patch.LastName)
	}
	if patch.Email != nil {
		set.Set(schema.Authors.Email, *patch.Email)
	}
	if patch.BirthDate != nil {
		set.Set(schema.Authors.BirthDate, *patch.BirthDate)
	}
	if patch.Nationality != nil {
		set.Set(schema.Authors.Nationality, *patch.Nationality)
	}
	if patch.Bio != nil {
		set.Set(schema.Authors.Bio, *patch.Bio)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s, %s = NOW() WHERE %s = $%d`,
		schema.Authors.Table, set.SQL(), schema.Authors.UpdatedAt, schema.Authors.ID, set.Next(),
	)

	cmd, err := repository.db.Exec(context, query, set.Args(id)...)
	if err != nil {
		return nil, dberr.Wrap(err, "update_author")
	}

	if cmd.RowsAffected() == 0 {
		return nil, dberr.ErrNotFound
	}

	return repository.FindByID(context, id)
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Authors.Table, schema.Authors.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "delete_author")
	}
	return cmd.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) Exists(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.Authors.Table, schema.Authors.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "author_exists")
	}
	return exists, nil
}

// scanAuthor reads one row in [schema.AuthorsTable.Columns] order.
func scanAuthor(row pgx.Row) (*Author, error) {
	a := &Author{}
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.BirthDate,
		&a.Nationality, &a.Bio, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func collectAuthors(rows pgx.Rows, action string) ([]*Author, error) {
	defer rows.Close()

	authors := make([]*Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		authors = append(authors, a)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return authors, nil
}
