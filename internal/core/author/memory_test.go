package author

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/library-api/internal/core/book"
	"github.com/taibuivan/library-api/internal/platform/dberr"
)

// memoryRepository is an in-memory [Repository] for service and handler tests.
type memoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	authors map[int64]*Author
	clock   time.Time

	// failWith, when set, is returned by every call.
	failWith error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		authors: make(map[int64]*Author),
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryRepository) Create(_ context.Context, a *NewAuthor) (*Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	m.nextID++
	now := m.tick()
	author := &Author{
		ID:          m.nextID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		BirthDate:   a.BirthDate,
		Nationality: a.Nationality,
		Bio:         a.Bio,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.authors[author.ID] = author

	copied := *author
	return &copied, nil
}

func (m *memoryRepository) FindByID(_ context.Context, id int64) (*Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	author, ok := m.authors[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *author
	return &copied, nil
}

func (m *memoryRepository) FindByEmail(_ context.Context, email string) (*Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	for _, author := range m.authors {
		if author.Email != nil && *author.Email == email {
			copied := *author
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

// sorted returns authors newest first, ties broken by id.
func (m *memoryRepository) sorted() []*Author {
	all := make([]*Author, 0, len(m.authors))
	for _, author := range m.authors {
		all = append(all, author)
	}
	slices.SortFunc(all, func(a, b *Author) int {
		switch {
		case newer(a, b):
			return -1
		case newer(b, a):
			return 1
		}
		return 0
	})
	return all
}

func newer(a, b *Author) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (m *memoryRepository) FindAll(_ context.Context, limit, offset int) ([]*Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	all := m.sorted()
	result := make([]*Author, 0)
	for i := offset; i < len(all) && len(result) < limit; i++ {
		result = append(result, all[i])
	}
	return result, nil
}

func (m *memoryRepository) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.authors), nil
}

func (m *memoryRepository) Search(_ context.Context, term string, limit int) ([]*Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	term = strings.ToLower(term)
	result := make([]*Author, 0)
	for _, author := range m.sorted() {
		email := ""
		if author.Email != nil {
			email = *author.Email
		}
		haystack := strings.ToLower(author.FirstName + "\x00" + author.LastName + "\x00" + email)
		if strings.Contains(haystack, term) && len(result) < limit {
			result = append(result, author)
		}
	}
	return result, nil
}

func (m *memoryRepository) Update(_ context.Context, id int64, patch Patch) (*Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if patch.IsEmpty() {
		return nil, ErrNoFields
	}

	author, ok := m.authors[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	if patch.FirstName != nil {
		author.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		author.LastName = *patch.LastName
	}
	if patch.Email != nil {
		author.Email = patch.Email
	}
	if patch.BirthDate != nil {
		author.BirthDate = *patch.BirthDate
	}
	if patch.Nationality != nil {
		author.Nationality = patch.Nationality
	}
	if patch.Bio != nil {
		author.Bio = patch.Bio
	}
	author.UpdatedAt = m.tick()

	copied := *author
	return &copied, nil
}

func (m *memoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}

	if _, ok := m.authors[id]; !ok {
		return false, nil
	}
	delete(m.authors, id)
	return true, nil
}

func (m *memoryRepository) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}

	_, ok := m.authors[id]
	return ok, nil
}

// memoryBooks is a [BookFinder] keyed by author id.
type memoryBooks map[int64][]*book.Book

func (m memoryBooks) FindByAuthor(_ context.Context, authorID int64, _ int) ([]*book.Book, error) {
	books := m[authorID]
	if books == nil {
		return []*book.Book{}, nil
	}
	return books, nil
}
