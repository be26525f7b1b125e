package book

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/library-api/internal/platform/dberr"
)

// memoryRepository is an in-memory [Repository] for service and handler tests.
type memoryRepository struct {
	mu     sync.Mutex
	nextID int64
	books  map[int64]*Book
	clock  time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		books: make(map[int64]*Book),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryRepository) Create(_ context.Context, b *NewBook) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	now := m.tick()
	book := &Book{
		ID:              m.nextID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		AuthorID:        b.AuthorID,
		Genre:           b.Genre,
		PublicationDate: b.PublicationDate,
		Pages:           b.Pages,
		Price:           b.Price,
		Description:     b.Description,
		StockQuantity:   b.StockQuantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.books[book.ID] = book

	copied := *book
	return &copied, nil
}

func (m *memoryRepository) FindByID(_ context.Context, id int64) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *book
	return &copied, nil
}

func (m *memoryRepository) FindByISBN(_ context.Context, isbn string) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, book := range m.books {
		if book.ISBN == isbn {
			copied := *book
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

// filter returns matching books newest first, at most limit (<= 0 means all).
func (m *memoryRepository) filter(limit int, match func(*Book) bool) []*Book {
	result := make([]*Book, 0)
	for _, book := range m.books {
		if match(book) {
			result = append(result, book)
		}
	}
	slices.SortFunc(result, func(a, b *Book) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (m *memoryRepository) FindAll(_ context.Context, limit, offset int) ([]*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.filter(0, func(*Book) bool { return true })
	if offset >= len(all) {
		return []*Book{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memoryRepository) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.books), nil
}

func (m *memoryRepository) Search(_ context.Context, term string, limit int) ([]*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	term = strings.ToLower(term)
	return m.filter(limit, func(b *Book) bool {
		text := b.Title + "\x00" + b.ISBN
		if b.Genre != nil {
			text += "\x00" + *b.Genre
		}
		if b.Description != nil {
			text += "\x00" + *b.Description
		}
		return strings.Contains(strings.ToLower(text), term)
	}), nil
}

func (m *memoryRepository) FindByGenre(_ context.Context, genre string, limit int) ([]*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.filter(limit, func(b *Book) bool {
		return b.Genre != nil && strings.EqualFold(*b.Genre, genre)
	}), nil
}

func (m *memoryRepository) FindByAuthor(_ context.Context, authorID int64, limit int) ([]*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.filter(limit, func(b *Book) bool { return b.AuthorID == authorID }), nil
}

func (m *memoryRepository) LowStock(_ context.Context, threshold int) ([]*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := m.filter(0, func(b *Book) bool { return int(b.StockQuantity) <= threshold })
	slices.SortFunc(result, func(a, b *Book) int {
		if a.StockQuantity != b.StockQuantity {
			return int(a.StockQuantity - b.StockQuantity)
		}
		return int(a.ID - b.ID)
	})
	return result, nil
}

func (m *memoryRepository) Update(_ context.Context, id int64, patch Patch) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if patch.IsEmpty() {
		return nil, ErrNoFields
	}

	book, ok := m.books[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.ISBN != nil {
		book.ISBN = *patch.ISBN
	}
	if patch.AuthorID != nil {
		book.AuthorID = *patch.AuthorID
	}
	if patch.Genre != nil {
		book.Genre = patch.Genre
	}
	if patch.PublicationDate != nil {
		book.PublicationDate = *patch.PublicationDate
	}
	if patch.Pages != nil {
		book.Pages = patch.Pages
	}
	if patch.Price != nil {
		book.Price = patch.Price
	}
	if patch.Description != nil {
		book.Description = patch.Description
	}
	if patch.StockQuantity != nil {
		book.StockQuantity = *patch.StockQuantity
	}
	book.UpdatedAt = m.tick()

	copied := *book
	return &copied, nil
}

func (m *memoryRepository) UpdateStock(_ context.Context, id int64, quantity int32) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	book.StockQuantity = quantity
	book.UpdatedAt = m.tick()

	copied := *book
	return &copied, nil
}

func (m *memoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return false, nil
	}
	delete(m.books, id)
	return true, nil
}

// memoryAuthors is an [AuthorLookup] over a fixed set of ids.
type memoryAuthors map[int64]bool

func (m memoryAuthors) Exists(_ context.Context, id int64) (bool, error) {
	return m[id], nil
}
