package book

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    map[string]any    `json:"meta"`
	Code    string            `json:"code"`
	Errors  []json.RawMessage `json:"errors"`
}

func newTestRouter() (http.Handler, *memoryRepository) {
	repo := newMemoryRepository()
	handler := NewHandler(NewService(repo, memoryAuthors{1: true}, discard))

	router := chi.NewRouter()
	router.Route("/books", handler.RegisterRoutes)
	return router, repo
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var decoded envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	return recorder, decoded
}

func TestHandler_CreateAndStock(t *testing.T) {
	router, repo := newTestRouter()

	recorder, body := do(t, router, http.MethodPost, "/books",
		`{"title":"X","isbn":"1234567890","author_id":1,"stock_quantity":3}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "Book created successfully", body.Message)

	var created Book
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, int32(3), created.StockQuantity)
	assert.Contains(t, string(body.Data), `"publication_date":null`)

	recorder, body = do(t, router, http.MethodPatch, "/books/1/stock", `{"stock_quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)

	stored, err := repo.FindByID(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), stored.StockQuantity)

	recorder, body = do(t, router, http.MethodPatch, "/books/1/stock", `{"stock_quantity":0}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Book stock updated successfully", body.Message)
	assert.Contains(t, string(body.Data), `"stock_quantity":0`)
}

func TestHandler_CRUD(t *testing.T) {
	router, _ := newTestRouter()

	recorder, body := do(t, router, http.MethodPost, "/books",
		`{"title":"Dune","isbn":"9780441013593","author_id":1,"genre":"Science Fiction","publication_date":"1965-08-01","pages":412,"price":"9.99"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, string(body.Data), `"publication_date":"1965-08-01"`)
	assert.Contains(t, string(body.Data), `"price":"9.99"`)

	recorder, body = do(t, router, http.MethodGet, "/books/isbn/9780441013593", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, string(body.Data), `"title":"Dune"`)

	recorder, body = do(t, router, http.MethodPut, "/books/1", `{"price":12.5,"genre":null}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Book updated successfully", body.Message)
	assert.Contains(t, string(body.Data), `"price":"12.5"`)
	assert.Contains(t, string(body.Data), `"genre":"Science Fiction"`)

	recorder, body = do(t, router, http.MethodDelete, "/books/1", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Book deleted successfully", body.Message)

	recorder, body = do(t, router, http.MethodGet, "/books/1", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Book not found", body.Message)
}

func TestHandler_Errors(t *testing.T) {
	router, _ := newTestRouter()

	recorder, _ := do(t, router, http.MethodPost, "/books", `{"title":"Dune","isbn":"9780441013593","author_id":1}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{"duplicate_isbn", http.MethodPost, "/books", `{"title":"Dune","isbn":"9780441013593","author_id":1}`, http.StatusConflict, "Book with this ISBN already exists"},
		{"unknown_author", http.MethodPost, "/books", `{"title":"Dune","isbn":"9780441013594","author_id":9}`, http.StatusNotFound, "Author not found"},
		{"wrong_type", http.MethodPost, "/books", `{"title":"Dune","isbn":"9780441013595","author_id":"one"}`, http.StatusBadRequest, "Validation failed"},
		{"short_isbn_param", http.MethodGet, "/books/isbn/123", "", http.StatusBadRequest, "Validation failed"},
		{"missing_isbn", http.MethodGet, "/books/isbn/0000000000", "", http.StatusNotFound, "Book not found"},
		{"invalid_id", http.MethodGet, "/books/abc", "", http.StatusBadRequest, "Validation failed"},
		{"empty_update", http.MethodPut, "/books/1", `{}`, http.StatusBadRequest, "No fields to update"},
		{"null_only_update", http.MethodPut, "/books/1", `{"title":null}`, http.StatusBadRequest, "No fields to update"},
		{"missing_update", http.MethodPut, "/books/9", `{"title":"New"}`, http.StatusNotFound, "Book not found"},
		{"missing_stock", http.MethodPatch, "/books/9/stock", `{"stock_quantity":1}`, http.StatusNotFound, "Book not found"},
		{"missing_delete", http.MethodDelete, "/books/9", "", http.StatusNotFound, "Book not found"},
		{"bad_threshold", http.MethodGet, "/books/low-stock?threshold=-2", "", http.StatusBadRequest, "Validation failed"},
		{"bad_author_filter", http.MethodGet, "/books?author_id=x", "", http.StatusBadRequest, "Validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, recorder.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestHandler_ListAndLowStock(t *testing.T) {
	router, _ := newTestRouter()

	payloads := []string{
		`{"title":"Dune","isbn":"9780000000030","author_id":1,"genre":"Science Fiction","stock_quantity":8}`,
		`{"title":"Emma","isbn":"9780000000031","author_id":1,"genre":"Romance","stock_quantity":1}`,
		`{"title":"Solaris","isbn":"9780000000032","author_id":1,"genre":"Science Fiction","stock_quantity":4}`,
	}
	for _, payload := range payloads {
		recorder, _ := do(t, router, http.MethodPost, "/books", payload)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	recorder, body := do(t, router, http.MethodGet, "/books?limit=1", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{"limit": float64(1), "offset": float64(0), "total": float64(3)}, body.Meta)

	recorder, body = do(t, router, http.MethodGet, "/books?genre=science%20fiction", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var books []Book
	require.NoError(t, json.Unmarshal(body.Data, &books))
	require.Len(t, books, 2)
	assert.Equal(t, "Solaris", books[0].Title)
	assert.Equal(t, float64(2), body.Meta["total"])

	recorder, body = do(t, router, http.MethodGet, "/books/low-stock", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(body.Data, &books))
	require.Len(t, books, 2)
	assert.Equal(t, "Emma", books[0].Title)
	assert.Equal(t, "Solaris", books[1].Title)
	assert.Equal(t, map[string]any{"threshold": float64(5), "total": float64(2)}, body.Meta)

	recorder, body = do(t, router, http.MethodGet, "/books/low-stock?threshold=0", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, string(body.Data))
	assert.Equal(t, float64(0), body.Meta["threshold"])
}

func TestHandler_BodyFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"price_not_numeric", `{"title":"Dune","isbn":"9780441013593","author_id":1,"price":"abc"}`, FieldPrice, "Must be a decimal number"},
		{"price_boolean", `{"title":"Dune","isbn":"9780441013593","author_id":1,"price":true}`, FieldPrice, "Must be a decimal number"},
		{"author_id_string", `{"title":"Dune","isbn":"9780441013593","author_id":"one"}`, FieldAuthorID, "Must be an integer"},
		{"pages_fraction", `{"title":"Dune","isbn":"9780441013593","author_id":1,"pages":1.5}`, FieldPages, "Must be an integer"},
		{"title_number", `{"title":7,"isbn":"9780441013593","author_id":1}`, FieldTitle, "Must be a string"},
		{"unknown_key", `{"title":"Dune","isbn":"9780441013593","author_id":1,"rating":5}`, "rating", "Unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newTestRouter()

			recorder, body := do(t, router, http.MethodPost, "/books", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, "Validation failed", body.Message)
			require.Len(t, body.Errors, 1)

			var detail struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(body.Errors[0], &detail))
			assert.Equal(t, tt.field, detail.Field)
			assert.Equal(t, tt.message, detail.Message)
			assert.Empty(t, repo.books)
		})
	}
}

func TestHandler_RejectsTrailingData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"second_object", `{"title":"Dune","isbn":"9780441013593","author_id":1}{"title":"Emma"}`},
		{"stray_token", `{"title":"Dune","isbn":"9780441013593","author_id":1} 42`},
		{"unbalanced_brace", `{"title":"Dune","isbn":"9780441013593","author_id":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newTestRouter()

			recorder, body := do(t, router, http.MethodPost, "/books", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, "Request body must contain a single JSON value", body.Message)
			assert.Empty(t, repo.books)
		})
	}

	t.Run("trailing_whitespace_allowed", func(t *testing.T) {
		router, _ := newTestRouter()

		recorder, _ := do(t, router, http.MethodPost, "/books", "{\"title\":\"Dune\",\"isbn\":\"9780441013593\",\"author_id\":1}\n\t ")
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})
}
