package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/library-api/internal/platform/constants"
	requestutil "github.com/taibuivan/library-api/internal/platform/request"
	"github.com/taibuivan/library-api/internal/platform/respond"
	"github.com/taibuivan/library-api/internal/platform/validate"
	"github.com/taibuivan/library-api/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// LowStockMeta is the meta block of GET /books/low-stock.
type LowStockMeta struct {
	Threshold int `json:"threshold"`
	Total     int `json:"total"`
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Literal segments first
	router.Get("/low-stock", handler.getLowStock)
	router.Get("/isbn/{isbn}", handler.getBookByISBN)

	router.Get("/", handler.listBooks)
	router.Post("/", handler.createBook)

	router.Get("/{id}", handler.getBook)
	router.Put("/{id}", handler.updateBook)
	router.Patch("/{id}/stock", handler.updateStock)
	router.Delete("/{id}", handler.deleteBook)
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	authorID, _, err := validate.OptionalPositive(FieldAuthorID, requestutil.Query(request, FieldAuthorID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Search:   requestutil.Query(request, "search"),
		Genre:    requestutil.Query(request, FieldGenre),
		AuthorID: authorID,
	}

	books, total, err := handler.service.ListBooks(request.Context(), filter, paginationParams.Limit, paginationParams.Offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, books, pagination.NewMeta(paginationParams, total))
}

func (handler *Handler) getLowStock(writer http.ResponseWriter, request *http.Request) {
	threshold, err := validate.NonNegative(FieldThreshold, requestutil.Query(request, FieldThreshold), constants.DefaultLowStockThreshold)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	books, err := handler.service.LowStock(request.Context(), threshold)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, books, LowStockMeta{Threshold: threshold, Total: len(books)})
}

func (handler *Handler) getBookByISBN(writer http.ResponseWriter, request *http.Request) {
	isbn, err := validate.ISBN(FieldISBN, requestutil.Param(request, "isbn"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBookByISBN(request.Context(), isbn)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "", book)
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := validate.ID("id", requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "", book)
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.CreateBook(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, "Book created successfully", book)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := validate.ID("id", requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.UpdateBook(request.Context(), bookID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Book updated successfully", book)
}

func (handler *Handler) updateStock(writer http.ResponseWriter, request *http.Request) {
	bookID, err := validate.ID("id", requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input StockInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.UpdateStock(request.Context(), bookID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "Book stock updated successfully", book)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := validate.ID("id", requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "Book deleted successfully")
}
