package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/uriyahav/book-api/internal/book"
)

// BookService is the façade the handler drives.
type BookService interface {
	FindAll(ctx context.Context) ([]book.Response, error)
	FindPage(ctx context.Context, q book.PageQuery) (book.Page, error)
	FindByID(ctx context.Context, id int64) (book.Response, error)
	Create(ctx context.Context, req *book.Request) (book.Response, error)
	Update(ctx context.Context, id int64, req *book.Request) (book.Response, error)
	Delete(ctx context.Context, id int64) error
}

type BookHandler struct {
	svc       BookService
	validator *book.Validator
	log       *zap.Logger
}

func NewBookHandler(svc BookService, v *book.Validator, log *zap.Logger) *BookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookHandler{svc: svc, validator: v, log: log}
}

// List handles GET /books. When the caller supplies no paging parameter
// at all, the endpoint keeps its legacy behavior and returns the flat,
// unpaginated list; any explicit page/size/sortBy/sortDir selects the
// paginated envelope. The two paths are distinct entry points on the
// façade, chosen here by parameter presence.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("page") && !query.Has("size") && !query.Has("sortBy") && !query.Has("sortDir") {
		books, err := h.svc.FindAll(r.Context())
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		if books == nil {
			books = []book.Response{}
		}
		writeJSON(w, http.StatusOK, books)
		return
	}

	q := book.PageQuery{
		Page:    book.DefaultPage,
		Size:    book.DefaultSize,
		SortBy:  book.DefaultSortBy,
		SortDir: book.SortAsc,
	}
	if v := query.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "Bad Request", "page must be a non-negative integer")
			return
		}
		q.Page = n
	}
	if v := query.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, "Bad Request", "size must be a positive integer")
			return
		}
		q.Size = n
	}
	if v := query.Get("sortBy"); v != "" {
		q.SortBy = v
	}
	if v := query.Get("sortDir"); v != "" {
		q.SortDir = v
	}

	page, err := h.svc.FindPage(r.Context(), q)
	if err != nil {
		if errors.Is(err, book.ErrInvalidSortKey) || errors.Is(err, book.ErrInvalidSortDir) {
			writeError(w, r, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resp, err := h.svc.FindByID(r.Context(), id)
	if err != nil {
		h.bookError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req book.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if fieldErrors := h.validator.Check(&req); len(fieldErrors) > 0 {
		writeValidationError(w, r, fieldErrors)
		return
	}
	resp, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Update handles PUT /books/{id}.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req book.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if fieldErrors := h.validator.Check(&req); len(fieldErrors) > 0 {
		writeValidationError(w, r, fieldErrors)
		return
	}
	resp, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		h.bookError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /books/{id}. Role enforcement sits in front of
// this handler; once invoked it deletes unconditionally.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.bookError(w, r, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookHandler) bookError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	if errors.Is(err, book.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "Not Found", fmt.Sprintf("Book not found with id: %d", id))
		return
	}
	h.serverError(w, r, err)
}

func (h *BookHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("unhandled error",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r)),
		zap.Error(err),
	)
	writeError(w, r, http.StatusInternalServerError, "Internal Server Error", "An internal error occurred")
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "invalid "+name)
		return 0, false
	}
	return id, true
}
