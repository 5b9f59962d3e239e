package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/uriyahav/book-api/internal/user"
)

// Users with strictly more orders than this threshold appear in the
// more-than-N report.
const moreThanOrdersThreshold = 3

// UserService drives the user/order aggregate and its reports.
type UserService interface {
	Create(ctx context.Context, username string, role user.Role) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	ListByRole(ctx context.Context, role user.Role) ([]user.User, error)
	Delete(ctx context.Context, id int64) error
	AddOrder(ctx context.Context, userID int64, amount float64) (user.Order, error)
	RemoveOrder(ctx context.Context, userID, orderID int64) error
	WithMoreThanNOrders(ctx context.Context, n int) ([]user.User, error)
	WithNoOrders(ctx context.Context) ([]user.User, error)
	TotalOrderAmountPerUser(ctx context.Context) ([]user.OrderTotal, error)
}

type UserHandler struct {
	svc UserService
	log *zap.Logger
}

func NewUserHandler(svc UserService, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{svc: svc, log: log}
}

type createUserReq struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		writeValidationError(w, r, map[string]string{"username": "Username must not be blank"})
		return
	}
	role := user.RoleUser
	if req.Role != "" {
		parsed, err := user.ParseRole(req.Role)
		if err != nil {
			writeValidationError(w, r, map[string]string{"role": "Role must be USER or ADMIN"})
			return
		}
		role = parsed
	}

	created, err := h.svc.Create(r.Context(), req.Username, role)
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			writeError(w, r, http.StatusConflict, "Conflict", "Duplicate or invalid data (e.g., username already exists)")
			return
		}
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.userError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ListByRole handles GET /users?role=.
func (h *UserHandler) ListByRole(w http.ResponseWriter, r *http.Request) {
	roleParam := r.URL.Query().Get("role")
	if roleParam == "" {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "role query parameter is required")
		return
	}
	role, err := user.ParseRole(roleParam)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "role must be USER or ADMIN")
		return
	}
	users, err := h.svc.ListByRole(r.Context(), role)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Delete handles DELETE /users/{id}. Removing a user removes every
// order it owns.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.userError(w, r, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addOrderReq struct {
	Amount *float64 `json:"amount"`
}

// AddOrder handles POST /users/{id}/orders.
func (h *UserHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req addOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if req.Amount == nil {
		writeValidationError(w, r, map[string]string{"amount": "Amount must not be null"})
		return
	}
	o, err := h.svc.AddOrder(r.Context(), id, *req.Amount)
	if err != nil {
		h.userError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// RemoveOrder handles DELETE /users/{id}/orders/{orderID}. The order is
// deleted, not detached.
func (h *UserHandler) RemoveOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}
	if err := h.svc.RemoveOrder(r.Context(), id, orderID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Not Found",
				fmt.Sprintf("Order not found with id: %d for user: %d", orderID, id))
			return
		}
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoreThan3Orders handles GET /users/more-than-3-orders.
func (h *UserHandler) MoreThan3Orders(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.WithMoreThanNOrders(r.Context(), moreThanOrdersThreshold)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// NoOrders handles GET /users/no-orders.
func (h *UserHandler) NoOrders(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.WithNoOrders(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// TotalOrderAmount handles GET /users/total-order-amount.
func (h *UserHandler) TotalOrderAmount(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.TotalOrderAmountPerUser(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if totals == nil {
		totals = []user.OrderTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *UserHandler) userError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	if errors.Is(err, user.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "Not Found", fmt.Sprintf("User not found with id: %d", id))
		return
	}
	h.serverError(w, r, err)
}

func (h *UserHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("unhandled error",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r)),
		zap.Error(err),
	)
	writeError(w, r, http.StatusInternalServerError, "Internal Server Error", "An internal error occurred")
}
