package user

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a user or one of its orders does not
	// exist.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the store rejects a duplicate
	// username. Only detectable at write time, so it is distinct from
	// request validation.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidRole is returned for a role outside the enumeration.
	ErrInvalidRole = errors.New("invalid role")
)

// Role enumerates user roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps wire input onto the role enumeration.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(s) {
	case string(RoleUser):
		return RoleUser, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// User owns its orders as a composition: deleting a user deletes every
// order it owns, and removing an order from the collection deletes that
// order even though the user remains.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Role     Role    `json:"role"`
	Orders   []Order `json:"orders"`
}

// Order belongs to exactly one user and cannot exist without one.
type Order struct {
	ID     int64   `json:"id"`
	Amount float64 `json:"amount"`
	UserID int64   `json:"-"`
}

// OrderTotal pairs a username with the sum of that user's order amounts.
// Users with no orders never appear in these pairs.
type OrderTotal struct {
	Username    string  `json:"username"`
	TotalAmount float64 `json:"totalAmount"`
}
