package user

import (
	"context"
)

// Repository defines the contract for user and order storage. Delete is
// the cascade entry point; RemoveOrder is the orphan-removal one.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	Delete(ctx context.Context, id int64) error
	AddOrder(ctx context.Context, userID int64, amount float64) (Order, error)
	RemoveOrder(ctx context.Context, userID, orderID int64) error
	WithMoreThanNOrders(ctx context.Context, n int) ([]User, error)
	WithNoOrders(ctx context.Context) ([]User, error)
	TotalOrderAmountPerUser(ctx context.Context) ([]OrderTotal, error)
}
