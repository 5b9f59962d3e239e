package user

import (
	"context"

	"go.uber.org/zap"
)

// Service provides user/order business logic: lifecycle of the
// aggregate plus the three relationship reports.
type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// Create persists a new user with an empty order collection. Duplicate
// usernames surface as ErrUsernameTaken from the store constraint.
func (s *Service) Create(ctx context.Context, username string, role Role) (User, error) {
	u := &User{Username: username, Role: role, Orders: []Order{}}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	s.log.Info("created user", zap.String("username", u.Username), zap.Int64("id", u.ID))
	return *u, nil
}

// GetByID returns the user and its owned orders.
func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByRole returns every user holding the given role.
func (s *Service) ListByRole(ctx context.Context, role Role) ([]User, error) {
	return s.repo.ListByRole(ctx, role)
}

// Delete removes the user and, in the same transaction, every order it
// owns.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted user with owned orders", zap.Int64("id", id))
	return nil
}

// AddOrder appends a new order to the user's collection.
func (s *Service) AddOrder(ctx context.Context, userID int64, amount float64) (Order, error) {
	o, err := s.repo.AddOrder(ctx, userID, amount)
	if err != nil {
		return Order{}, err
	}
	s.log.Info("added order", zap.Int64("user_id", userID), zap.Int64("order_id", o.ID))
	return o, nil
}

// RemoveOrder takes an order out of the user's collection and deletes
// it; the user itself stays.
func (s *Service) RemoveOrder(ctx context.Context, userID, orderID int64) error {
	if err := s.repo.RemoveOrder(ctx, userID, orderID); err != nil {
		return err
	}
	s.log.Info("removed order", zap.Int64("user_id", userID), zap.Int64("order_id", orderID))
	return nil
}

// WithMoreThanNOrders returns users whose order count strictly exceeds n.
func (s *Service) WithMoreThanNOrders(ctx context.Context, n int) ([]User, error) {
	return s.repo.WithMoreThanNOrders(ctx, n)
}

// WithNoOrders returns users whose order collection is empty.
func (s *Service) WithNoOrders(ctx context.Context) ([]User, error) {
	return s.repo.WithNoOrders(ctx)
}

// TotalOrderAmountPerUser returns (username, sum) pairs for every user
// owning at least one order.
func (s *Service) TotalOrderAmountPerUser(ctx context.Context) ([]OrderTotal, error) {
	return s.repo.TotalOrderAmountPerUser(ctx)
}
