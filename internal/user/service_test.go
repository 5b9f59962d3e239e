package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func (m *mockRepo) ListByRole(ctx context.Context, role Role) ([]User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepo) AddOrder(ctx context.Context, userID int64, amount float64) (Order, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(Order), args.Error(1)
}

func (m *mockRepo) RemoveOrder(ctx context.Context, userID, orderID int64) error {
	args := m.Called(ctx, userID, orderID)
	return args.Error(0)
}

func (m *mockRepo) WithMoreThanNOrders(ctx context.Context, n int) ([]User, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *mockRepo) WithNoOrders(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *mockRepo) TotalOrderAmountPerUser(ctx context.Context) ([]OrderTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OrderTotal), args.Error(1)
}

func TestService_Create(t *testing.T) {
	t.Run("starts with an empty order collection", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, zap.NewNop())

		repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*User).ID = 1
			}).
			Return(nil)

		u, err := svc.Create(context.Background(), "alice", RoleUser)
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.Equal(t, []Order{}, u.Orders)
	})

	t.Run("duplicate username propagates", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, zap.NewNop())

		repo.On("Create", mock.Anything, mock.Anything).Return(ErrUsernameTaken)

		_, err := svc.Create(context.Background(), "alice", RoleUser)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestService_GetByID(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, zap.NewNop())

	want := User{ID: 1, Username: "alice", Role: RoleUser, Orders: []Order{{ID: 1, Amount: 60}}}
	repo.On("GetByID", mock.Anything, int64(1)).Return(want, nil)

	got, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Delete(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, zap.NewNop())
		repo.On("Delete", mock.Anything, int64(1)).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), 1))
	})

	t.Run("absent", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, zap.NewNop())
		repo.On("Delete", mock.Anything, int64(99)).Return(ErrNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), 99), ErrNotFound)
	})
}

func TestService_AddOrder(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, zap.NewNop())

	repo.On("AddOrder", mock.Anything, int64(1), 25.5).
		Return(Order{ID: 3, Amount: 25.5, UserID: 1}, nil)

	o, err := svc.AddOrder(context.Background(), 1, 25.5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), o.ID)
}

func TestService_RemoveOrder(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, zap.NewNop())

	repo.On("RemoveOrder", mock.Anything, int64(1), int64(3)).Return(nil)

	assert.NoError(t, svc.RemoveOrder(context.Background(), 1, 3))
}

func TestService_Reports(t *testing.T) {
	t.Run("more than n orders", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, zap.NewNop())

		repo.On("WithMoreThanNOrders", mock.Anything, 3).
			Return([]User{{ID: 2, Username: "bob"}}, nil)

		users, err := svc.WithMoreThanNOrders(context.Background(), 3)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Username)
	})

	t.Run("no orders", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, zap.NewNop())

		repo.On("WithNoOrders", mock.Anything).
			Return([]User{{ID: 3, Username: "carol", Orders: []Order{}}}, nil)

		users, err := svc.WithNoOrders(context.Background())
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Empty(t, users[0].Orders)
	})

	t.Run("total amount per user", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, zap.NewNop())

		repo.On("TotalOrderAmountPerUser", mock.Anything).
			Return([]OrderTotal{{Username: "alice", TotalAmount: 100}}, nil)

		totals, err := svc.TotalOrderAmountPerUser(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []OrderTotal{{Username: "alice", TotalAmount: 100}}, totals)
	})

	t.Run("store failure propagates unchanged", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, zap.NewNop())

		storeErr := errors.New("connection reset")
		repo.On("WithNoOrders", mock.Anything).Return(nil, storeErr)

		_, err := svc.WithNoOrders(context.Background())
		assert.ErrorIs(t, err, storeErr)
	})
}
