package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes surfaced as typed failures.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PgxPool is the subset of pgxpool.Pool the repository uses, narrowed so
// tests can substitute a mock pool. Begin is needed for the cascade
// delete transaction.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresRepo struct {
	db      PgxPool
	timeout time.Duration
}

func NewPostgresRepo(db PgxPool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO app_users (username, role)
		VALUES ($1, $2)
		RETURNING id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, u.Username, u.Role).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (User, error) {
	const query = `
		SELECT id, username, role
		FROM app_users
		WHERE id = $1
		LIMIT 1
	`
	var u User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&u.ID, &u.Username, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	users := []User{u}
	if err := r.loadOrders(ctx, users); err != nil {
		return User{}, err
	}
	return users[0], nil
}

func (r *PostgresRepo) ListByRole(ctx context.Context, role Role) ([]User, error) {
	const query = `
		SELECT id, username, role
		FROM app_users
		WHERE role = $1
		ORDER BY id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, role)
	if err != nil {
		return nil, err
	}
	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadOrders(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes the user and every order whose back-reference points at
// it, in one transaction. The orders table has no ON DELETE CASCADE; the
// ownership rule lives here.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if _, err := tx.Exec(timeoutCtx, `DELETE FROM orders WHERE user_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(timeoutCtx, `DELETE FROM app_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) AddOrder(ctx context.Context, userID int64, amount float64) (Order, error) {
	const query = `
		INSERT INTO orders (user_id, amount)
		VALUES ($1, $2)
		RETURNING id
	`
	o := Order{Amount: amount, UserID: userID}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, userID, amount).Scan(&o.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

// RemoveOrder deletes the order outright; an order taken out of its
// owner's collection does not survive as an orphan.
func (r *PostgresRepo) RemoveOrder(ctx context.Context, userID, orderID int64) error {
	const query = `DELETE FROM orders WHERE id = $1 AND user_id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, orderID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) WithMoreThanNOrders(ctx context.Context, n int) ([]User, error) {
	const query = `
		SELECT u.id, u.username, u.role
		FROM app_users u
		JOIN orders o ON o.user_id = u.id
		GROUP BY u.id, u.username, u.role
		HAVING COUNT(o.id) > $1
		ORDER BY u.id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, n)
	if err != nil {
		return nil, err
	}
	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadOrders(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepo) WithNoOrders(ctx context.Context) ([]User, error) {
	const query = `
		SELECT u.id, u.username, u.role
		FROM app_users u
		LEFT JOIN orders o ON o.user_id = u.id
		WHERE o.id IS NULL
		ORDER BY u.id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Orders = []Order{}
	}
	return users, nil
}

func (r *PostgresRepo) TotalOrderAmountPerUser(ctx context.Context) ([]OrderTotal, error) {
	const query = `
		SELECT u.username, SUM(o.amount)
		FROM app_users u
		JOIN orders o ON o.user_id = u.id
		GROUP BY u.username
		ORDER BY u.username
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderTotal
	for rows.Next() {
		var t OrderTotal
		if err := rows.Scan(&t.Username, &t.TotalAmount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, err
		}
		u.Orders = []Order{}
		out = append(out, u)
	}
	return out, rows.Err()
}

// loadOrders attaches owned orders to each user in the slice with a
// single query over the whole id set.
func (r *PostgresRepo) loadOrders(ctx context.Context, users []User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(users))
	index := make(map[int64]int, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
		index[users[i].ID] = i
	}

	const query = `
		SELECT id, amount, user_id
		FROM orders
		WHERE user_id = ANY($1)
		ORDER BY id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Amount, &o.UserID); err != nil {
			return err
		}
		if i, ok := index[o.UserID]; ok {
			users[i].Orders = append(users[i].Orders, o)
		}
	}
	return rows.Err()
}
