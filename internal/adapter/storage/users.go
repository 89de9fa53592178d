package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.UsersStorage = (*UsersRepository)(nil)

type UsersRepository struct {
	sqldb sqldb
	mu    *sync.Mutex
}

func NewUsersRepository(sqldb sqldb) UsersRepository {
	return UsersRepository{sqldb, new(sync.Mutex)}
}

func (r UsersRepository) StoreUser(
	ctx context.Context, u domain.User,
) (int64, error) {
	const op = "UsersRepository.StoreUser"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO users (username, password, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id;`

	var id int64
	err := r.sqldb.QueryRowContext(
		ctx, query, u.Username, u.Password, u.IsAdmin,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, domain.ErrDuplicateUsername)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (r UsersRepository) ReadUser(
	ctx context.Context, username string,
) (domain.User, error) {
	const op = "UsersRepository.ReadUser"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, username, password, is_admin
		FROM users WHERE username = $1;`

	var u domain.User
	err := r.sqldb.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Password, &u.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (r UsersRepository) ReadUsers(ctx context.Context) ([]domain.User, error) {
	const op = "UsersRepository.ReadUsers"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, username, password, is_admin FROM users ORDER BY id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	us := []domain.User{}
	for rows.Next() {
		var u domain.User
		err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.IsAdmin)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		us = append(us, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return us, nil
}
