package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
)

func (s Service) Register(
	ctx context.Context, username, password string,
) (int64, error) {
	const op = "Service.Register"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.createUser(ctx, username, password, false)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Authenticate does not tell an unknown username from a wrong password.
func (s Service) Authenticate(
	ctx context.Context, username, password string,
) (domain.User, error) {
	const op = "Service.Authenticate"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.usersStorage.ReadUser(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrAuthFailure)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if !s.passwordHasher.Compare(u.Password, password) {
		return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrAuthFailure)
	}
	return u, nil
}

// CreateAdmin inserts an admin-flagged user directly, bypassing Register.
func (s Service) CreateAdmin(
	ctx context.Context, username, password string,
) (int64, error) {
	const op = "Service.CreateAdmin"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.createUser(ctx, username, password, true)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (s Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	const op = "Service.ListUsers"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	us, err := s.usersStorage.ReadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return us, nil
}

func (s Service) createUser(
	ctx context.Context, username, password string, isAdmin bool,
) (int64, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf(
			"%w: username and password are required", domain.ErrValidation,
		)
	}

	hash, err := s.passwordHasher.Hash(password)
	if err != nil {
		return 0, err
	}

	return s.usersStorage.StoreUser(ctx, domain.User{
		Username: username,
		Password: hash,
		IsAdmin:  isAdmin,
	})
}
