package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
)

// Login leaves the session untouched on failure.
func (s Service) Login(
	ctx context.Context, sess *domain.Session, username, password string,
) error {
	const op = "Service.Login"

	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sess.SignIn(u)
	slog.Info("user logged in", "op", op, "username", u.Username, "isAdmin", u.IsAdmin)
	return nil
}

func (s Service) Logout(sess *domain.Session) {
	sess.SignOut()
}

func (s Service) AddToCart(
	ctx context.Context, sess *domain.Session, productID int64,
) error {
	const op = "Service.AddToCart"

	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sess.AddItem(domain.NewCartItem(p))
	return nil
}

func (s Service) ViewCart(sess *domain.Session) domain.CartView {
	return sess.Cart()
}

func (s Service) Checkout(
	ctx context.Context, sess *domain.Session,
) (domain.Receipt, error) {
	const op = "Service.Checkout"

	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	id := sess.Identity()
	if !id.LoggedIn {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}

	cart := sess.TakeCart()
	if len(cart.Items) == 0 {
		return domain.Receipt{}, fmt.Errorf(
			"%s: %w: cart is empty", op, domain.ErrValidation,
		)
	}

	slog.Info(
		"checkout completed",
		"op", op, "username", id.Username,
		"nItems", len(cart.Items), "total", cart.Total.String(),
	)

	return domain.Receipt{
		Username:  id.Username,
		Items:     cart.Items,
		Total:     cart.Total,
		CreatedAt: s.now(),
	}, nil
}
