package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
)

func (s Service) AddProduct(
	ctx context.Context, np domain.NewProduct,
) (int64, error) {
	const op = "Service.AddProduct"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := validateNewProduct(np); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	image, err := s.imageNormalizer.Normalize(np.Image)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	p := domain.Product{
		Name:        np.Name,
		Price:       np.Price,
		Available:   np.Available,
		Image:       image,
		Description: np.Description,
		Color:       np.Color,
		Size:        np.Size,
	}

	id, err := s.productsStorage.StoreProduct(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	p.ID = id

	s.publish(ctx, domain.ProductCreated, p)
	return id, nil
}

func (s Service) ListProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.productsStorage.ReadProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) GetProduct(
	ctx context.Context, id int64,
) (domain.Product, error) {
	const op = "Service.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.productsStorage.ReadProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) UpdateProduct(
	ctx context.Context, id int64, patch domain.ProductPatch,
) error {
	const op = "Service.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePatch(patch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	u := domain.ProductUpdate{
		Name:        patch.Name,
		Price:       patch.Price,
		Available:   patch.Available,
		Description: patch.Description,
		Color:       patch.Color,
		Size:        patch.Size,
	}

	if len(patch.Image) != 0 {
		image, err := s.imageNormalizer.Normalize(patch.Image)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		u.Image = &image
	}

	if err := s.productsStorage.UpdateProduct(ctx, id, u); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.productsStorage.ReadProduct(ctx, id)
	if err != nil {
		slog.Warn("failed to read updated product", "op", op, "err", err)
		return nil
	}
	s.publish(ctx, domain.ProductUpdated, p)
	return nil
}

func (s Service) DeleteProduct(ctx context.Context, id int64) error {
	const op = "Service.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.productsStorage.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, domain.ProductDeleted, domain.Product{ID: id})
	return nil
}

// publish never fails the caller, the store commit already happened.
// Delivery runs detached from the caller's cancellation and is bounded by
// the publish timeout.
func (s Service) publish(
	ctx context.Context, kind domain.CatalogEventKind, p domain.Product,
) {
	const op = "Service.publish"

	evt := domain.CatalogEvent{
		Kind:       kind,
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Available:  p.Available,
		OccurredAt: s.now(),
	}

	ctx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), s.publishTimeout,
	)
	defer cancel()

	err := s.catalogEvents.ProduceCatalogEvent(ctx, evt)
	if err != nil {
		slog.Error(
			"failed to publish catalog event",
			"op", op, "kind", kind, "productID", p.ID, "err", err,
		)
	}
}

func validateNewProduct(np domain.NewProduct) error {
	if np.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if np.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if len(np.Image) == 0 {
		return fmt.Errorf("%w: image is required", domain.ErrValidation)
	}
	return nil
}

func validatePatch(patch domain.ProductPatch) error {
	if patch.Name != nil && *patch.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return nil
}
