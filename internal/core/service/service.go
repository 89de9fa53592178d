package service

import (
	"context"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.Catalog = (*Service)(nil)
var _ port.Accounts = (*Service)(nil)
var _ port.AdminAccounts = (*Service)(nil)
var _ port.Shopping = (*Service)(nil)

type Service struct {
	productsStorage port.ProductsStorage
	usersStorage    port.UsersStorage
	imageNormalizer port.ImageNormalizer
	passwordHasher  port.PasswordHasher
	catalogEvents   port.CatalogEventsProducer
	publishTimeout  time.Duration
	now             func() time.Time
}

// DefaultPublishTimeout bounds a catalog event delivery. It stays well
// under the HTTP request timeout.
const DefaultPublishTimeout = 2 * time.Second

// New returns the storefront service. A nil catalogEvents disables event
// publishing.
func New(
	productsStorage port.ProductsStorage,
	usersStorage port.UsersStorage,
	imageNormalizer port.ImageNormalizer,
	passwordHasher port.PasswordHasher,
	catalogEvents port.CatalogEventsProducer,
) Service {
	if catalogEvents == nil {
		catalogEvents = nopCatalogEvents{}
	}
	return Service{
		productsStorage: productsStorage,
		usersStorage:    usersStorage,
		imageNormalizer: imageNormalizer,
		passwordHasher:  passwordHasher,
		catalogEvents:   catalogEvents,
		publishTimeout:  DefaultPublishTimeout,
		now:             time.Now,
	}
}

// WithPublishTimeout returns a copy of s that waits at most d for a
// catalog event delivery. Non-positive d keeps the current timeout.
func (s Service) WithPublishTimeout(d time.Duration) Service {
	if d > 0 {
		s.publishTimeout = d
	}
	return s
}

type nopCatalogEvents struct{}

func (nopCatalogEvents) ProduceCatalogEvent(
	context.Context, domain.CatalogEvent,
) error {
	return nil
}
