package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

// Inbound.

type Catalog interface {
	AddProduct(context.Context, domain.NewProduct) (int64, error)
	ListProducts(context.Context, domain.ProductFilter) ([]domain.Product, error)
	GetProduct(context.Context, int64) (domain.Product, error)
	UpdateProduct(context.Context, int64, domain.ProductPatch) error
	DeleteProduct(context.Context, int64) error
}

type Accounts interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
}

// AdminAccounts is the out-of-band capability of the admin tool. The HTTP
// API never exposes it.
type AdminAccounts interface {
	CreateAdmin(ctx context.Context, username, password string) (int64, error)
	ListUsers(context.Context) ([]domain.User, error)
}

type Shopping interface {
	Login(ctx context.Context, s *domain.Session, username, password string) error
	Logout(s *domain.Session)
	AddToCart(ctx context.Context, s *domain.Session, productID int64) error
	ViewCart(s *domain.Session) domain.CartView
	Checkout(ctx context.Context, s *domain.Session) (domain.Receipt, error)
}

// Outbound.

type ProductsStorage interface {
	StoreProduct(context.Context, domain.Product) (int64, error)
	ReadProducts(context.Context, domain.ProductFilter) ([]domain.Product, error)
	ReadProduct(context.Context, int64) (domain.Product, error)
	UpdateProduct(context.Context, int64, domain.ProductUpdate) error
	DeleteProduct(context.Context, int64) error
}

type UsersStorage interface {
	StoreUser(context.Context, domain.User) (int64, error)
	ReadUser(ctx context.Context, username string) (domain.User, error)
	ReadUsers(context.Context) ([]domain.User, error)
}

type ImageNormalizer interface {
	Normalize(raw []byte) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type CatalogEventsProducer interface {
	ProduceCatalogEvent(context.Context, domain.CatalogEvent) error
}
