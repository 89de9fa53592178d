package service_test

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockProductsStorage struct {
	mock.Mock
}

func (m *MockProductsStorage) StoreProduct(
	ctx context.Context, p domain.Product,
) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductsStorage) ReadProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

func (m *MockProductsStorage) ReadProduct(
	ctx context.Context, id int64,
) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductsStorage) UpdateProduct(
	ctx context.Context, id int64, u domain.ProductUpdate,
) error {
	args := m.Called(ctx, id, u)
	return args.Error(0)
}

func (m *MockProductsStorage) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUsersStorage struct {
	mock.Mock
}

func (m *MockUsersStorage) StoreUser(
	ctx context.Context, u domain.User,
) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUsersStorage) ReadUser(
	ctx context.Context, username string,
) (domain.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUsersStorage) ReadUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	us, _ := args.Get(0).([]domain.User)
	return us, args.Error(1)
}

type MockImageNormalizer struct {
	mock.Mock
}

func (m *MockImageNormalizer) Normalize(raw []byte) (string, error) {
	args := m.Called(raw)
	return args.String(0), args.Error(1)
}

// plainHasher keeps tests readable: the "hash" is a prefixed password.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hash, password string) bool {
	return hash == "hashed:"+password
}

type MockCatalogEvents struct {
	mock.Mock
}

func (m *MockCatalogEvents) ProduceCatalogEvent(
	ctx context.Context, evt domain.CatalogEvent,
) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
