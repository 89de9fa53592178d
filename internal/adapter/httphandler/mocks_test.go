package httphandler_test

import (
	"context"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) AddProduct(
	ctx context.Context, np domain.NewProduct,
) (int64, error) {
	args := m.Called(ctx, np)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalog) ListProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

func (m *MockCatalog) GetProduct(
	ctx context.Context, id int64,
) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) UpdateProduct(
	ctx context.Context, id int64, p domain.ProductPatch,
) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockCatalog) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) Register(
	ctx context.Context, username, password string,
) (int64, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccounts) Authenticate(
	ctx context.Context, username, password string,
) (domain.User, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockShopping struct {
	mock.Mock
}

func (m *MockShopping) Login(
	ctx context.Context, s *domain.Session, username, password string,
) error {
	args := m.Called(ctx, s, username, password)
	return args.Error(0)
}

func (m *MockShopping) Logout(s *domain.Session) {
	m.Called(s)
}

func (m *MockShopping) AddToCart(
	ctx context.Context, s *domain.Session, productID int64,
) error {
	args := m.Called(ctx, s, productID)
	return args.Error(0)
}

func (m *MockShopping) ViewCart(s *domain.Session) domain.CartView {
	args := m.Called(s)
	return args.Get(0).(domain.CartView)
}

func (m *MockShopping) Checkout(
	ctx context.Context, s *domain.Session,
) (domain.Receipt, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Receipt), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fixedSession serves the same session to every request.
type fixedSession struct {
	s *domain.Session
}

func (f fixedSession) Load(http.ResponseWriter, *http.Request) (*domain.Session, error) {
	return f.s, nil
}
