package httphandler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	catalog  *MockCatalog
	accounts *MockAccounts
	shopping *MockShopping
	db       *MockPinger
	session  *domain.Session
	handler  http.Handler
}

func newTestAPI() testAPI {
	api := testAPI{
		catalog:  new(MockCatalog),
		accounts: new(MockAccounts),
		shopping: new(MockShopping),
		db:       new(MockPinger),
		session:  domain.NewSession(),
	}
	mux := http.NewServeMux()
	httphandler.Register(mux, httphandler.Services{
		Catalog:  api.catalog,
		Accounts: api.accounts,
		Shopping: api.shopping,
	}, api.db)
	api.handler = httphandler.NewHandler(mux, fixedSession{api.session})
	return api
}

func (api testAPI) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	api.handler.ServeHTTP(w, r)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func multipartRequest(
	t *testing.T, method, target string, fields map[string]string, image []byte,
) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "deel.jpg")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(method, target, &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestMediaTypes(t *testing.T) {
	api := newTestAPI()

	r := httptest.NewRequest(
		http.MethodPost, "/v1/users", strings.NewReader("username=alice"),
	)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := api.do(r)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	api.accounts.AssertNotCalled(t, "Register",
		mock.Anything, mock.Anything, mock.Anything)
}

func TestProducts(t *testing.T) {
	deel := domain.Product{
		ID:        1,
		Name:      "Deel",
		Price:     decimal.RequireFromString("150000"),
		Available: true,
		Image:     "aW1n",
	}

	t.Run("List", func(t *testing.T) {
		api := newTestAPI()
		minPrice := decimal.RequireFromString("1000")
		api.catalog.On("ListProducts", mock.Anything, mock.MatchedBy(
			func(f domain.ProductFilter) bool {
				return f.AvailableOnly && f.MinPrice != nil &&
					f.MinPrice.Equal(minPrice) && f.MaxPrice == nil
			},
		)).Return([]domain.Product{deel}, nil)

		w := api.do(httptest.NewRequest(
			http.MethodGet, "/v1/products?available=true&min_price=1000", nil,
		))
		require.Equal(t, http.StatusOK, w.Code)

		var ps []httphandler.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&ps))
		require.Len(t, ps, 1)
		assert.Equal(t, "Deel", ps[0].Name)
		assert.True(t, ps[0].Price.Equal(deel.Price))
	})

	t.Run("ListInvalidFilter", func(t *testing.T) {
		api := newTestAPI()
		w := api.do(httptest.NewRequest(
			http.MethodGet, "/v1/products?max_price=cheap", nil,
		))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		api := newTestAPI()
		api.catalog.On("GetProduct", mock.Anything, int64(7)).
			Return(domain.Product{}, domain.ErrNotFound)

		w := api.do(httptest.NewRequest(http.MethodGet, "/v1/products/7", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("AdminRoutesRequireLogin", func(t *testing.T) {
		api := newTestAPI()
		w := api.do(httptest.NewRequest(
			http.MethodDelete, "/v1/admin/products/1", nil,
		))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("AdminRoutesRequireAdmin", func(t *testing.T) {
		api := newTestAPI()
		api.session.SignIn(domain.User{Username: "alice"})

		w := api.do(httptest.NewRequest(
			http.MethodDelete, "/v1/admin/products/1", nil,
		))
		assert.Equal(t, http.StatusForbidden, w.Code)
		api.catalog.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
	})

	t.Run("Add", func(t *testing.T) {
		api := newTestAPI()
		api.session.SignIn(domain.User{Username: "root", IsAdmin: true})
		api.catalog.On("AddProduct", mock.Anything, domain.NewProduct{
			Name:      "Deel",
			Price:     decimal.RequireFromString("150000.50"),
			Available: true,
			Image:     []byte("raw"),
			Color:     "blue",
		}).Return(int64(3), nil)

		r := multipartRequest(t, http.MethodPost, "/v1/admin/products",
			map[string]string{
				"name":      "Deel",
				"price":     "150000.50",
				"available": "true",
				"color":     "blue",
			}, []byte("raw"))

		w := api.do(r)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":3}`, w.Body.String())
	})

	t.Run("AddDefaultsToAvailable", func(t *testing.T) {
		api := newTestAPI()
		api.session.SignIn(domain.User{Username: "root", IsAdmin: true})
		api.catalog.On("AddProduct", mock.Anything, mock.MatchedBy(
			func(np domain.NewProduct) bool {
				return np.Name == "Deel" && np.Available
			},
		)).Return(int64(4), nil)

		r := multipartRequest(t, http.MethodPost, "/v1/admin/products",
			map[string]string{"name": "Deel", "price": "100"}, []byte("raw"))

		w := api.do(r)
		require.Equal(t, http.StatusCreated, w.Code)
		api.catalog.AssertExpectations(t)
	})

	t.Run("AddUnavailable", func(t *testing.T) {
		api := newTestAPI()
		api.session.SignIn(domain.User{Username: "root", IsAdmin: true})
		api.catalog.On("AddProduct", mock.Anything, mock.MatchedBy(
			func(np domain.NewProduct) bool { return !np.Available },
		)).Return(int64(5), nil)

		r := multipartRequest(t, http.MethodPost, "/v1/admin/products",
			map[string]string{
				"name": "Deel", "price": "100", "available": "false",
			}, []byte("raw"))

		w := api.do(r)
		require.Equal(t, http.StatusCreated, w.Code)
		api.catalog.AssertExpectations(t)
	})

	t.Run("AddWithoutPrice", func(t *testing.T) {
		api := newTestAPI()
		api.session.SignIn(domain.User{Username: "root", IsAdmin: true})

		r := multipartRequest(t, http.MethodPost, "/v1/admin/products",
			map[string]string{"name": "Deel"}, []byte("raw"))

		w := api.do(r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "price is required")
	})

	t.Run("PatchOnlySuppliedFields", func(t *testing.T) {
		api := newTestAPI()
		api.session.SignIn(domain.User{Username: "root", IsAdmin: true})
		api.catalog.On("UpdateProduct", mock.Anything, int64(1), mock.MatchedBy(
			func(p domain.ProductPatch) bool {
				return p.Name != nil && *p.Name == "Deel" &&
					p.Price == nil && p.Available == nil &&
					p.Image == nil && p.Color == nil
			},
		)).Return(nil)
		api.catalog.On("GetProduct", mock.Anything, int64(1)).Return(deel, nil)

		r := multipartRequest(t, http.MethodPatch, "/v1/admin/products/1",
			map[string]string{"name": "Deel"}, nil)

		w := api.do(r)
		assert.Equal(t, http.StatusOK, w.Code)
		api.catalog.AssertExpectations(t)
	})

	t.Run("Delete", func(t *testing.T) {
		api := newTestAPI()
		api.session.SignIn(domain.User{Username: "root", IsAdmin: true})
		api.catalog.On("DeleteProduct", mock.Anything, int64(1)).Return(nil)

		w := api.do(httptest.NewRequest(
			http.MethodDelete, "/v1/admin/products/1", nil,
		))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestAccounts(t *testing.T) {
	t.Run("Register", func(t *testing.T) {
		api := newTestAPI()
		api.accounts.On("Register", mock.Anything, "alice", "pw").
			Return(int64(1), nil)

		w := api.do(jsonRequest(http.MethodPost, "/v1/users",
			`{"username":"alice","password":"pw"}`))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Duplicate", func(t *testing.T) {
		api := newTestAPI()
		api.accounts.On("Register", mock.Anything, "alice", "pw2").
			Return(int64(0), domain.ErrDuplicateUsername)

		w := api.do(jsonRequest(http.MethodPost, "/v1/users",
			`{"username":"alice","password":"pw2"}`))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		api := newTestAPI()
		w := api.do(jsonRequest(http.MethodPost, "/v1/users", `{`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSession(t *testing.T) {
	t.Run("LoginFailure", func(t *testing.T) {
		api := newTestAPI()
		api.shopping.On("Login", mock.Anything, api.session, "alice", "wrong").
			Return(domain.ErrAuthFailure)

		w := api.do(jsonRequest(http.MethodPost, "/v1/session/login",
			`{"username":"alice","password":"wrong"}`))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), domain.ErrAuthFailure.Error())
	})

	t.Run("Identity", func(t *testing.T) {
		api := newTestAPI()
		api.session.SignIn(domain.User{Username: "alice"})

		w := api.do(httptest.NewRequest(http.MethodGet, "/v1/session", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"logged_in":true,"username":"alice","is_admin":false}`,
			w.Body.String())
	})

	t.Run("Logout", func(t *testing.T) {
		api := newTestAPI()
		api.shopping.On("Logout", api.session).Return()

		w := api.do(httptest.NewRequest(
			http.MethodPost, "/v1/session/logout", nil,
		))
		assert.Equal(t, http.StatusNoContent, w.Code)
		api.shopping.AssertExpectations(t)
	})
}

func TestCart(t *testing.T) {
	item := domain.CartItem{
		ProductID: 1,
		Name:      "Deel",
		Price:     decimal.RequireFromString("100"),
	}

	t.Run("AddItem", func(t *testing.T) {
		api := newTestAPI()
		api.shopping.On("AddToCart", mock.Anything, api.session, int64(1)).
			Return(nil)
		api.shopping.On("ViewCart", api.session).Return(domain.CartView{
			Items: []domain.CartItem{item, item},
			Total: decimal.RequireFromString("200"),
		})

		w := api.do(jsonRequest(http.MethodPost, "/v1/cart/items",
			`{"product_id":1}`))
		require.Equal(t, http.StatusOK, w.Code)

		var cart httphandler.Cart
		require.NoError(t, json.NewDecoder(w.Body).Decode(&cart))
		assert.Len(t, cart.Items, 2)
		assert.Equal(t, "200", cart.Total.String())
	})

	t.Run("CheckoutLoggedOut", func(t *testing.T) {
		api := newTestAPI()
		api.shopping.On("Checkout", mock.Anything, api.session).
			Return(domain.Receipt{}, domain.ErrNotAuthenticated)

		w := api.do(httptest.NewRequest(
			http.MethodPost, "/v1/cart/checkout", nil,
		))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Checkout", func(t *testing.T) {
		api := newTestAPI()
		api.shopping.On("Checkout", mock.Anything, api.session).
			Return(domain.Receipt{
				Username:  "alice",
				Items:     []domain.CartItem{item},
				Total:     item.Price,
				CreatedAt: time.Now(),
			}, nil)

		w := api.do(httptest.NewRequest(
			http.MethodPost, "/v1/cart/checkout", nil,
		))
		require.Equal(t, http.StatusOK, w.Code)

		var receipt httphandler.Receipt
		require.NoError(t, json.NewDecoder(w.Body).Decode(&receipt))
		assert.Equal(t, "alice", receipt.Username)
		assert.Len(t, receipt.Items, 1)
	})
}

func TestHealth(t *testing.T) {
	api := newTestAPI()
	api.db.On("PingContext", mock.Anything).Return(nil).Once()
	api.db.On("PingContext", mock.Anything).Return(errors.New("gone")).Once()

	w := api.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInternalErrorHidden(t *testing.T) {
	api := newTestAPI()
	api.catalog.On("ListProducts", mock.Anything, mock.Anything).
		Return(nil, errors.New("disk I/O error"))

	w := api.do(httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body, _ := io.ReadAll(w.Body)
	assert.NotContains(t, string(body), "disk")
}
