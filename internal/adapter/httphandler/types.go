package httphandler

import (
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	Product struct {
		ID          int64           `json:"id"`
		Name        string          `json:"name"`
		Price       decimal.Decimal `json:"price"`
		Available   bool            `json:"available"`
		Image       string          `json:"image"`
		Description string          `json:"description,omitempty"`
		Color       string          `json:"color,omitempty"`
		Size        string          `json:"size,omitempty"`
	}

	CartItem struct {
		ProductID int64           `json:"product_id"`
		Name      string          `json:"name"`
		Price     decimal.Decimal `json:"price"`
		Image     string          `json:"image"`
	}

	Cart struct {
		Items []CartItem      `json:"items"`
		Total decimal.Decimal `json:"total"`
	}

	Receipt struct {
		Username  string          `json:"username"`
		Items     []CartItem      `json:"items"`
		Total     decimal.Decimal `json:"total"`
		CreatedAt time.Time       `json:"created_at"`
	}
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Identity struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
}

type AddCartItem struct {
	ProductID int64 `json:"product_id"`
}

type Created struct {
	ID int64 `json:"id"`
}

func toProduct(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Available:   p.Available,
		Image:       p.Image,
		Description: p.Description,
		Color:       p.Color,
		Size:        p.Size,
	}
}

func toCartItems(items []domain.CartItem) []CartItem {
	res := make([]CartItem, len(items))
	for i, item := range items {
		res[i] = CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
		}
	}
	return res
}

func toCart(v domain.CartView) Cart {
	return Cart{Items: toCartItems(v.Items), Total: v.Total}
}

func toReceipt(r domain.Receipt) Receipt {
	return Receipt{
		Username:  r.Username,
		Items:     toCartItems(r.Items),
		Total:     r.Total,
		CreatedAt: r.CreatedAt,
	}
}

func toIdentity(id domain.Identity) Identity {
	return Identity{
		LoggedIn: id.LoggedIn,
		Username: id.Username,
		IsAdmin:  id.IsAdmin,
	}
}
