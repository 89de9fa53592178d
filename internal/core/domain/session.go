package domain

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// A CartItem is a copy of the product display fields taken when the item
// was added. Later catalog edits do not reach it.
type CartItem struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Image     string
}

func NewCartItem(p Product) CartItem {
	return CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
	}
}

type CartView struct {
	Items []CartItem
	Total decimal.Decimal
}

// A Receipt confirms a checkout. Nothing of it is persisted.
type Receipt struct {
	Username  string
	Items     []CartItem
	Total     decimal.Decimal
	CreatedAt time.Time
}

type Identity struct {
	LoggedIn bool
	Username string
	IsAdmin  bool
}

// A Session is the per-visitor state: identity and cart.
//
// It is safe for concurrent use and must not be copied.
type Session struct {
	mu       sync.Mutex
	identity Identity
	cart     []CartItem
}

func NewSession() *Session {
	return &Session{cart: []CartItem{}}
}

func (s *Session) Identity() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Session) SignIn(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = Identity{
		LoggedIn: true,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}

// SignOut clears the identity. The cart survives.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = Identity{}
}

func (s *Session) AddItem(item CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = append(s.cart, item)
}

// Cart returns a copy of the cart with its total.
func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartView()
}

// TakeCart empties the cart and returns what it held.
func (s *Session) TakeCart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.cartView()
	s.cart = []CartItem{}
	return v
}

func (s *Session) cartView() CartView {
	items := make([]CartItem, len(s.cart))
	copy(items, s.cart)

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return CartView{Items: items, Total: total}
}
