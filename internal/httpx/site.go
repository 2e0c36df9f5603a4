package httpx

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/httpx/views"
	"storefront/internal/orders"
	"storefront/internal/stores"
)

const sessionCookie = "sf_sid"

type CartRepo interface {
	Snapshot(ctx context.Context, customerID string) (cart.Snapshot, error)
	Count(ctx context.Context, customerID string) (int, error)
	Add(ctx context.Context, customerID string, itemID int64, qty int) error
	Remove(ctx context.Context, customerID string, itemID int64) error
}

type CatalogRepo interface {
	Get(ctx context.Context, id int64) (catalog.Item, error)
	ListActive(ctx context.Context) ([]catalog.Item, error)
}

type StoreDirectory interface {
	List(ctx context.Context) ([]stores.Store, error)
	Get(ctx context.Context, id int64) (*stores.Store, error)
}

type OrderReader interface {
	Get(ctx context.Context, id string) (*orders.Order, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*auth.Customer, error)
}

type SessionManager interface {
	Begin(ctx context.Context, customerID string) (string, error)
	End(ctx context.Context, sid string) error
	Resolve(ctx context.Context, sid string) (auth.Principal, error)
}

// Site wires the storefront pages to the domain services.
type Site struct {
	Log      *zap.Logger
	Views    *views.Views
	Flash    FlashStore
	Sessions SessionManager
	Auth     Authenticator

	Carts   CartRepo
	Catalog CatalogRepo
	Stores  StoreDirectory
	Orders  OrderReader

	Checkout   *checkout.Service
	OrderAdmin *orders.Admin
	StoreAdmin *stores.Admin
}

func (s *Site) Register(r *chi.Mux) {
	r.Get("/", s.home)

	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Get("/cart", s.cartPage)
	r.Post("/cart/add", s.cartAdd)
	r.Post("/cart/remove", s.cartRemove)

	r.Get("/checkout", s.checkoutPage)
	r.Post("/checkout", s.placeOrder)
	r.Get("/orders/thanks/{id}", s.thanks)
	r.Get("/orders/{id}", s.orderDetails)

	r.Get("/stores", s.storesIndex)
	r.Post("/stores", s.storesIndex)
	r.Get("/stores/{id}", s.storeDetails)

	r.Get("/admin/orders", s.adminOrders)
	r.Get("/admin/orders/{id}/edit", s.orderEditForm)
	r.Post("/admin/orders/{id}/edit", s.orderEditSave)

	r.Get("/admin/stores", s.adminStores)
	r.Get("/admin/stores/new", s.storeCreateForm)
	r.Post("/admin/stores/new", s.storeCreate)
	r.Get("/admin/stores/{id}/edit", s.storeEditForm)
	r.Post("/admin/stores/{id}/edit", s.storeEditSave)
	r.Post("/admin/stores/{id}/delete", s.storeDelete)
}

// sid returns the browser's session id, minting a cookie when absent so
// flashes work before login too.
func (s *Site) sid(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sid, Path: "/", HttpOnly: true})
	return sid
}

func (s *Site) principal(ctx context.Context, sid string) auth.Principal {
	p, err := s.Sessions.Resolve(ctx, sid)
	if err != nil {
		s.Log.Warn("session resolve failed", zap.Error(err))
		return auth.Principal{}
	}
	return p
}

// Frame is the envelope every page template receives.
type Frame struct {
	Principal auth.Principal
	CartCount int
	Flashes   []Flash
	Data      any
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, page, sid string, p auth.Principal, data any) {
	ctx := r.Context()
	count := 0
	if p.Authenticated() {
		if n, err := s.Carts.Count(ctx, p.CustomerID); err == nil {
			count = n
		}
	}
	frame := Frame{Principal: p, CartCount: count, Flashes: s.Flash.Pop(ctx, sid), Data: data}

	var buf bytes.Buffer
	if err := s.Views.Render(&buf, page, frame); err != nil {
		s.Log.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Site) redirectFlash(w http.ResponseWriter, r *http.Request, sid, level, text, to string) {
	s.Flash.Push(r.Context(), sid, Flash{Level: level, Text: text})
	http.Redirect(w, r, to, http.StatusSeeOther)
}
