package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/orders"
)

func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	items, err := s.Catalog.ListActive(ctx)
	if err != nil {
		s.Log.Error("items could not be listed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "home", sid, p, struct{ Items any }{items})
}

func (s *Site) loginForm(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	p := s.principal(r.Context(), sid)
	s.render(w, r, "login", sid, p, nil)
}

func (s *Site) login(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := s.Auth.Authenticate(ctx, r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, auth.ErrBadCredentials) {
			s.Log.Error("login failed", zap.Error(err))
		}
		s.redirectFlash(w, r, sid, FlashDanger, "Unknown email or wrong password", "/login")
		return
	}

	newSID, err := s.Sessions.Begin(ctx, c.ID)
	if err != nil {
		s.Log.Error("session could not be created", zap.Error(err))
		s.redirectFlash(w, r, sid, FlashDanger, "Something went wrong, please try again", "/login")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: newSID, Path: "/", HttpOnly: true})
	s.Flash.Push(ctx, newSID, Flash{Level: FlashSuccess, Text: "Welcome back, " + c.Name})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Site) logout(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	_ = s.Sessions.End(r.Context(), sid)
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// requireCustomer resolves the principal and redirects anonymous visitors to
// the login page.
func (s *Site) requireCustomer(w http.ResponseWriter, r *http.Request, sid string) (auth.Principal, bool) {
	p := s.principal(r.Context(), sid)
	if !p.Authenticated() {
		s.redirectFlash(w, r, sid, FlashWarning, "Please log in first", "/login")
		return auth.Principal{}, false
	}
	return p, true
}

func (s *Site) cartPage(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	p, ok := s.requireCustomer(w, r, sid)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	snap, err := s.Carts.Snapshot(ctx, p.CustomerID)
	if err != nil {
		s.Log.Error("cart could not be loaded", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "cart", sid, p, struct{ Snapshot any }{snap})
}

func (s *Site) cartAdd(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	p, ok := s.requireCustomer(w, r, sid)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	itemID, err := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
	qty, qerr := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || qerr != nil || qty <= 0 {
		s.redirectFlash(w, r, sid, FlashDanger, "Invalid item or quantity", "/")
		return
	}
	item, err := s.Catalog.Get(ctx, itemID)
	if errors.Is(err, catalog.ErrNotFound) || (err == nil && !item.Active) {
		s.redirectFlash(w, r, sid, FlashDanger, "This item is no longer available", "/")
		return
	}
	if err != nil {
		s.Log.Error("item lookup failed", zap.Int64("item_id", itemID), zap.Error(err))
		s.redirectFlash(w, r, sid, FlashDanger, "Item could not be added to cart", "/")
		return
	}
	if err := s.Carts.Add(ctx, p.CustomerID, itemID, qty); err != nil {
		s.Log.Error("cart line could not be added", zap.Error(err))
		s.redirectFlash(w, r, sid, FlashDanger, "Item could not be added to cart", "/")
		return
	}
	s.redirectFlash(w, r, sid, FlashSuccess, "Item added to cart", "/cart")
}

func (s *Site) cartRemove(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	p, ok := s.requireCustomer(w, r, sid)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	itemID, err := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
	if err != nil {
		s.redirectFlash(w, r, sid, FlashDanger, "Invalid item", "/cart")
		return
	}
	if err := s.Carts.Remove(ctx, p.CustomerID, itemID); err != nil {
		s.Log.Error("cart line could not be removed", zap.Error(err))
		s.redirectFlash(w, r, sid, FlashDanger, "Item could not be removed", "/cart")
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Site) checkoutPage(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	p, ok := s.requireCustomer(w, r, sid)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, err := s.Checkout.Review(ctx, p.CustomerID)
	if err != nil {
		s.checkoutFailure(w, r, sid, err)
		return
	}
	s.Flash.Push(ctx, sid, Flash{Level: FlashWarning, Text: "Please verify your items before placing the order"})
	s.render(w, r, "checkout", sid, p, struct{ Page *checkout.Page }{page})
}

func (s *Site) placeOrder(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	p, ok := s.requireCustomer(w, r, sid)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		s.redirectFlash(w, r, sid, FlashDanger, "Form is not valid", "/cart")
		return
	}
	var renderedIDs []int64
	for _, v := range r.Form["item_ids"] {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.redirectFlash(w, r, sid, FlashDanger, "Form is not valid", "/cart")
			return
		}
		renderedIDs = append(renderedIDs, id)
	}
	shippingCost, err := decimal.NewFromString(r.FormValue("shipping_cost"))
	if err != nil {
		s.redirectFlash(w, r, sid, FlashDanger, "Please choose a shipping option", "/checkout")
		return
	}

	form := checkout.PlaceOrderForm{
		RenderedIDs:  renderedIDs,
		ShippingCost: shippingCost,
		Address: orders.Address{
			Street:     r.FormValue("street"),
			City:       r.FormValue("city"),
			PostalCode: r.FormValue("postal_code"),
			Country:    r.FormValue("country"),
		},
	}

	orderID, err := s.Checkout.PlaceOrder(ctx, p.CustomerID, middleware.GetReqID(ctx), form)
	if err != nil {
		s.checkoutFailure(w, r, sid, err)
		return
	}
	http.Redirect(w, r, "/orders/thanks/"+orderID, http.StatusSeeOther)
}

func (s *Site) checkoutFailure(w http.ResponseWriter, r *http.Request, sid string, err error) {
	switch {
	case errors.Is(err, checkout.ErrInactiveItem):
		s.redirectFlash(w, r, sid, FlashDanger, "Some items in cart are no longer available", "/cart")
	case errors.Is(err, checkout.ErrEmptyCart):
		s.redirectFlash(w, r, sid, FlashDanger,
			"Your cart no longer has items, please add items to cart before proceeding to checkout", "/cart")
	case errors.Is(err, checkout.ErrCartChanged):
		s.redirectFlash(w, r, sid, FlashDanger, "Your cart items are different from your checkout items", "/cart")
	case errors.Is(err, checkout.ErrBadShippingOption):
		s.redirectFlash(w, r, sid, FlashDanger, "Please choose a valid shipping option", "/checkout")
	default:
		s.Log.Error("checkout failed", zap.Error(err))
		s.redirectFlash(w, r, sid, FlashDanger,
			"Your order could not be placed. Please contact support for help", "/cart")
	}
}

func (s *Site) thanks(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	p := s.principal(r.Context(), sid)
	s.render(w, r, "thanks", sid, p, struct{ OrderID string }{chi.URLParam(r, "id")})
}

func (s *Site) orderDetails(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	o, err := s.Orders.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, orders.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.Log.Error("order could not be loaded", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "order", sid, p, struct{ Order *orders.Order }{o})
}
