package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/orders"
	"storefront/internal/stores"
)

var adminStates = []orders.State{
	orders.StateNew, orders.StatePacking, orders.StateShipping,
	orders.StateFulfilled, orders.StateCancelled,
}

func (s *Site) adminOrders(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	list, err := s.OrderAdmin.List(ctx, p)
	if errors.Is(err, orders.ErrPermission) {
		s.redirectFlash(w, r, sid, FlashDanger, "You do not have permission to view orders", "/")
		return
	}
	if err != nil {
		s.Log.Error("orders could not be listed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "admin_orders", sid, p, struct{ Orders []orders.Order }{list})
}

func (s *Site) orderEditForm(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	o, err := s.OrderAdmin.EditView(ctx, p, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, orders.ErrNotFound):
		s.redirectFlash(w, r, sid, FlashDanger,
			"You cannot edit an order that no longer exists", "/admin/orders")
		return
	case errors.Is(err, orders.ErrPermission):
		s.redirectFlash(w, r, sid, FlashDanger, "You do not have permission to view orders", "/")
		return
	case err != nil:
		s.Log.Error("order could not be loaded", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "order_edit", sid, p, struct {
		Order  *orders.Order
		States []orders.State
	}{o, adminStates})
}

func (s *Site) orderEditSave(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)
	id := chi.URLParam(r, "id")

	version, err := strconv.Atoi(r.FormValue("version"))
	if err != nil {
		s.redirectFlash(w, r, sid, FlashDanger, "Form is not valid", "/admin/orders")
		return
	}
	patch, err := parseAdminPatch(r)
	if err != nil {
		s.redirectFlash(w, r, sid, FlashDanger, "Form is not valid", "/admin/orders")
		return
	}

	err = s.OrderAdmin.Save(ctx, p, id, version, patch)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		s.redirectFlash(w, r, sid, FlashDanger,
			"You cannot edit an order that no longer exists", "/admin/orders")
	case errors.Is(err, orders.ErrPermission):
		s.redirectFlash(w, r, sid, FlashDanger,
			"Your changes were not saved. You do not have the right permissions to edit orders.", "/admin/orders")
	case errors.Is(err, orders.ErrStale):
		s.redirectFlash(w, r, sid, FlashDanger,
			"The order was changed by someone else. Please review and try again.",
			fmt.Sprintf("/admin/orders/%s/edit", id))
	case errors.Is(err, orders.ErrInvalidState):
		s.redirectFlash(w, r, sid, FlashDanger, "Unknown order state", fmt.Sprintf("/admin/orders/%s/edit", id))
	case err != nil:
		s.redirectFlash(w, r, sid, FlashDanger, "Order could not be updated", "/admin/orders")
	default:
		s.redirectFlash(w, r, sid, FlashSuccess, "Order has been updated", "/admin/orders")
	}
}

func parseAdminPatch(r *http.Request) (orders.AdminPatch, error) {
	shipping, err := decimal.NewFromString(r.FormValue("shipping_cost"))
	if err != nil {
		return orders.AdminPatch{}, err
	}
	items, err := decimal.NewFromString(r.FormValue("items_cost"))
	if err != nil {
		return orders.AdminPatch{}, err
	}
	total, err := decimal.NewFromString(r.FormValue("total"))
	if err != nil {
		return orders.AdminPatch{}, err
	}
	refund := decimal.Zero
	if v := r.FormValue("refund_amount"); v != "" {
		refund, err = decimal.NewFromString(v)
		if err != nil {
			return orders.AdminPatch{}, err
		}
	}
	return orders.AdminPatch{
		Paid:         r.FormValue("paid") == "1",
		Method:       orders.PaymentCreditCard,
		ShippingCost: shipping,
		ItemsCost:    items,
		Total:        total,
		Notes:        r.FormValue("notes"),
		RefundAmount: refund,
		State:        orders.State(r.FormValue("state")),
	}, nil
}

func (s *Site) adminStores(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	if !p.Can(auth.CapViewStores) {
		s.redirectFlash(w, r, sid, FlashDanger, "You do not have permission to manage stores", "/")
		return
	}
	list, err := s.Stores.List(ctx)
	if err != nil {
		s.Log.Error("stores could not be listed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "admin_stores", sid, p, struct{ Stores []stores.Store }{list})
}

func (s *Site) storeCreateForm(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	p := s.principal(r.Context(), sid)
	if !p.Can(auth.CapViewStores) {
		s.redirectFlash(w, r, sid, FlashDanger, "You do not have permission to manage stores", "/")
		return
	}
	st := &stores.Store{
		Active:  true,
		Hours:   stores.DefaultHours(),
		Address: stores.Address{Country: "Israel"},
	}
	s.render(w, r, "store_form", sid, p, struct{ Store *stores.Store }{st})
}

func (s *Site) storeCreate(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	st, err := parseStoreForm(r)
	if err != nil {
		s.redirectFlash(w, r, sid, FlashDanger, "Form is not valid", "/admin/stores/new")
		return
	}
	s.finishStoreSave(w, r, sid, s.StoreAdmin.Create(ctx, p, st), "/admin/stores/new")
}

func (s *Site) storeEditForm(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	st, err := s.StoreAdmin.EditView(ctx, p, id)
	switch {
	case errors.Is(err, stores.ErrNotFound):
		s.redirectFlash(w, r, sid, FlashDanger,
			"You cannot edit a store that no longer exists", "/admin/stores")
		return
	case errors.Is(err, stores.ErrPermission):
		s.redirectFlash(w, r, sid, FlashDanger, "You do not have permission to manage stores", "/")
		return
	case err != nil:
		s.Log.Error("store could not be loaded", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "store_form", sid, p, struct{ Store *stores.Store }{st})
}

func (s *Site) storeEditSave(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	st, err := parseStoreForm(r)
	if err != nil {
		s.redirectFlash(w, r, sid, FlashDanger, "Form is not valid",
			fmt.Sprintf("/admin/stores/%d/edit", id))
		return
	}
	st.ID = id
	s.finishStoreSave(w, r, sid, s.StoreAdmin.Save(ctx, p, st),
		fmt.Sprintf("/admin/stores/%d/edit", id))
}

func (s *Site) finishStoreSave(w http.ResponseWriter, r *http.Request, sid string, err error, backTo string) {
	switch {
	case errors.Is(err, stores.ErrNotFound):
		s.redirectFlash(w, r, sid, FlashDanger,
			"You cannot edit a store that no longer exists", "/admin/stores")
	case errors.Is(err, stores.ErrPermission):
		s.redirectFlash(w, r, sid, FlashDanger,
			"Your changes were not saved. You do not have the right permissions to edit stores.", "/admin/stores")
	case errors.Is(err, stores.ErrInvalidHours):
		s.redirectFlash(w, r, sid, FlashDanger,
			"Store opening hours invalid. Store cannot be closed before it was opened", backTo)
	case err != nil:
		s.redirectFlash(w, r, sid, FlashDanger, "Store could not be saved", "/admin/stores")
	default:
		s.redirectFlash(w, r, sid, FlashSuccess, "Store information has been updated", "/admin/stores")
	}
}

func (s *Site) storeDelete(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	err = s.StoreAdmin.Delete(ctx, p, id)
	switch {
	case errors.Is(err, stores.ErrNotFound):
		s.redirectFlash(w, r, sid, FlashDanger,
			"You cannot remove a store that no longer exists", "/admin/stores")
	case errors.Is(err, stores.ErrPermission):
		s.redirectFlash(w, r, sid, FlashDanger,
			"Your changes were not saved. You do not have the right permissions to delete stores.", "/admin/stores")
	case errors.Is(err, stores.ErrHasOrders):
		s.redirectFlash(w, r, sid, FlashDanger, "You cannot remove a store that contains orders", "/admin/stores")
	case err != nil:
		s.redirectFlash(w, r, sid, FlashDanger, "Store could not be deleted", "/admin/stores")
	default:
		s.redirectFlash(w, r, sid, FlashSuccess, "Store has been deleted", "/admin/stores")
	}
}

func parseStoreForm(r *http.Request) (*stores.Store, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	st := &stores.Store{
		Name: r.FormValue("name"),
		Address: stores.Address{
			Street:  r.FormValue("street"),
			City:    r.FormValue("city"),
			Country: r.FormValue("country"),
		},
		Phone:  r.FormValue("phone"),
		Email:  r.FormValue("email"),
		Active: r.FormValue("active") == "1",
	}
	if st.Name == "" {
		return nil, errors.New("store name is required")
	}
	for i := 0; i < 7; i++ {
		open, err := stores.ParseClock(r.FormValue(fmt.Sprintf("open_%d", i)))
		if err != nil {
			return nil, err
		}
		closeAt, err := stores.ParseClock(r.FormValue(fmt.Sprintf("close_%d", i)))
		if err != nil {
			return nil, err
		}
		st.Hours = append(st.Hours, stores.DayHours{Day: time.Weekday(i), Open: open, Close: closeAt})
	}
	return st, nil
}
