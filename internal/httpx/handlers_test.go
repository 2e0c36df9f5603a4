package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/httpx"
	"storefront/internal/httpx/views"
	"storefront/internal/orders"
	"storefront/internal/stores"
)

const testSID = "sid-1"

type memFlash struct{ msgs map[string][]httpx.Flash }

func newMemFlash() *memFlash { return &memFlash{msgs: map[string][]httpx.Flash{}} }

func (m *memFlash) Push(ctx context.Context, sid string, f httpx.Flash) {
	m.msgs[sid] = append(m.msgs[sid], f)
}

func (m *memFlash) Pop(ctx context.Context, sid string) []httpx.Flash {
	out := m.msgs[sid]
	delete(m.msgs, sid)
	return out
}

type fakeSessions struct{ p auth.Principal }

func (f fakeSessions) Begin(ctx context.Context, customerID string) (string, error) {
	return testSID, nil
}
func (f fakeSessions) End(ctx context.Context, sid string) error { return nil }
func (f fakeSessions) Resolve(ctx context.Context, sid string) (auth.Principal, error) {
	return f.p, nil
}

type fakeAuth struct{}

func (fakeAuth) Authenticate(ctx context.Context, email, password string) (*auth.Customer, error) {
	return nil, auth.ErrBadCredentials
}

type fakeCarts struct {
	snap    cart.Snapshot
	cleared bool
}

func (f *fakeCarts) Snapshot(ctx context.Context, customerID string) (cart.Snapshot, error) {
	return f.snap, nil
}
func (f *fakeCarts) Count(ctx context.Context, customerID string) (int, error) {
	return f.snap.Units(), nil
}
func (f *fakeCarts) Add(ctx context.Context, customerID string, itemID int64, qty int) error {
	return nil
}
func (f *fakeCarts) Remove(ctx context.Context, customerID string, itemID int64) error {
	return nil
}
func (f *fakeCarts) Clear(ctx context.Context, customerID string) (int, error) {
	f.cleared = true
	return f.snap.Units(), nil
}

type fakeCatalog struct{}

func (fakeCatalog) Get(ctx context.Context, id int64) (catalog.Item, error) {
	if id == 1 {
		return catalog.Item{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(50), Active: true}, nil
	}
	return catalog.Item{}, catalog.ErrNotFound
}
func (fakeCatalog) ListActive(ctx context.Context) ([]catalog.Item, error) { return nil, nil }

type fakeStores struct{ list []stores.Store }

func (f fakeStores) List(ctx context.Context) ([]stores.Store, error) { return f.list, nil }
func (f fakeStores) Get(ctx context.Context, id int64) (*stores.Store, error) {
	for i := range f.list {
		if f.list[i].ID == id {
			return &f.list[i], nil
		}
	}
	return nil, stores.ErrNotFound
}
func (f fakeStores) GetByName(ctx context.Context, name string) (*stores.Store, error) {
	return &stores.Store{ID: 1, Name: name}, nil
}

type fakeOrderWriter struct{ created *orders.Order }

func (f *fakeOrderWriter) Create(ctx context.Context, o *orders.Order) error {
	f.created = o
	return nil
}

type fakeOrderReader struct{}

func (fakeOrderReader) Get(ctx context.Context, id string) (*orders.Order, error) {
	return nil, orders.ErrNotFound
}

type fakeRates struct{}

func (fakeRates) Rates(ctx context.Context, codes []string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, c := range codes {
		out[c] = decimal.NewFromInt(1)
	}
	return out, nil
}

type fakeOrderAdminRepo struct {
	order   *orders.Order
	updated bool
}

func (f *fakeOrderAdminRepo) Exists(ctx context.Context, id string) (bool, error) {
	return f.order != nil && f.order.ID == id, nil
}
func (f *fakeOrderAdminRepo) Get(ctx context.Context, id string) (*orders.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, orders.ErrNotFound
	}
	return f.order, nil
}
func (f *fakeOrderAdminRepo) List(ctx context.Context) ([]orders.Order, error) { return nil, nil }
func (f *fakeOrderAdminRepo) UpdateAdmin(ctx context.Context, id string, version int, patch orders.AdminPatch) error {
	patch.Apply(f.order)
	f.updated = true
	return nil
}

type fixture struct {
	site      *httpx.Site
	flash     *memFlash
	carts     *fakeCarts
	orderRepo *fakeOrderAdminRepo
	writer    *fakeOrderWriter
}

func newFixture(t *testing.T, p auth.Principal) *fixture {
	t.Helper()
	pages, err := views.New()
	require.NoError(t, err)

	flash := newMemFlash()
	carts := &fakeCarts{snap: cart.Snapshot{{
		CustomerID: p.CustomerID,
		ItemID:     1,
		Quantity:   2,
		Item:       catalog.Item{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(50), Active: true},
	}}}
	writer := &fakeOrderWriter{}
	orderRepo := &fakeOrderAdminRepo{order: &orders.Order{
		ID: "ord-1", State: orders.StateNew, Version: 1,
		Payment: orders.Payment{ID: "pay-1", Total: decimal.NewFromInt(100)},
	}}
	dirs := fakeStores{list: []stores.Store{
		{ID: 1, Name: "Game Hub", Address: stores.Address{City: "Haifa"}, Hours: stores.DefaultHours()},
		{ID: 2, Name: "Pixel Palace", Address: stores.Address{City: "Tel Aviv"}, Hours: stores.DefaultHours()},
	}}

	site := &httpx.Site{
		Log:      zap.NewNop(),
		Views:    pages,
		Flash:    flash,
		Sessions: fakeSessions{p: p},
		Auth:     fakeAuth{},
		Carts:    carts,
		Catalog:  fakeCatalog{},
		Stores:   dirs,
		Orders:   fakeOrderReader{},
		Checkout: &checkout.Service{
			Carts:  carts,
			Orders: writer,
			Stores: dirs,
			Rates:  fakeRates{},
			Log:    zap.NewNop(),
		},
		OrderAdmin: &orders.Admin{Repo: orderRepo, Log: zap.NewNop()},
		StoreAdmin: &stores.Admin{Repo: nil, Log: zap.NewNop()},
	}
	return &fixture{site: site, flash: flash, carts: carts, orderRepo: orderRepo, writer: writer}
}

func (f *fixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: "sf_sid", Value: testSID})

	rec := httptest.NewRecorder()
	router := httpx.NewRouter()
	f.site.Register(router)
	router.ServeHTTP(rec, req)
	return rec
}

func customer() auth.Principal {
	return auth.Principal{CustomerID: "cust-1", Name: "Dana"}
}

func TestStoresIndexFiltersByCity(t *testing.T) {
	f := newFixture(t, auth.Principal{})

	rec := f.do(http.MethodPost, "/stores", url.Values{"city": {"Tel Aviv"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Pixel Palace")
	assert.NotContains(t, body, "Game Hub")
}

func TestCheckoutPageShowsQuote(t *testing.T) {
	f := newFixture(t, customer())

	rec := f.do(http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Keyboard")
	assert.Contains(t, body, "110") // 2×50 + 10 shipping
	assert.Contains(t, body, "Please verify your items before placing the order")
}

func TestPlaceOrderCartChangedRedirectsToCart(t *testing.T) {
	f := newFixture(t, customer())

	form := url.Values{
		"item_ids":      {"1"}, // page showed one unit, cart now holds two
		"shipping_cost": {"10"},
		"street":        {"1 Main St"},
		"city":          {"Haifa"},
		"country":       {"Israel"},
	}
	rec := f.do(http.MethodPost, "/checkout", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))
	require.Len(t, f.flash.msgs[testSID], 1)
	assert.Equal(t, httpx.FlashDanger, f.flash.msgs[testSID][0].Level)
	assert.Nil(t, f.writer.created)
	assert.False(t, f.carts.cleared)
}

func TestPlaceOrderSuccessRedirectsToThanks(t *testing.T) {
	f := newFixture(t, customer())

	form := url.Values{
		"item_ids":      {"1", "1"},
		"shipping_cost": {"0"},
		"street":        {"1 Main St"},
		"city":          {"Haifa"},
		"country":       {"Israel"},
	}
	rec := f.do(http.MethodPost, "/checkout", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, f.writer.created)
	assert.Equal(t, "/orders/thanks/"+f.writer.created.ID, rec.Header().Get("Location"))
	assert.Equal(t, orders.ShippingPickup, f.writer.created.ShippingMethod)
	assert.True(t, f.carts.cleared)
}

func TestCartAddUnknownItemRejected(t *testing.T) {
	f := newFixture(t, customer())

	rec := f.do(http.MethodPost, "/cart/add", url.Values{"item_id": {"99"}, "quantity": {"1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	require.NotEmpty(t, f.flash.msgs[testSID])
	assert.Contains(t, f.flash.msgs[testSID][0].Text, "no longer available")
}

func TestAnonymousCheckoutRedirectsToLogin(t *testing.T) {
	f := newFixture(t, auth.Principal{})

	rec := f.do(http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestViewerOrderSaveRejected(t *testing.T) {
	viewer := auth.Principal{CustomerID: "v", Roles: []string{auth.RoleViewer}}
	f := newFixture(t, viewer)

	form := url.Values{
		"version":       {"1"},
		"state":         {"Shipping"},
		"shipping_cost": {"10"},
		"items_cost":    {"90"},
		"total":         {"100"},
	}
	rec := f.do(http.MethodPost, "/admin/orders/ord-1/edit", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/orders", rec.Header().Get("Location"))
	assert.False(t, f.orderRepo.updated)
	assert.Equal(t, orders.StateNew, f.orderRepo.order.State)
	require.NotEmpty(t, f.flash.msgs[testSID])
	assert.Contains(t, f.flash.msgs[testSID][0].Text, "right permissions")
}

func TestAdminOrderSave(t *testing.T) {
	admin := auth.Principal{CustomerID: "a", Roles: []string{auth.RoleAdmin}}
	f := newFixture(t, admin)

	form := url.Values{
		"version":       {"1"},
		"state":         {"Shipping"},
		"paid":          {"1"},
		"shipping_cost": {"10"},
		"items_cost":    {"90"},
		"total":         {"100"},
		"refund_amount": {"250"},
	}
	rec := f.do(http.MethodPost, "/admin/orders/ord-1/edit", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, f.orderRepo.updated)
	assert.Equal(t, orders.StateShipping, f.orderRepo.order.State)
	// refund capped at total on the way through
	assert.True(t, f.orderRepo.order.Payment.RefundAmount.Equal(decimal.NewFromInt(100)))
}

func TestOrderEditMissingOrderFlashesNotFound(t *testing.T) {
	admin := auth.Principal{CustomerID: "a", Roles: []string{auth.RoleAdmin}}
	f := newFixture(t, admin)

	rec := f.do(http.MethodGet, "/admin/orders/ghost/edit", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/orders", rec.Header().Get("Location"))
	require.NotEmpty(t, f.flash.msgs[testSID])
	assert.Contains(t, f.flash.msgs[testSID][0].Text, "no longer exists")
}
