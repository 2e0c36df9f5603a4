package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/stores"
)

type storeRow struct {
	stores.Store
	OpenNow bool
}

func (s *Site) storesIndex(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	list, err := s.Stores.List(ctx)
	if err != nil {
		s.Log.Error("stores could not be listed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	q := stores.Query{}
	if r.Method == http.MethodPost {
		q = stores.Query{
			Name:    r.FormValue("name"),
			City:    r.FormValue("city"),
			OpenNow: r.FormValue("open_now") == "1",
		}
	}
	now := time.Now()
	filtered := stores.Filter(list, q, now)

	rows := make([]storeRow, 0, len(filtered))
	for i := range filtered {
		rows = append(rows, storeRow{Store: filtered[i], OpenNow: filtered[i].OpenAt(now)})
	}

	s.render(w, r, "stores", sid, p, struct {
		Stores []storeRow
		Cities []string
		Query  stores.Query
	}{rows, stores.Cities(list), q})
}

func (s *Site) storeDetails(w http.ResponseWriter, r *http.Request) {
	sid := s.sid(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p := s.principal(ctx, sid)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	st, err := s.Stores.Get(ctx, id)
	if errors.Is(err, stores.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.Log.Error("store could not be loaded", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "store_detail", sid, p, struct {
		Store   *stores.Store
		OpenNow bool
	}{st, st.OpenAt(time.Now())})
}
