package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/auth"
)

type fakeStoreRepo struct {
	stores    map[int64]*Store
	ordersFor map[int64]int
	nextID    int64
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: map[int64]*Store{}, ordersFor: map[int64]int{}, nextID: 1}
}

func (f *fakeStoreRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := f.stores[id]
	return ok, nil
}

func (f *fakeStoreRepo) Get(ctx context.Context, id int64) (*Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (f *fakeStoreRepo) Create(ctx context.Context, s *Store) error {
	if err := ValidateHours(s.Hours); err != nil {
		return err
	}
	s.ID = f.nextID
	f.nextID++
	f.stores[s.ID] = s
	return nil
}

func (f *fakeStoreRepo) Update(ctx context.Context, s *Store) error {
	if _, ok := f.stores[s.ID]; !ok {
		return ErrNotFound
	}
	f.stores[s.ID] = s
	return nil
}

func (f *fakeStoreRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.stores[id]; !ok {
		return ErrNotFound
	}
	if f.ordersFor[id] > 0 {
		return ErrHasOrders
	}
	delete(f.stores, id)
	return nil
}

var (
	adminUser  = auth.Principal{CustomerID: "a", Roles: []string{auth.RoleAdmin}}
	viewerUser = auth.Principal{CustomerID: "v", Roles: []string{auth.RoleViewer}}
)

func validStore() *Store {
	return &Store{Name: "Downtown", Active: true, Hours: DefaultHours()}
}

func TestAdminCreateRejectsInvalidHours(t *testing.T) {
	repo := newFakeStoreRepo()
	a := &Admin{Repo: repo, Log: zap.NewNop()}

	s := validStore()
	s.Hours[2] = DayHours{Day: time.Tuesday, Open: NewClock(10, 0), Close: NewClock(10, 0)}
	err := a.Create(context.Background(), adminUser, s)
	assert.ErrorIs(t, err, ErrInvalidHours)
	assert.Empty(t, repo.stores)
}

func TestViewerCannotCommitStoreChanges(t *testing.T) {
	repo := newFakeStoreRepo()
	a := &Admin{Repo: repo, Log: zap.NewNop()}
	require.NoError(t, a.Create(context.Background(), adminUser, validStore()))

	s, err := a.EditView(context.Background(), viewerUser, 1)
	require.NoError(t, err)

	s.Name = "Renamed"
	err = a.Save(context.Background(), viewerUser, s)
	assert.ErrorIs(t, err, ErrPermission)

	err = a.Delete(context.Background(), viewerUser, 1)
	assert.ErrorIs(t, err, ErrPermission)
	assert.Len(t, repo.stores, 1)
}

func TestDeleteBlockedWhileOrdersReferenceStore(t *testing.T) {
	repo := newFakeStoreRepo()
	a := &Admin{Repo: repo, Log: zap.NewNop()}
	require.NoError(t, a.Create(context.Background(), adminUser, validStore()))
	repo.ordersFor[1] = 3

	err := a.Delete(context.Background(), adminUser, 1)
	assert.ErrorIs(t, err, ErrHasOrders)
	assert.Len(t, repo.stores, 1)

	repo.ordersFor[1] = 0
	require.NoError(t, a.Delete(context.Background(), adminUser, 1))
	assert.Empty(t, repo.stores)
}

func TestEditMissingStoreRejectedBeforeAuthorization(t *testing.T) {
	a := &Admin{Repo: newFakeStoreRepo(), Log: zap.NewNop()}

	_, err := a.EditView(context.Background(), auth.Principal{}, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	err = a.Delete(context.Background(), auth.Principal{}, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
