package stores

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"storefront/internal/auth"
)

var ErrPermission = errors.New("you do not have the right permissions to edit stores")

type AdminRepo interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Get(ctx context.Context, id int64) (*Store, error)
	Create(ctx context.Context, s *Store) error
	Update(ctx context.Context, s *Store) error
	Delete(ctx context.Context, id int64) error
}

// Admin guards store mutations: existence before authorization, viewing
// capability for the forms, the edit capability for every commit.
type Admin struct {
	Repo AdminRepo
	Log  *zap.Logger
}

func (a *Admin) EditView(ctx context.Context, p auth.Principal, id int64) (*Store, error) {
	ok, err := a.Repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	if !p.Can(auth.CapViewStores) {
		return nil, ErrPermission
	}
	return a.Repo.Get(ctx, id)
}

func (a *Admin) Create(ctx context.Context, p auth.Principal, s *Store) error {
	if !p.Can(auth.CapEditStores) {
		return ErrPermission
	}
	if err := ValidateHours(s.Hours); err != nil {
		return err
	}
	if err := a.Repo.Create(ctx, s); err != nil {
		a.Log.Error("store could not be created", zap.String("name", s.Name), zap.Error(err))
		return err
	}
	return nil
}

func (a *Admin) Save(ctx context.Context, p auth.Principal, s *Store) error {
	ok, err := a.Repo.Exists(ctx, s.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if !p.Can(auth.CapEditStores) {
		return ErrPermission
	}
	if err := ValidateHours(s.Hours); err != nil {
		return err
	}
	if err := a.Repo.Update(ctx, s); err != nil {
		a.Log.Error("store could not be updated", zap.Int64("store_id", s.ID), zap.Error(err))
		return err
	}
	return nil
}

func (a *Admin) Delete(ctx context.Context, p auth.Principal, id int64) error {
	ok, err := a.Repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if !p.Can(auth.CapEditStores) {
		return ErrPermission
	}
	if err := a.Repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrHasOrders) && !errors.Is(err, ErrNotFound) {
			a.Log.Error("store could not be deleted", zap.Int64("store_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}
