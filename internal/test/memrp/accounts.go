package memrp

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// Users implements repo.Users.
type Users struct{}

func (Users) Conn(c repo.Conn) repo.UsersQueryer { return users{dbOf(c)} }
func (Users) Tx(tx repo.Tx) repo.UsersQueryer    { return users{dbOf(tx)} }

type users struct{ db *DB }

func (q users) Create(_ context.Context, u *model.User) (res *model.User, err error) {
	err = q.db.exec("users.Create", func(s *Store) error {
		for _, o := range s.Users {
			if strings.EqualFold(o.Email, u.Email) || o.Username == u.Username {
				return cerr.Conflict(errors.New("username or email already exists"))
			}
		}
		uu := *u
		uu.ID = s.nextID()
		uu.CreatedAt = q.db.Now()
		s.Users[uu.ID] = uu
		res = &uu
		return nil
	})
	return
}

func (q users) ByID(_ context.Context, id int64) (res *model.User, err error) {
	err = q.db.exec("users.ByID", func(s *Store) error {
		u, ok := s.Users[id]
		if !ok {
			return cerr.NotFoundf("user %d not found", id)
		}
		res = &u
		return nil
	})
	return
}

func (q users) ByEmail(_ context.Context, email string) (res *model.User, err error) {
	err = q.db.exec("users.ByEmail", func(s *Store) error {
		for _, u := range s.Users {
			if strings.EqualFold(u.Email, email) {
				res = &u
				return nil
			}
		}
		return cerr.NotFoundf("user not found")
	})
	return
}

func (q users) UsernameTaken(_ context.Context, username string) (taken bool, err error) {
	err = q.db.exec("users.UsernameTaken", func(s *Store) error {
		for _, u := range s.Users {
			if u.Username == username {
				taken = true
			}
		}
		return nil
	})
	return
}

func (q users) update(stmt string, id int64, f func(u *model.User)) error {
	return q.db.exec(stmt, func(s *Store) error {
		u, ok := s.Users[id]
		if !ok {
			return cerr.NotFoundf("user %d not found", id)
		}
		f(&u)
		s.Users[id] = u
		return nil
	})
}

func (q users) TouchLogin(_ context.Context, id int64, at time.Time) error {
	return q.update("users.TouchLogin", id, func(u *model.User) {
		u.LastLogin = &at
	})
}

func (q users) SetPassword(_ context.Context, id int64, hash string) error {
	return q.update("users.SetPassword", id, func(u *model.User) {
		u.PasswordHash = hash
	})
}

func (q users) List(ctx context.Context) ([]model.User, error) {
	return q.list("users.List", func(model.User) bool { return true })
}

func (q users) ListByRole(_ context.Context, r model.Role, activeOnly bool) ([]model.User, error) {
	return q.list("users.ListByRole", func(u model.User) bool {
		return u.Role == r && (u.Active || !activeOnly)
	})
}

func (q users) list(stmt string, keep func(model.User) bool) (res []model.User, err error) {
	err = q.db.exec(stmt, func(s *Store) error {
		for _, u := range s.Users {
			if keep(u) {
				res = append(res, u)
			}
		}
		return nil
	})
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return
}

func (q users) UpdateAccess(_ context.Context, id int64, r model.Role, active bool) (res *model.User, err error) {
	err = q.update("users.UpdateAccess", id, func(u *model.User) {
		u.Role, u.Active = r, active
		uu := *u
		res = &uu
	})
	return
}

func (q users) Counts(context.Context) (res *model.UserCounts, err error) {
	res = &model.UserCounts{}
	err = q.db.exec("users.Counts", func(s *Store) error {
		for _, u := range s.Users {
			res.Total++
			switch u.Role {
			case model.RoleClient:
				res.Clients++
			case model.RoleService:
				res.Service++
			}
		}
		return nil
	})
	return
}

// Vehicles implements repo.Vehicles.
type Vehicles struct{}

func (Vehicles) Conn(c repo.Conn) repo.VehiclesQueryer { return vehicles{dbOf(c)} }
func (Vehicles) Tx(tx repo.Tx) repo.VehiclesQueryer    { return vehicles{dbOf(tx)} }

type vehicles struct{ db *DB }

func (q vehicles) Create(_ context.Context, v *model.Vehicle) (res *model.Vehicle, err error) {
	err = q.db.exec("vehicles.Create", func(s *Store) error {
		for _, o := range s.Vehicles {
			if o.OwnerID == v.OwnerID && o.RegistrationNo == v.RegistrationNo {
				return cerr.Conflict(model.ErrDuplicateVehicle)
			}
		}
		vv := *v
		vv.ID = s.nextID()
		vv.CreatedAt = q.db.Now()
		s.Vehicles[vv.ID] = vv
		res = &vv
		return nil
	})
	return
}

func (q vehicles) ListByOwner(_ context.Context, ownerID int64) (res []model.Vehicle, err error) {
	err = q.db.exec("vehicles.ListByOwner", func(s *Store) error {
		for _, v := range s.Vehicles {
			if v.OwnerID == ownerID {
				res = append(res, v)
			}
		}
		return nil
	})
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return
}

func (q vehicles) ByIDForOwner(_ context.Context, id, ownerID int64) (res *model.Vehicle, err error) {
	err = q.db.exec("vehicles.ByIDForOwner", func(s *Store) error {
		v, ok := s.Vehicles[id]
		if !ok || v.OwnerID != ownerID {
			return cerr.NotFoundf("vehicle %d not found", id)
		}
		res = &v
		return nil
	})
	return
}
