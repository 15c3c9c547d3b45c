package memrp

import (
	"context"
	"sort"
	"strings"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// Services implements repo.Services.
type Services struct{}

func (Services) Conn(c repo.Conn) repo.ServicesQueryer { return services{dbOf(c)} }
func (Services) Tx(tx repo.Tx) repo.ServicesQueryer    { return services{dbOf(tx)} }

type services struct{ db *DB }

func (q services) List(_ context.Context, f model.ServiceFilter) (res []model.Service, err error) {
	err = q.db.exec("services.List", func(s *Store) error {
		for _, sv := range s.Services {
			if sv.Active || !f.ActiveOnly {
				res = append(res, sv)
			}
		}
		return nil
	})
	sort.Slice(res, func(i, j int) bool {
		if f.FeaturedFirst && res[i].Featured != res[j].Featured {
			return res[i].Featured
		}
		return res[i].Name < res[j].Name
	})
	if f.Limit > 0 && len(res) > f.Limit {
		res = res[:f.Limit]
	}
	return
}

func (q services) ByID(_ context.Context, id int64) (res *model.Service, err error) {
	err = q.db.exec("services.ByID", func(s *Store) error {
		sv, ok := s.Services[id]
		if !ok {
			return cerr.NotFoundf("service %d not found", id)
		}
		res = &sv
		return nil
	})
	return
}

func (q services) Create(_ context.Context, sv *model.Service) (res *model.Service, err error) {
	err = q.db.exec("services.Create", func(s *Store) error {
		ss := *sv
		ss.ID = s.nextID()
		ss.CreatedAt = q.db.Now()
		s.Services[ss.ID] = ss
		res = &ss
		return nil
	})
	return
}

func (q services) Update(_ context.Context, sv *model.Service) (res *model.Service, err error) {
	err = q.db.exec("services.Update", func(s *Store) error {
		old, ok := s.Services[sv.ID]
		if !ok {
			return cerr.NotFoundf("service %d not found", sv.ID)
		}
		ss := *sv
		ss.CreatedAt = old.CreatedAt
		if ss.Image == "" {
			ss.Image = old.Image
		}
		s.Services[ss.ID] = ss
		res = &ss
		return nil
	})
	return
}

func (q services) Delete(_ context.Context, id int64) error {
	return q.db.exec("services.Delete", func(s *Store) error {
		if _, ok := s.Services[id]; !ok {
			return cerr.NotFoundf("service %d not found", id)
		}
		delete(s.Services, id)
		return nil
	})
}

// Parts implements repo.Parts.
type Parts struct{}

func (Parts) Conn(c repo.Conn) repo.PartsConnQueryer { return parts{dbOf(c)} }
func (Parts) Tx(tx repo.Tx) repo.PartsTxQueryer      { return parts{dbOf(tx)} }

type parts struct{ db *DB }

func (q parts) List(_ context.Context, f model.PartFilter) (res []model.CarPart, err error) {
	search := strings.ToLower(f.Search)
	err = q.db.exec("parts.List", func(s *Store) error {
		for _, p := range s.Parts {
			switch {
			case f.ActiveOnly && !p.Active:
			case f.Category != "" && p.Category != f.Category:
			case search != "" &&
				!strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Description), search):
			default:
				res = append(res, p)
			}
		}
		return nil
	})
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return
}

func (q parts) Categories(context.Context) (res []string, err error) {
	err = q.db.exec("parts.Categories", func(s *Store) error {
		seen := map[string]bool{}
		for _, p := range s.Parts {
			if p.Active && p.Category != "" && !seen[p.Category] {
				seen[p.Category] = true
				res = append(res, p.Category)
			}
		}
		return nil
	})
	sort.Strings(res)
	return
}

func (q parts) ByID(_ context.Context, id int64) (res *model.CarPart, err error) {
	err = q.db.exec("parts.ByID", func(s *Store) error {
		p, ok := s.Parts[id]
		if !ok {
			return cerr.NotFoundf("part %d not found", id)
		}
		res = &p
		return nil
	})
	return
}

func (q parts) ByIDs(_ context.Context, ids []int64) (res []model.CarPart, err error) {
	err = q.db.exec("parts.ByIDs", func(s *Store) error {
		for _, id := range ids {
			if p, ok := s.Parts[id]; ok {
				res = append(res, p)
			}
		}
		return nil
	})
	return
}

func (q parts) Create(_ context.Context, p *model.CarPart) (res *model.CarPart, err error) {
	err = q.db.exec("parts.Create", func(s *Store) error {
		pp := *p
		pp.ID = s.nextID()
		pp.CreatedAt = q.db.Now()
		s.Parts[pp.ID] = pp
		res = &pp
		return nil
	})
	return
}

func (q parts) Update(_ context.Context, p *model.CarPart) (res *model.CarPart, err error) {
	err = q.db.exec("parts.Update", func(s *Store) error {
		old, ok := s.Parts[p.ID]
		if !ok {
			return cerr.NotFoundf("part %d not found", p.ID)
		}
		pp := *p
		pp.CreatedAt = old.CreatedAt
		if pp.Image == "" {
			pp.Image = old.Image
		}
		s.Parts[pp.ID] = pp
		res = &pp
		return nil
	})
	return
}

func (q parts) Delete(_ context.Context, id int64) error {
	return q.db.exec("parts.Delete", func(s *Store) error {
		if _, ok := s.Parts[id]; !ok {
			return cerr.NotFoundf("part %d not found", id)
		}
		delete(s.Parts, id)
		return nil
	})
}

func (q parts) LowStock(_ context.Context, threshold int) (res []model.CarPart, err error) {
	err = q.db.exec("parts.LowStock", func(s *Store) error {
		for _, p := range s.Parts {
			if p.Active && p.Stock <= threshold {
				res = append(res, p)
			}
		}
		return nil
	})
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return
}

func (q parts) DecrementStock(_ context.Context, id int64, qty int) (ok bool, err error) {
	err = q.db.exec("parts.DecrementStock", func(s *Store) error {
		p, found := s.Parts[id]
		if !found || !p.Active || p.Stock < qty {
			return nil
		}
		p.Stock -= qty
		s.Parts[id] = p
		ok = true
		return nil
	})
	return
}
