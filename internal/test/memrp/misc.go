package memrp

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// Notifications implements repo.Notifications.
type Notifications struct{}

func (Notifications) Conn(c repo.Conn) repo.NotificationsQueryer {
	return notifications{dbOf(c)}
}

func (Notifications) Tx(tx repo.Tx) repo.NotificationsQueryer {
	return notifications{dbOf(tx)}
}

type notifications struct{ db *DB }

func (q notifications) Create(_ context.Context, n *model.Notification) (res *model.Notification, err error) {
	err = q.db.exec("notifications.Create", func(s *Store) error {
		nn := *n
		nn.ID = s.nextID()
		nn.CreatedAt = q.db.Now()
		s.Notifications[nn.ID] = nn
		res = &nn
		return nil
	})
	return
}

func (q notifications) Unread(
	_ context.Context, r model.Role, userID int64, limit int,
) (res []model.Notification, err error) {
	aud := model.AudienceOf(r)
	err = q.db.exec("notifications.Unread", func(s *Store) error {
		for _, n := range s.Notifications {
			if n.Audience != aud && n.Audience != model.AudienceAll {
				continue
			}
			if _, read := s.Reads[[2]int64{userID, n.ID}]; read {
				continue
			}
			res = append(res, n)
		}
		return nil
	})
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return limited(res, limit), err
}

func (q notifications) MarkRead(_ context.Context, userID, nid int64, at time.Time) error {
	return q.db.exec("notifications.MarkRead", func(s *Store) error {
		if _, ok := s.Notifications[nid]; !ok {
			return cerr.NotFoundf("notification %d not found", nid)
		}
		k := [2]int64{userID, nid}
		if _, ok := s.Reads[k]; !ok {
			s.Reads[k] = at
		}
		return nil
	})
}

// Contacts implements repo.Contacts.
type Contacts struct{}

func (Contacts) Conn(c repo.Conn) repo.ContactsQueryer { return contacts{dbOf(c)} }
func (Contacts) Tx(tx repo.Tx) repo.ContactsQueryer    { return contacts{dbOf(tx)} }

type contacts struct{ db *DB }

func (q contacts) Create(_ context.Context, c *model.ContactSubmission) (res *model.ContactSubmission, err error) {
	err = q.db.exec("contacts.Create", func(s *Store) error {
		cc := *c
		cc.ID = s.nextID()
		cc.CreatedAt = q.db.Now()
		s.Contacts[cc.ID] = cc
		res = &cc
		return nil
	})
	return
}

// Reports implements repo.Reports.
type Reports struct{}

func (Reports) Conn(c repo.Conn) repo.ReportsQueryer { return reports{dbOf(c)} }
func (Reports) Tx(tx repo.Tx) repo.ReportsQueryer    { return reports{dbOf(tx)} }

type reports struct{ db *DB }

func (q reports) ServiceReport(_ context.Context, bookingID int64) (res *model.ServiceReport, err error) {
	err = q.db.exec("reports.ServiceReport", func(s *Store) error {
		b, ok := s.Bookings[bookingID]
		if !ok {
			return cerr.NotFoundf("booking %d not found", bookingID)
		}
		b = joined(s, b)
		sv := s.Services[b.ServiceID]
		res = &model.ServiceReport{
			BookingID:     b.ID,
			CustomerName:  b.CustomerName,
			CustomerEmail: b.CustomerEmail,
			CustomerPhone: b.CustomerPhone,
			ServiceDate:   b.ScheduledDate,
			ServiceName:   sv.Name,
			Description:   sv.Description,
			Price:         sv.Price,
			Status:        b.Status,
			Notes:         b.Notes,
			Vehicle:       b.Vehicle,
		}
		return nil
	})
	return
}

func (q reports) Create(_ context.Context, r *model.Report) (res *model.Report, err error) {
	err = q.db.exec("reports.Create", func(s *Store) error {
		rr := *r
		rr.ID = s.nextID()
		rr.CreatedAt = q.db.Now()
		s.Reports[rr.ID] = rr
		res = &rr
		return nil
	})
	return
}

func (q reports) SetStatus(_ context.Context, id int64, st model.ReportStatus) error {
	return q.db.exec("reports.SetStatus", func(s *Store) error {
		r, ok := s.Reports[id]
		if !ok {
			return cerr.NotFoundf("report %d not found", id)
		}
		r.Status = st
		s.Reports[id] = r
		return nil
	})
}

func (q reports) Stats(context.Context) (res []model.ReportStat, err error) {
	err = q.db.exec("reports.Stats", func(s *Store) error {
		type key struct {
			typ  model.ReportType
			date string
		}
		stats := map[key]*model.ReportStat{}
		for _, r := range s.Reports {
			k := key{r.Type, r.CreatedAt.Format(time.DateOnly)}
			st, ok := stats[k]
			if !ok {
				st = &model.ReportStat{Type: k.typ, Date: k.date}
				stats[k] = st
			}
			st.Tally(r.Status)
		}
		for _, st := range stats {
			res = append(res, *st)
		}
		return nil
	})
	sort.Slice(res, func(i, j int) bool {
		if res[i].Date != res[j].Date {
			return res[i].Date > res[j].Date
		}
		return res[i].Type < res[j].Type
	})
	return
}

// Carts is an in-memory repo.Carts. A non-nil ClearErr is returned by
// Clear, which then keeps the cart.
type Carts struct {
	ClearErr error

	mu    sync.Mutex
	carts map[string]model.Cart
}

func NewCarts() *Carts {
	return &Carts{carts: map[string]model.Cart{}}
}

func (cs *Carts) Load(_ context.Context, sid string) (model.Cart, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.carts[sid].Clone(), nil
}

func (cs *Carts) Save(_ context.Context, sid string, c model.Cart) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if c.Empty() {
		delete(cs.carts, sid)
		return nil
	}
	cs.carts[sid] = c.Clone()
	return nil
}

func (cs *Carts) Clear(_ context.Context, sid string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.ClearErr != nil {
		return cs.ClearErr
	}
	delete(cs.carts, sid)
	return nil
}

type token struct {
	userID  int64
	expires time.Time
}

// ResetTokens is an in-memory repo.ResetTokens.
type ResetTokens struct {
	mu     sync.Mutex
	tokens map[string]token

	Now func() time.Time
}

func NewResetTokens() *ResetTokens {
	return &ResetTokens{tokens: map[string]token{}, Now: time.Now}
}

func (rt *ResetTokens) Issue(_ context.Context, tok string, userID int64, ttl time.Duration) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.tokens[tok] = token{userID: userID, expires: rt.Now().Add(ttl)}
	return nil
}

func (rt *ResetTokens) Consume(_ context.Context, tok string) (int64, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	t, ok := rt.tokens[tok]
	delete(rt.tokens, tok)
	if !ok || !rt.Now().Before(t.expires) {
		return 0, cerr.NotFoundf("invalid or expired reset token")
	}
	return t.userID, nil
}

// Tokens lists the issued tokens which are not consumed yet.
func (rt *ResetTokens) Tokens() []string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	tt := make([]string, 0, len(rt.tokens))
	for t := range rt.tokens {
		tt = append(tt, t)
	}
	sort.Strings(tt)
	return tt
}
