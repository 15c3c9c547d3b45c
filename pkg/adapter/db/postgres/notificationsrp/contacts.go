package notificationsrp

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

type ContactsRepo struct {
}

func NewContacts() *ContactsRepo {
	return &ContactsRepo{}
}

type contactQueryer[Q postgres.Queryer] struct {
	q Q
}

func (contacts *ContactsRepo) Conn(c repo.Conn) repo.ContactsQueryer {
	return contactQueryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (contacts *ContactsRepo) Tx(tx repo.Tx) repo.ContactsQueryer {
	return contactQueryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (cq contactQueryer[Q]) Create(ctx context.Context, c *model.ContactSubmission) (*model.ContactSubmission, error) {
	return CreateContact(ctx, cq.q, c)
}

type gContact struct {
	ID        int64 `gorm:"primaryKey"`
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

func (gc *gContact) TableName() string {
	return "contact_submissions"
}

func CreateContact[Q postgres.Queryer](ctx context.Context, q Q, c *model.ContactSubmission) (*model.ContactSubmission, error) {
	gc := &gContact{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Subject: c.Subject,
		Message: c.Message,
	}
	if err := q.GORM(ctx).Create(gc).Error; err != nil {
		return nil, postgres.Classify(err, "contact submission")
	}
	return &model.ContactSubmission{
		ID:        gc.ID,
		Name:      gc.Name,
		Email:     gc.Email,
		Phone:     gc.Phone,
		Subject:   gc.Subject,
		Message:   gc.Message,
		CreatedAt: gc.CreatedAt,
	}, nil
}
