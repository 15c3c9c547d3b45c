package usersrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gUser struct {
	ID            int64 `gorm:"primaryKey"`
	Username      string
	Email         string
	PasswordHash  string
	Phone         string
	Role          string
	IsActive      bool
	EmailVerified bool
	ProfileImage  string
	LastLogin     *time.Time
	CreatedAt     time.Time
}

func (gu *gUser) TableName() string {
	return "users"
}

func (gu *gUser) Model() (*model.User, error) {
	r, err := model.ParseRole(gu.Role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", gu.ID, err)
	}
	return &model.User{
		ID:            gu.ID,
		Username:      gu.Username,
		Email:         gu.Email,
		PasswordHash:  gu.PasswordHash,
		Phone:         gu.Phone,
		Role:          r,
		Active:        gu.IsActive,
		EmailVerified: gu.EmailVerified,
		ProfileImage:  gu.ProfileImage,
		LastLogin:     gu.LastLogin,
		CreatedAt:     gu.CreatedAt,
	}, nil
}

func models(gg []gUser) ([]model.User, error) {
	uu := make([]model.User, 0, len(gg))
	for i := range gg {
		u, err := gg[i].Model()
		if err != nil {
			return nil, err
		}
		uu = append(uu, *u)
	}
	return uu, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, u *model.User) (*model.User, error) {
	if err := u.Role.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	gu := &gUser{
		Username:      u.Username,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Phone:         u.Phone,
		Role:          u.Role.String(),
		IsActive:      u.Active,
		EmailVerified: u.EmailVerified,
		ProfileImage:  u.ProfileImage,
	}
	if err := q.GORM(ctx).Create(gu).Error; err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, cerr.Conflict(
				errors.New("username or email already exists"),
			)
		}
		return nil, postgres.Classify(err, "user")
	}
	return gu.Model()
}

func ByID[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.User, error) {
	var gu gUser
	err := q.GORM(ctx).Where("id = ?", id).Take(&gu).Error
	if err != nil {
		return nil, postgres.Classify(err, "user")
	}
	return gu.Model()
}

func ByEmail[Q postgres.Queryer](ctx context.Context, q Q, email string) (*model.User, error) {
	var gu gUser
	err := q.GORM(ctx).Where("lower(email) = lower(?)", email).Take(&gu).Error
	if err != nil {
		return nil, postgres.Classify(err, "user")
	}
	return gu.Model()
}

func UsernameTaken[Q postgres.Queryer](ctx context.Context, q Q, username string) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&gUser{}).Where(
		"username = ?", username,
	).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("counting users: %w", err)
	}
	return n > 0, nil
}

func update[Q postgres.Queryer](ctx context.Context, q Q, id int64, col string, v any) error {
	res := q.GORM(ctx).Model(&gUser{}).Where("id = ?", id).Update(col, v)
	if err := res.Error; err != nil {
		return fmt.Errorf("updating %s: %w", col, err)
	}
	if res.RowsAffected != 1 {
		return cerr.NotFoundf("user %d not found", id)
	}
	return nil
}

func TouchLogin[Q postgres.Queryer](ctx context.Context, q Q, id int64, at time.Time) error {
	return update(ctx, q, id, "last_login", at)
}

func SetPassword[Q postgres.Queryer](ctx context.Context, q Q, id int64, hash string) error {
	return update(ctx, q, id, "password_hash", hash)
}

func List[Q postgres.Queryer](ctx context.Context, q Q) ([]model.User, error) {
	var gg []gUser
	err := q.GORM(ctx).Order("created_at DESC, id DESC").Find(&gg).Error
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return models(gg)
}

func ListByRole[Q postgres.Queryer](ctx context.Context, q Q, r model.Role, activeOnly bool) ([]model.User, error) {
	gdb := q.GORM(ctx).Where("role = ?", r.String())
	if activeOnly {
		gdb = gdb.Where("is_active")
	}
	var gg []gUser
	if err := gdb.Order("username").Find(&gg).Error; err != nil {
		return nil, fmt.Errorf("listing %s users: %w", r, err)
	}
	return models(gg)
}

func UpdateAccess[Q postgres.Queryer](ctx context.Context, q Q, id int64, r model.Role, active bool) (*model.User, error) {
	if err := r.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var gg []gUser
	err := q.GORM(ctx).Model(&gg).Clauses(clause.Returning{}).Where(
		"id = ?", id,
	).Updates(map[string]any{
		"role":      r.String(),
		"is_active": active,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gg); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one user, but got %d", n),
		)
	}
	return gg[0].Model()
}

func Counts[Q postgres.Queryer](ctx context.Context, q Q) (*model.UserCounts, error) {
	var c model.UserCounts
	err := q.GORM(ctx).Raw(`SELECT count(*) AS total,
	count(*) FILTER (WHERE role = 'client') AS clients,
	count(*) FILTER (WHERE role = 'service') AS service
FROM users`).Row().Scan(&c.Total, &c.Clients, &c.Service)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	return &c, nil
}
