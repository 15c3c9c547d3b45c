package usersrp

import (
	"context"
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

type VehiclesRepo struct {
}

func NewVehicles() *VehiclesRepo {
	return &VehiclesRepo{}
}

type vehicleQueryer[Q postgres.Queryer] struct {
	q Q
}

func (vehicles *VehiclesRepo) Conn(c repo.Conn) repo.VehiclesQueryer {
	return vehicleQueryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (vehicles *VehiclesRepo) Tx(tx repo.Tx) repo.VehiclesQueryer {
	return vehicleQueryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (vq vehicleQueryer[Q]) Create(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error) {
	return CreateVehicle(ctx, vq.q, v)
}

func (vq vehicleQueryer[Q]) ListByOwner(ctx context.Context, ownerID int64) ([]model.Vehicle, error) {
	return ListVehicles(ctx, vq.q, ownerID)
}

func (vq vehicleQueryer[Q]) ByIDForOwner(ctx context.Context, id, ownerID int64) (*model.Vehicle, error) {
	return VehicleForOwner(ctx, vq.q, id, ownerID)
}

type gVehicle struct {
	ID             int64 `gorm:"primaryKey"`
	UserID         int64
	RegistrationNo string
	Make           string
	Model          string
	Year           int
	Color          string
	CreatedAt      time.Time
}

func (gv *gVehicle) TableName() string {
	return "vehicles"
}

func (gv *gVehicle) model() *model.Vehicle {
	return &model.Vehicle{
		ID:             gv.ID,
		OwnerID:        gv.UserID,
		RegistrationNo: gv.RegistrationNo,
		Make:           gv.Make,
		Model:          gv.Model,
		Year:           gv.Year,
		Color:          gv.Color,
		CreatedAt:      gv.CreatedAt,
	}
}

func CreateVehicle[Q postgres.Queryer](ctx context.Context, q Q, v *model.Vehicle) (*model.Vehicle, error) {
	gv := &gVehicle{
		UserID:         v.OwnerID,
		RegistrationNo: v.RegistrationNo,
		Make:           v.Make,
		Model:          v.Model,
		Year:           v.Year,
		Color:          v.Color,
	}
	if err := q.GORM(ctx).Create(gv).Error; err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, cerr.Conflict(model.ErrDuplicateVehicle)
		}
		return nil, postgres.Classify(err, "vehicle")
	}
	return gv.model(), nil
}

func ListVehicles[Q postgres.Queryer](ctx context.Context, q Q, ownerID int64) ([]model.Vehicle, error) {
	var gg []gVehicle
	err := q.GORM(ctx).Where("user_id = ?", ownerID).Order(
		"created_at DESC, id DESC",
	).Find(&gg).Error
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	vv := make([]model.Vehicle, 0, len(gg))
	for i := range gg {
		vv = append(vv, *gg[i].model())
	}
	return vv, nil
}

func VehicleForOwner[Q postgres.Queryer](ctx context.Context, q Q, id, ownerID int64) (*model.Vehicle, error) {
	var gv gVehicle
	err := q.GORM(ctx).Where(
		"id = ? AND user_id = ?", id, ownerID,
	).Take(&gv).Error
	if err != nil {
		return nil, postgres.Classify(err, "vehicle")
	}
	return gv.model(), nil
}
