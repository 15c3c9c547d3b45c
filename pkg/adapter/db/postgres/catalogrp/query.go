package catalogrp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gService struct {
	ID          int64 `gorm:"primaryKey"`
	Name        string
	Description string
	Price       decimal.Decimal `gorm:"type:numeric(10,2)"`
	Duration    int
	ServiceType string
	Image       string
	IsActive    bool
	IsFeatured  bool
	CreatedAt   time.Time
}

func (gs *gService) TableName() string {
	return "services"
}

func (gs *gService) Model() *model.Service {
	return &model.Service{
		ID:          gs.ID,
		Name:        gs.Name,
		Description: gs.Description,
		Price:       gs.Price,
		Duration:    gs.Duration,
		ServiceType: gs.ServiceType,
		Image:       gs.Image,
		Active:      gs.IsActive,
		Featured:    gs.IsFeatured,
		CreatedAt:   gs.CreatedAt,
	}
}

func fromService(s *model.Service) *gService {
	return &gService{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Duration:    s.Duration,
		ServiceType: s.ServiceType,
		Image:       s.Image,
		IsActive:    s.Active,
		IsFeatured:  s.Featured,
	}
}

// deleteRow deletes the id row of the table of m, reporting a missing
// row as a cerr.NotFound error.
func deleteRow[Q postgres.Queryer](ctx context.Context, q Q, m any, id int64, what string) error {
	res := q.GORM(ctx).Where("id = ?", id).Delete(m)
	if err := res.Error; err != nil {
		return postgres.Classify(err, what)
	}
	if res.RowsAffected == 0 {
		return cerr.NotFoundf("%s %d not found", what, id)
	}
	return nil
}

func ListServices[Q postgres.Queryer](ctx context.Context, q Q, f model.ServiceFilter) ([]model.Service, error) {
	gdb := q.GORM(ctx)
	if f.ActiveOnly {
		gdb = gdb.Where("is_active")
	}
	if f.FeaturedFirst {
		gdb = gdb.Order("is_featured DESC")
	}
	gdb = gdb.Order("name")
	if f.Limit > 0 {
		gdb = gdb.Limit(f.Limit)
	}
	var gg []gService
	if err := gdb.Find(&gg).Error; err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	ss := make([]model.Service, 0, len(gg))
	for i := range gg {
		ss = append(ss, *gg[i].Model())
	}
	return ss, nil
}

func ServiceByID[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.Service, error) {
	var gs gService
	if err := q.GORM(ctx).Where("id = ?", id).Take(&gs).Error; err != nil {
		return nil, postgres.Classify(err, "service")
	}
	return gs.Model(), nil
}

func CreateService[Q postgres.Queryer](ctx context.Context, q Q, s *model.Service) (*model.Service, error) {
	gs := fromService(s)
	gs.ID = 0
	if err := q.GORM(ctx).Create(gs).Error; err != nil {
		return nil, postgres.Classify(err, "service")
	}
	return gs.Model(), nil
}

// UpdateService replaces the columns of s.ID service. An empty image
// keeps the current one.
func UpdateService[Q postgres.Queryer](ctx context.Context, q Q, s *model.Service) (*model.Service, error) {
	cols := []string{
		"name", "description", "price", "duration", "service_type",
		"is_active", "is_featured",
	}
	if s.Image != "" {
		cols = append(cols, "image")
	}
	var gg []gService
	err := q.GORM(ctx).Model(&gg).Clauses(clause.Returning{}).Select(
		cols,
	).Where("id = ?", s.ID).Updates(fromService(s)).Error
	if err != nil {
		return nil, postgres.Classify(err, "service")
	}
	if n := len(gg); n != 1 {
		return nil, cerr.NotFoundf("service %d not found", s.ID)
	}
	return gg[0].Model(), nil
}

type gPart struct {
	ID            int64 `gorm:"primaryKey"`
	Name          string
	Description   string
	Price         decimal.Decimal `gorm:"type:numeric(10,2)"`
	StockQuantity int
	Category      string
	Brand         string
	PartNumber    string
	Compatibility string
	Image         string
	IsActive      bool
	CreatedAt     time.Time
}

func (gp *gPart) TableName() string {
	return "car_parts"
}

func (gp *gPart) Model() *model.CarPart {
	return &model.CarPart{
		ID:            gp.ID,
		Name:          gp.Name,
		Description:   gp.Description,
		Price:         gp.Price,
		Stock:         gp.StockQuantity,
		Category:      gp.Category,
		Brand:         gp.Brand,
		PartNumber:    gp.PartNumber,
		Compatibility: gp.Compatibility,
		Image:         gp.Image,
		Active:        gp.IsActive,
		CreatedAt:     gp.CreatedAt,
	}
}

func fromPart(p *model.CarPart) *gPart {
	return &gPart{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.Stock,
		Category:      p.Category,
		Brand:         p.Brand,
		PartNumber:    p.PartNumber,
		Compatibility: p.Compatibility,
		Image:         p.Image,
		IsActive:      p.Active,
	}
}

func parts(gdb *gorm.DB) ([]model.CarPart, error) {
	var gg []gPart
	if err := gdb.Find(&gg).Error; err != nil {
		return nil, fmt.Errorf("listing parts: %w", err)
	}
	pp := make([]model.CarPart, 0, len(gg))
	for i := range gg {
		pp = append(pp, *gg[i].Model())
	}
	return pp, nil
}

// escapeLike escapes the LIKE wildcards of s.
func escapeLike(s string) string {
	return strings.NewReplacer(
		`\`, `\\`, `%`, `\%`, `_`, `\_`,
	).Replace(s)
}

func ListParts[Q postgres.Queryer](ctx context.Context, q Q, f model.PartFilter) ([]model.CarPart, error) {
	gdb := q.GORM(ctx)
	if f.ActiveOnly {
		gdb = gdb.Where("is_active")
	}
	if f.Category != "" {
		gdb = gdb.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		gdb = gdb.Where(
			"name ILIKE ? OR description ILIKE ?", pattern, pattern,
		)
	}
	return parts(gdb.Order("name"))
}

func Categories[Q postgres.Queryer](ctx context.Context, q Q) ([]string, error) {
	var cc []string
	err := q.GORM(ctx).Model(&gPart{}).Distinct("category").Where(
		"is_active AND category <> ''",
	).Order("category").Pluck("category", &cc).Error
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return cc, nil
}

func PartByID[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.CarPart, error) {
	var gp gPart
	if err := q.GORM(ctx).Where("id = ?", id).Take(&gp).Error; err != nil {
		return nil, postgres.Classify(err, "car part")
	}
	return gp.Model(), nil
}

func PartsByIDs[Q postgres.Queryer](ctx context.Context, q Q, ids []int64) ([]model.CarPart, error) {
	if len(ids) == 0 {
		return []model.CarPart{}, nil
	}
	return parts(q.GORM(ctx).Where("id IN ?", ids).Order("id"))
}

func CreatePart[Q postgres.Queryer](ctx context.Context, q Q, p *model.CarPart) (*model.CarPart, error) {
	gp := fromPart(p)
	gp.ID = 0
	if err := q.GORM(ctx).Create(gp).Error; err != nil {
		return nil, postgres.Classify(err, "car part")
	}
	return gp.Model(), nil
}

// UpdatePart replaces the columns of p.ID part. An empty image keeps
// the current one.
func UpdatePart[Q postgres.Queryer](ctx context.Context, q Q, p *model.CarPart) (*model.CarPart, error) {
	cols := []string{
		"name", "description", "price", "stock_quantity", "category",
		"brand", "part_number", "compatibility", "is_active",
	}
	if p.Image != "" {
		cols = append(cols, "image")
	}
	var gg []gPart
	err := q.GORM(ctx).Model(&gg).Clauses(clause.Returning{}).Select(
		cols,
	).Where("id = ?", p.ID).Updates(fromPart(p)).Error
	if err != nil {
		return nil, postgres.Classify(err, "car part")
	}
	if n := len(gg); n != 1 {
		return nil, cerr.NotFoundf("car part %d not found", p.ID)
	}
	return gg[0].Model(), nil
}

func LowStock[Q postgres.Queryer](ctx context.Context, q Q, threshold int) ([]model.CarPart, error) {
	return parts(q.GORM(ctx).Where(
		"is_active AND stock_quantity <= ?", threshold,
	).Order("id"))
}

// DecrementStock removes qty items from the stock of an active part
// using one conditional UPDATE, so concurrent checkouts can not take
// the stock below zero.
func DecrementStock[Q postgres.Queryer](ctx context.Context, q Q, id int64, qty int) (bool, error) {
	n, err := q.Exec(ctx, `UPDATE car_parts
SET stock_quantity = stock_quantity - ?
WHERE id = ? AND is_active AND stock_quantity >= ?`, qty, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrementing stock of part %d: %w", id, err)
	}
	return n == 1, nil
}
