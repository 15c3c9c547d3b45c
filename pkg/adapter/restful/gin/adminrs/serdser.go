package adminrs

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/storage"
	"github.com/gin-gonic/gin"
)

// image is the optional uploaded image of a multipart request.
type image struct {
	upload *storage.Upload
	file   multipart.File
}

func (img *image) close(ctx context.Context) {
	if img.file != nil {
		if err := img.file.Close(); err != nil {
			log.Warn(ctx, "closing upload failed", log.Err("err", err))
		}
	}
}

// formImage opens the "image" file of a multipart request. JSON bodies
// and forms without an image (or with an empty file input) yield a
// nil upload.
func formImage(c *gin.Context) (*image, bool) {
	img := &image{}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return img, true
	}
	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return img, true
	case err != nil:
		serdser.Fail(c, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	case fh.Filename == "":
		return img, true
	}
	f, err := fh.Open()
	if err != nil {
		serdser.SerErr(c, err)
		return nil, false
	}
	img.file = f
	img.upload = &storage.Upload{Name: fh.Filename, Body: f}
	return img, true
}

type rawServiceReq struct {
	ID          int64            `form:"service_id" json:"service_id"`
	Name        string           `form:"name" json:"name" binding:"required,max=100"`
	Description string           `form:"description" json:"description"`
	Price       *serdser.Decimal `form:"price" json:"price" binding:"required"`
	Duration    int              `form:"duration,default=60" json:"duration" binding:"gte=0"`
	ServiceType string           `form:"service_type" json:"service_type" binding:"max=50"`
	Active      serdser.Flag     `form:"is_active" json:"is_active"`
	Featured    serdser.Flag     `form:"is_featured" json:"is_featured"`
}

// DserServiceReq binds a service and its optional image. The update
// requests must carry the service_id.
func (rs *resource) DserServiceReq(c *gin.Context, update bool) (
	*model.Service, *image, bool,
) {
	req := &rawServiceReq{}
	if !serdser.Bind(c, req, nil) {
		return nil, nil, false
	}
	if update && req.ID <= 0 {
		serdser.Fail(c, http.StatusBadRequest, "service_id is required", nil)
		return nil, nil, false
	}
	img, ok := formImage(c)
	if !ok {
		return nil, nil, false
	}
	return &model.Service{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Decimal,
		Duration:    req.Duration,
		ServiceType: req.ServiceType,
		Active:      bool(req.Active),
		Featured:    bool(req.Featured),
	}, img, true
}

type rawPartReq struct {
	ID            int64            `form:"part_id" json:"part_id"`
	Name          string           `form:"name" json:"name" binding:"required,max=100"`
	Description   string           `form:"description" json:"description"`
	Price         *serdser.Decimal `form:"price" json:"price" binding:"required"`
	Stock         int              `form:"stock" json:"stock" binding:"gte=0"`
	Category      string           `form:"category" json:"category" binding:"max=50"`
	Brand         string           `form:"brand" json:"brand" binding:"max=50"`
	PartNumber    string           `form:"part_number" json:"part_number" binding:"max=50"`
	Compatibility string           `form:"compatibility" json:"compatibility"`
	Active        serdser.Flag     `form:"is_active" json:"is_active"`
}

// DserPartReq binds a car part and its optional image. The update
// requests must carry the part_id.
func (rs *resource) DserPartReq(c *gin.Context, update bool) (
	*model.CarPart, *image, bool,
) {
	req := &rawPartReq{}
	if !serdser.Bind(c, req, nil) {
		return nil, nil, false
	}
	if update && req.ID <= 0 {
		serdser.Fail(c, http.StatusBadRequest, "part_id is required", nil)
		return nil, nil, false
	}
	img, ok := formImage(c)
	if !ok {
		return nil, nil, false
	}
	return &model.CarPart{
		ID:            req.ID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price.Decimal,
		Stock:         req.Stock,
		Category:      req.Category,
		Brand:         req.Brand,
		PartNumber:    req.PartNumber,
		Compatibility: req.Compatibility,
		Active:        bool(req.Active),
	}, img, true
}

type rawDiscountReq struct {
	Code       string           `form:"code" json:"code" binding:"required,max=50"`
	Type       string           `form:"discount_type" json:"discount_type" binding:"required,oneof=percentage fixed"`
	Value      *serdser.Decimal `form:"discount_value" json:"discount_value" binding:"required"`
	UsageLimit *int             `form:"usage_limit" json:"usage_limit" binding:"omitempty,gt=0"`
	Expiry     string           `form:"expiry_date" json:"expiry_date"`
}

func (rs *resource) DserDiscountReq(c *gin.Context) (*model.Discount, bool) {
	req := &rawDiscountReq{}
	if !serdser.Bind(c, req, nil) {
		return nil, false
	}
	var errs map[string][]string
	typ, err := model.ParseDiscountType(req.Type)
	serdser.Assert(&errs, err == nil, "DiscountType", "Unknown discount type.")
	d := &model.Discount{
		Code:       req.Code,
		Type:       typ,
		Value:      req.Value.Decimal,
		UsageLimit: req.UsageLimit,
		Active:     true,
	}
	if s := strings.TrimSpace(req.Expiry); s != "" {
		exp, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if serdser.Assert(&errs, err == nil, "ExpiryDate", "The expiry_date must be YYYY-MM-DD.") {
			d.Expiry = &exp
		}
	}
	if errs != nil {
		serdser.Fail(c, http.StatusBadRequest, "invalid request", errs)
		return nil, false
	}
	return d, true
}

type rawUserReq struct {
	UserID int64        `form:"user_id" json:"user_id" binding:"required,gt=0"`
	Role   string       `form:"role" json:"role" binding:"required,oneof=client service admin"`
	Active serdser.Flag `form:"is_active" json:"is_active"`
}

type userReq struct {
	id     int64
	role   model.Role
	active bool
}

func (rs *resource) DserUserReq(c *gin.Context) (*userReq, bool) {
	req := &rawUserReq{}
	if !serdser.Bind(c, req, nil) {
		return nil, false
	}
	r, err := model.ParseRole(req.Role)
	if err != nil {
		serdser.Fail(c, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}
	return &userReq{id: req.UserID, role: r, active: bool(req.Active)}, true
}
