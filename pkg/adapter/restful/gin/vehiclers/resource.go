// Package vehiclers realizes the client vehicles resource.
package vehiclers

import (
	"net/http"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/session"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the vehicle use case with
// GET /api/client/vehicles and POST /api/client/add_vehicle.
// The r router is expected to be guarded by the client capability.
func Register(r gin.IRouter, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("api/client/vehicles", rs.List)
	r.POST("api/client/add_vehicle", rs.Add)
}

func (rs *resource) List(c *gin.Context) {
	vv, err := rs.app.VehicleUseCase().List(c, session.Current(c).UserID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"vehicles": vv})
}

func (rs *resource) Add(c *gin.Context) {
	req := &addReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	v, err := rs.app.VehicleUseCase().Add(
		c, session.Current(c).UserID, req.toModel(),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusCreated, gin.H{
		"message": "Vehicle added successfully",
		"vehicle": v,
	})
}

type addReq struct {
	RegistrationNo string `form:"registration_no" json:"registration_no" binding:"required,max=20"`
	Make           string `form:"make" json:"make" binding:"required,max=50"`
	Model          string `form:"model" json:"model" binding:"required,max=50"`
	Year           int    `form:"year" json:"year" binding:"required"`
	Color          string `form:"color" json:"color" binding:"max=30"`
}

func (r *addReq) toModel() model.Vehicle {
	return model.Vehicle{
		RegistrationNo: r.RegistrationNo,
		Make:           r.Make,
		Model:          r.Model,
		Year:           r.Year,
		Color:          r.Color,
	}
}
