// Package reportrs realizes the service reports resource.
package reportrs

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

// Register adds the GET /api/generate_report/:bid route for the staff
// and the GET /admin/reports statistics route for the administrators.
func Register(r gin.IRouter, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET(
		"api/generate_report/:bid",
		session.Require(model.CapGenerateReport), rs.Generate,
	)
	r.GET("admin/reports", session.Require(model.CapAdminArea), rs.Stats)
}

func (rs *resource) Generate(c *gin.Context) {
	bid, ok := serdser.ParamID(c, "bid")
	if !ok {
		return
	}
	rep, err := rs.app.ReportUseCase().Generate(c, bid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	msg := "Report generated successfully"
	if rep.Status == model.ReportSent {
		msg = "Report generated and sent successfully"
	}
	serdser.OK(c, http.StatusOK, gin.H{"message": msg, "report": rep})
}

func (rs *resource) Stats(c *gin.Context) {
	st, err := rs.app.ReportUseCase().Stats(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"stats": st})
}
