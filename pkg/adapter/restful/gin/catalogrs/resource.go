// Package catalogrs realizes the public catalog resource: the home
// page services, the services and car parts listings, and the contact
// form.
package catalogrs

import (
	"net/http"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the catalog and
// notification use cases with the relevant REST APIs including:
//  1. GET / for the featured services,
//  2. GET /services and /car_parts (with category and search query
//     parameters) and GET /car_parts/:pid,
//  3. POST /contact in order to submit the contact form.
func Register(r gin.IRouter, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("", rs.Home)
	r.GET("services", rs.Services)
	r.GET("car_parts", rs.Parts)
	r.GET("car_parts/:pid", rs.Part)
	r.POST("contact", rs.Contact)
}

func (rs *resource) Home(c *gin.Context) {
	ss, err := rs.app.CatalogUseCase().Home(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"services": ss})
}

func (rs *resource) Services(c *gin.Context) {
	ss, err := rs.app.CatalogUseCase().Services(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"services": ss})
}

func (rs *resource) Parts(c *gin.Context) {
	req := &partsReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	page, err := rs.app.CatalogUseCase().Parts(c, req.Category, req.Search)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"parts":             page.Parts,
		"categories":        page.Categories,
		"selected_category": page.Category,
		"search_term":       page.Search,
	})
}

func (rs *resource) Part(c *gin.Context) {
	id, ok := serdser.ParamID(c, "pid")
	if !ok {
		return
	}
	p, err := rs.app.CatalogUseCase().Part(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"part": p})
}

func (rs *resource) Contact(c *gin.Context) {
	req := &contactReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	sub, err := rs.app.NotificationUseCase().Contact(c, req.toModel())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusCreated, gin.H{
		"message": "Thank you for contacting us! We will get back to you soon.",
		"id":      sub.ID,
	})
}
