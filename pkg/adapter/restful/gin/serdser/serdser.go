// Package serdser contains the serialization and deserialization
// helpers which are shared by the resource packages. All responses
// are JSON objects with a boolean "success" field. Failed responses
// carry an "error" message and, for validation failures, a "fields"
// object mapping each invalid field name to its messages.
package serdser

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Bind decodes the request into req with b (or the binding which is
// chosen by the request method and content type if b is nil) and
// validates it. On failures, the 400 response is written and false is
// returned, so the caller should only return.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	var err error
	if b == nil {
		err = c.ShouldBind(req)
	} else {
		err = c.ShouldBindWith(req, b)
	}
	var verrs validator.ValidationErrors
	var ierr *validator.InvalidValidationError
	switch {
	case err == nil:
		return true
	case errors.As(err, &ierr):
		SerErr(c, err)
	case errors.As(err, &verrs):
		var nameToErrs map[string][]string
		for _, ferr := range verrs {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		Fail(c, http.StatusBadRequest, "invalid request", nameToErrs)
	default:
		Fail(c, http.StatusBadRequest, err.Error(), nil)
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// Fail writes a failed response with the given status code.
func Fail(c *gin.Context, status int, msg string, fields map[string][]string) {
	h := gin.H{"success": false, "error": msg}
	if fields != nil {
		h["fields"] = fields
	}
	c.AbortWithStatusJSON(status, h)
}

// SerErr serializes err by its cerr kind. Errors which are not
// classified are logged and reported with a generic message, so the
// infrastructure details are not leaked to the clients.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		Fail(c, ce.HTTPStatusCode, ce.Err.Error(), nil)
		return
	}
	_ = c.Error(err)
	log.Error(
		c.Request.Context(), "request failed",
		slog.String("path", c.Request.URL.Path), log.Err("err", err),
	)
	Fail(c, http.StatusInternalServerError, "internal server error", nil)
}

// OK writes a successful response which contains the fields of h.
func OK(c *gin.Context, status int, h gin.H) {
	if h == nil {
		h = gin.H{}
	}
	h["success"] = true
	c.JSON(status, h)
}

// Message writes a successful response with a message.
func Message(c *gin.Context, msg string) {
	OK(c, http.StatusOK, gin.H{"message": msg})
}

// ParamID parses the name path parameter as a positive id. On failures,
// the 400 response is written and false is returned.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		Fail(c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}
