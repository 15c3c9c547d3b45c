// Package gin wraps the gin-gonic engine construction and provides the
// cross-cutting middlewares (request ids, access logging, and panic
// recovery) which are shared by all resources.
package gin

import (
	"log/slog"

	"github.com/FabienMht/ginslog"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in requests and responses.
const RequestIDHeader = "X-Request-ID"

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New creates a gin engine in the release mode with the given
// middlewares. Request bodies which are parsed as multipart forms
// keep at most maxMemory bytes in memory (zero keeps the default).
func New(maxMemory int64, middlewares ...HandlerFunc) *Engine {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	// handlers pass the *gin.Context as their context.Context, so its
	// values must fall back to the request context ones
	e.ContextWithFallback = true
	if maxMemory > 0 {
		e.MaxMultipartMemory = maxMemory
	}
	e.Use(middlewares...)
	return e
}

// Logger emits one structured access record per request through the
// default slog logger. It must be created after log.Setup so records
// share the configured handler.
func Logger() HandlerFunc {
	return ginslog.New(slog.Default())
}

// RequestID attaches an id to the request context, so every record
// which is logged while serving the request carries it. The id is
// taken from the RequestIDHeader if a sane one is given, and is echoed
// in the response.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		ctx := log.With(c.Request.Context(), slog.String("request_id", id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}
