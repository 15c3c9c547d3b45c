// Package render exports the document rendering interface.
package render

import "github.com/futuremech/fmweb/pkg/core/model"

// Renderer lays out the structured report sections as a document.
type Renderer interface {
	ServiceReport(r *model.ServiceReport) ([]byte, error)
}
