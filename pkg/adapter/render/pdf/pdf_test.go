package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/render/pdf"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceReport(t *testing.T) {
	r := &model.ServiceReport{
		BookingID:     42,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		ServiceDate:   time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		ServiceName:   "Pre-Delivery Inspection",
		Price:         decimal.RequireFromString("149.9"),
		Status:        model.BookingCompleted,
		GeneratedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	doc, err := pdf.Renderer{Uncompressed: true}.ServiceReport(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	for _, s := range []string{
		pdf.Title, "FM-000042", "Jane Doe", "$149.90", "Completed", "N/A",
	} {
		assert.True(t, bytes.Contains(doc, []byte(s)), "missing %q", s)
	}
}
