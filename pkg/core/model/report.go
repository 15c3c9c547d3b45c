package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReportType names the kind of a generated document.
type ReportType string

// ServiceReportType is the post-service inspection report.
const ServiceReportType ReportType = "service"

// ReportStatus tracks the delivery of a report.
type ReportStatus string

// Valid ReportStatus values.
const (
	ReportGenerated  ReportStatus = "generated"
	ReportSent       ReportStatus = "sent"
	ReportDownloaded ReportStatus = "downloaded"
)

// Report is a generated document which is kept in the file store.
type Report struct {
	ID        int64        `json:"id"`
	BookingID int64        `json:"booking_id"`
	Type      ReportType   `json:"report_type"`
	Path      string       `json:"file_path"`
	Status    ReportStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReportStat counts the reports of one type which were created on
// one day, in total and per delivery status.
type ReportStat struct {
	Type       ReportType `json:"report_type"`
	Date       string     `json:"date"` // YYYY-MM-DD
	Count      int64      `json:"count"`
	Generated  int64      `json:"generated"`
	Sent       int64      `json:"sent"`
	Downloaded int64      `json:"downloaded"`
}

// Tally counts one more report with the st status.
func (rs *ReportStat) Tally(st ReportStatus) {
	rs.Count++
	switch st {
	case ReportGenerated:
		rs.Generated++
	case ReportSent:
		rs.Sent++
	case ReportDownloaded:
		rs.Downloaded++
	}
}

// ServiceReport is the joined data of one booking which is rendered
// as a document.
type ServiceReport struct {
	BookingID     int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ServiceDate   time.Time
	ServiceName   string
	Description   string
	Price         decimal.Decimal
	Status        BookingStatus
	Notes         string
	Vehicle       string
	GeneratedAt   time.Time
}

// ReportNumber returns the displayed identifier of the report.
func (r *ServiceReport) ReportNumber() string {
	return fmt.Sprintf("FM-%06d", r.BookingID)
}

// FileName returns the name which the rendered report is stored as.
func (r *ServiceReport) FileName() string {
	return fmt.Sprintf(
		"PDI_Report_%d_%s.pdf",
		r.BookingID, r.GeneratedAt.Format("20060102_150405"),
	)
}
