package reportuc_test

import (
	"context"
	"testing"
	"time"

	"github.com/futuremech/fmweb/internal/test/fakes"
	"github.com/futuremech/fmweb/internal/test/memrp"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/reportuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var generatedAt = time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

type ReportUseCaseTestSuite struct {
	suite.Suite

	ctx     context.Context
	db      *memrp.DB
	mailer  *fakes.Mailer
	files   *fakes.FileStore
	uc      *reportuc.UseCase
	booking int64
}

func TestReportUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(ReportUseCaseTestSuite))
}

func (s *ReportUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = memrp.New()
	s.mailer = &fakes.Mailer{}
	s.files = fakes.NewFileStore()
	uc, err := reportuc.New(
		s.db, memrp.Reports{}, fakes.Renderer{}, s.files, s.mailer,
		reportuc.WithClock(func() time.Time { return generatedAt }),
	)
	s.Require().NoError(err)
	s.uc = uc
	s.db.Update(func(st *memrp.Store) {
		u := model.User{
			ID: st.NextID(), Username: "jane", Email: "jane@x.com",
			Role: model.RoleClient, Active: true,
		}
		st.Users[u.ID] = u
		sv := model.Service{
			ID: st.NextID(), Name: "PDI", Price: decimal.NewFromInt(150),
			Active: true,
		}
		st.Services[sv.ID] = sv
		s.booking = st.NextID()
		st.Bookings[s.booking] = model.Booking{
			ID: s.booking, UserID: u.ID, ServiceID: sv.ID,
			Status: model.BookingCompleted, TotalAmount: sv.Price,
		}
	})
}

func (s *ReportUseCaseTestSuite) TestGenerateAndSend() {
	r, err := s.uc.Generate(s.ctx, s.booking)
	s.Require().NoError(err)
	s.Equal(model.ReportSent, r.Status)
	s.Equal(model.ServiceReportType, r.Type)

	name := (&model.ServiceReport{
		BookingID: s.booking, GeneratedAt: generatedAt,
	}).FileName()
	s.Equal("reports/"+name, r.Path)
	s.Contains(string(s.files.Files[r.Path]), "jane PDI")

	s.Equal([]string{"Service Report - Future Mech"}, s.mailer.Subjects())
	att := s.mailer.Sent[0].Attachment
	s.Require().NotNil(att)
	s.Equal(name, att.Name)
	s.Equal(s.files.Files[r.Path], att.Data)

	s.db.View(func(st *memrp.Store) {
		s.Equal(model.ReportSent, st.Reports[r.ID].Status)
	})
}

func (s *ReportUseCaseTestSuite) TestGenerateWhenMailIsDown() {
	s.mailer.Fail = true
	r, err := s.uc.Generate(s.ctx, s.booking)
	s.Require().NoError(err)
	s.Equal(model.ReportGenerated, r.Status)
	s.Len(s.files.Files, 1)
}

func (s *ReportUseCaseTestSuite) TestGenerateMissingBooking() {
	_, err := s.uc.Generate(s.ctx, 999)
	s.True(cerr.IsNotFound(err))
	s.Empty(s.files.Files)
	s.Empty(s.mailer.Sent)
}

func (s *ReportUseCaseTestSuite) TestStats() {
	day1 := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	s.db.Now = func() time.Time { return day1 }
	_, err := s.uc.Generate(s.ctx, s.booking)
	s.Require().NoError(err)
	s.mailer.Fail = true
	_, err = s.uc.Generate(s.ctx, s.booking)
	s.Require().NoError(err)
	s.mailer.Fail = false
	s.db.Now = func() time.Time { return day2 }
	_, err = s.uc.Generate(s.ctx, s.booking)
	s.Require().NoError(err)
	s.db.Update(func(st *memrp.Store) {
		id := st.NextID()
		st.Reports[id] = model.Report{
			ID: id, BookingID: s.booking, Type: model.ServiceReportType,
			Status: model.ReportDownloaded, CreatedAt: day1,
		}
	})

	st, err := s.uc.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.ReportStat{
		{Type: model.ServiceReportType, Date: "2024-03-05", Count: 1, Sent: 1},
		{
			Type: model.ServiceReportType, Date: "2024-03-04", Count: 3,
			Generated: 1, Sent: 1, Downloaded: 1,
		},
	}, st)
}
