package cataloguc_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/futuremech/fmweb/internal/test/fakes"
	"github.com/futuremech/fmweb/internal/test/memrp"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/storage"
	"github.com/futuremech/fmweb/pkg/core/usecase/cataloguc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CatalogUseCaseTestSuite struct {
	suite.Suite

	ctx   context.Context
	db    *memrp.DB
	files *fakes.FileStore
	uc    *cataloguc.UseCase
}

func TestCatalogUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogUseCaseTestSuite))
}

func (s *CatalogUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = memrp.New()
	s.db.Now = func() time.Time {
		return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	}
	s.files = fakes.NewFileStore()
	uc, err := cataloguc.New(
		s.db, memrp.Services{}, memrp.Parts{}, memrp.Notifications{},
		s.files,
		cataloguc.WithHomeLimit(2), cataloguc.WithLowStockThreshold(3),
	)
	s.Require().NoError(err)
	s.uc = uc
}

func (s *CatalogUseCaseTestSuite) TestOptions() {
	_, err := cataloguc.New(
		s.db, memrp.Services{}, memrp.Parts{}, memrp.Notifications{},
		s.files, cataloguc.WithHomeLimit(0),
	)
	s.Error(err)
	_, err = cataloguc.New(
		s.db, memrp.Services{}, memrp.Parts{}, memrp.Notifications{},
		s.files, cataloguc.WithHomeLimit(3), cataloguc.WithHomeLimit(4),
	)
	s.Error(err)
	_, err = cataloguc.New(
		s.db, memrp.Services{}, memrp.Parts{}, memrp.Notifications{},
		s.files, cataloguc.WithLowStockThreshold(-1),
	)
	s.Error(err)
}

func (s *CatalogUseCaseTestSuite) service(name string, featured, active bool) {
	_, err := s.uc.CreateService(s.ctx, model.Service{
		Name: name, Price: decimal.NewFromInt(100),
		Featured: featured, Active: active,
	}, nil)
	s.Require().NoError(err)
}

func (s *CatalogUseCaseTestSuite) part(name, category string, stock int) *model.CarPart {
	p, err := s.uc.CreatePart(s.ctx, model.CarPart{
		Name: name, Category: category, Price: decimal.NewFromInt(10),
		Stock: stock, Active: true, Description: name + " for most cars",
	}, nil)
	s.Require().NoError(err)
	return p
}

func (s *CatalogUseCaseTestSuite) TestHomeFeaturedFirst() {
	s.service("Brake Inspection", false, true)
	s.service("Pre-Delivery Inspection", true, true)
	s.service("Detailing", false, true)
	s.service("Hidden", true, false)

	home, err := s.uc.Home(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(home, 2)
	s.Equal("Pre-Delivery Inspection", home[0].Name)
	s.Equal("Brake Inspection", home[1].Name)

	all, err := s.uc.Services(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
	all, err = s.uc.AllServices(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 4)
}

func (s *CatalogUseCaseTestSuite) TestCreateServiceDefaults() {
	sv, err := s.uc.CreateService(s.ctx, model.Service{
		Name: "  Detailing ", Price: decimal.RequireFromString("199.999"),
		Active: true,
	}, &storage.Upload{Name: "car.PNG", Body: strings.NewReader("img")})
	s.Require().NoError(err)
	s.Equal("Detailing", sv.Name)
	s.Equal(model.DefaultServiceDuration, sv.Duration)
	s.Equal("200", sv.Price.String())
	s.Equal("services/car.PNG", sv.Image)
	s.Contains(s.files.Files, "services/car.PNG")
}

func (s *CatalogUseCaseTestSuite) TestCreateServiceInvalid() {
	_, err := s.uc.CreateService(s.ctx, model.Service{Name: " "}, nil)
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))

	_, err = s.uc.CreateService(s.ctx, model.Service{Name: "X"},
		&storage.Upload{Name: "x.exe", Body: strings.NewReader("MZ")})
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
	s.ErrorIs(err, storage.ErrUnsupportedType)
	s.Empty(s.files.Files)
}

func (s *CatalogUseCaseTestSuite) TestUpdateServiceKeepsImage() {
	sv, err := s.uc.CreateService(s.ctx, model.Service{
		Name: "Wash", Price: decimal.NewFromInt(20), Active: true,
	}, &storage.Upload{Name: "wash.jpg", Body: strings.NewReader("img")})
	s.Require().NoError(err)

	sv.Name = "Premium Wash"
	sv.Image = ""
	updated, err := s.uc.UpdateService(s.ctx, *sv, nil)
	s.Require().NoError(err)
	s.Equal("Premium Wash", updated.Name)
	s.Equal("services/wash.jpg", updated.Image)

	_, err = s.uc.UpdateService(s.ctx, model.Service{ID: 999, Name: "X"}, nil)
	s.True(cerr.IsNotFound(err))
}

func (s *CatalogUseCaseTestSuite) TestDeleteService() {
	s.service("Wash", false, true)
	all, err := s.uc.AllServices(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.uc.DeleteService(s.ctx, all[0].ID))
	s.True(cerr.IsNotFound(s.uc.DeleteService(s.ctx, all[0].ID)))
}

func (s *CatalogUseCaseTestSuite) TestCreatePartNotifiesAdmins() {
	p := s.part("Oil Filter", "Filters", 10)
	var nn []model.Notification
	s.db.View(func(st *memrp.Store) {
		for _, n := range st.Notifications {
			nn = append(nn, n)
		}
	})
	s.Require().Len(nn, 1)
	s.Equal(model.AudienceOf(model.RoleAdmin), nn[0].Audience)
	s.Equal(model.NotifyInventory, nn[0].Type)
	s.Equal("New car part added: Oil Filter", nn[0].Message)
	s.Require().NotNil(nn[0].RelatedID)
	s.Equal(p.ID, *nn[0].RelatedID)

	_, err := s.uc.CreatePart(s.ctx, model.CarPart{Name: "Free"}, nil)
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
}

func (s *CatalogUseCaseTestSuite) TestPartsPage() {
	s.part("Oil Filter", "Filters", 10)
	s.part("Air Filter", "Filters", 10)
	s.part("Brake Pads", "Brakes", 10)
	hidden := s.part("Old Pads", "Legacy", 10)
	hidden.Active = false
	_, err := s.uc.UpdatePart(s.ctx, *hidden, nil)
	s.Require().NoError(err)

	page, err := s.uc.Parts(s.ctx, "", "")
	s.Require().NoError(err)
	s.Len(page.Parts, 3)
	s.Equal([]string{"Brakes", "Filters"}, page.Categories)

	page, err = s.uc.Parts(s.ctx, "Filters", " oil ")
	s.Require().NoError(err)
	s.Require().Len(page.Parts, 1)
	s.Equal("Oil Filter", page.Parts[0].Name)
	s.Equal("oil", page.Search)
	s.Equal("Filters", page.Category)

	all, err := s.uc.AllParts(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 4)
}

func (s *CatalogUseCaseTestSuite) TestDeletePart() {
	p := s.part("Oil Filter", "Filters", 10)
	s.Require().NoError(s.uc.DeletePart(s.ctx, p.ID))
	_, err := s.uc.Part(s.ctx, p.ID)
	s.True(cerr.IsNotFound(err))
}

func (s *CatalogUseCaseTestSuite) TestLowStockCheck() {
	n, err := s.uc.LowStockCheck(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)

	s.part("Oil Filter", "Filters", 10)
	s.part("Wiper", "Misc", 3)
	s.part("Bulb", "Misc", 0)
	n, err = s.uc.LowStockCheck(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	var low []string
	s.db.View(func(st *memrp.Store) {
		for _, nn := range st.Notifications {
			if strings.HasPrefix(nn.Message, "Low stock") {
				low = append(low, nn.Message)
			}
		}
	})
	s.Require().Len(low, 1)
	s.Contains(low[0], "Wiper (3 left)")
	s.Contains(low[0], "Bulb (0 left)")
}
