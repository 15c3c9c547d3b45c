package appuc_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/futuremech/fmweb/internal/test/fakes"
	"github.com/futuremech/fmweb/internal/test/memrp"
	"github.com/futuremech/fmweb/pkg/adapter/hash/bcrypt"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/authuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/bookinguc"
	"github.com/futuremech/fmweb/pkg/core/usecase/cartuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/cataloguc"
	"github.com/futuremech/fmweb/pkg/core/usecase/dashboarduc"
	"github.com/futuremech/fmweb/pkg/core/usecase/notificationuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/paymentuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/reportuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/vehicleuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type builder struct {
	homeLimit int
	failCart  bool
}

func (b builder) NewAuthUseCase(p repo.Pool, r *appuc.Repos, d *appuc.Deps) (*authuc.UseCase, error) {
	return authuc.New(p, r.Users, r.ResetTokens, d.Hasher, d.Mailer)
}

func (b builder) NewCatalogUseCase(p repo.Pool, r *appuc.Repos, d *appuc.Deps) (*cataloguc.UseCase, error) {
	return cataloguc.New(
		p, r.Services, r.Parts, r.Notifications, d.Files,
		cataloguc.WithHomeLimit(b.homeLimit),
	)
}

func (b builder) NewCartUseCase(p repo.Pool, r *appuc.Repos, d *appuc.Deps) (*cartuc.UseCase, error) {
	if b.failCart {
		return nil, errors.New("bad cart settings")
	}
	return cartuc.New(
		p, r.Parts, r.Discounts, r.Orders, r.Payments, r.Notifications,
		r.Carts,
	)
}

func (b builder) NewBookingUseCase(p repo.Pool, r *appuc.Repos, d *appuc.Deps) (*bookinguc.UseCase, error) {
	return bookinguc.New(
		p, r.Bookings, r.Services, r.Vehicles, r.Users, r.Payments,
		r.Notifications, d.Mailer,
	)
}

func (b builder) NewVehicleUseCase(p repo.Pool, r *appuc.Repos, d *appuc.Deps) (*vehicleuc.UseCase, error) {
	return vehicleuc.New(p, r.Vehicles)
}

func (b builder) NewPaymentUseCase(p repo.Pool, r *appuc.Repos, d *appuc.Deps) (*paymentuc.UseCase, error) {
	return paymentuc.New(p, r.Bookings, r.Orders, r.Payments, d.Processor, d.Mailer)
}

func (b builder) NewNotificationUseCase(p repo.Pool, r *appuc.Repos, d *appuc.Deps) (*notificationuc.UseCase, error) {
	return notificationuc.New(p, r.Notifications, r.Contacts, d.Mailer)
}

func (b builder) NewDashboardUseCase(p repo.Pool, r *appuc.Repos, d *appuc.Deps) (*dashboarduc.UseCase, error) {
	return dashboarduc.New(p, r.Users, r.Bookings, r.Orders)
}

func (b builder) NewReportUseCase(p repo.Pool, r *appuc.Repos, d *appuc.Deps) (*reportuc.UseCase, error) {
	return reportuc.New(p, r.Reports, d.Renderer, d.Files, d.Mailer)
}

func newApp(t *testing.T) *appuc.UseCase {
	h, err := bcrypt.New(4)
	require.NoError(t, err)
	app, err := appuc.New(memrp.New(), &appuc.Repos{
		Users:         memrp.Users{},
		Vehicles:      memrp.Vehicles{},
		Services:      memrp.Services{},
		Parts:         memrp.Parts{},
		Bookings:      memrp.Bookings{},
		Orders:        memrp.Orders{},
		Discounts:     memrp.Discounts{},
		Payments:      memrp.Payments{},
		Notifications: memrp.Notifications{},
		Contacts:      memrp.Contacts{},
		Reports:       memrp.Reports{},
		Carts:         memrp.NewCarts(),
		ResetTokens:   memrp.NewResetTokens(),
	}, &appuc.Deps{
		Hasher:    h,
		Mailer:    &fakes.Mailer{},
		Processor: fakes.NewProcessor(),
		Files:     fakes.NewFileStore(),
		Renderer:  fakes.Renderer{},
	})
	require.NoError(t, err)
	return app
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := appuc.New(memrp.New(), &appuc.Repos{}, &appuc.Deps{})
	assert.Error(t, err)
	_, err = appuc.New(nil, &appuc.Repos{}, &appuc.Deps{})
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	app := newApp(t)
	assert.Nil(t, app.CatalogUseCase(), "no use case before reload")

	require.NoError(t, app.Reload(builder{homeLimit: 3}))
	first := app.CatalogUseCase()
	require.NotNil(t, first)
	assert.NotNil(t, app.AuthUseCase())
	assert.NotNil(t, app.CartUseCase())
	assert.NotNil(t, app.BookingUseCase())
	assert.NotNil(t, app.VehicleUseCase())
	assert.NotNil(t, app.PaymentUseCase())
	assert.NotNil(t, app.NotificationUseCase())
	assert.NotNil(t, app.DashboardUseCase())
	assert.NotNil(t, app.ReportUseCase())
	assert.NotNil(t, app.AdminUseCase())

	assert.Error(t, app.Reload(builder{homeLimit: 0}))
	assert.Same(t, first, app.CatalogUseCase(), "failed reload must keep the old ones")
	assert.Error(t, app.Reload(builder{homeLimit: 2, failCart: true}))
	assert.Same(t, first, app.CatalogUseCase())
	assert.Error(t, app.Reload(nil))

	require.NoError(t, app.Reload(builder{homeLimit: 2}))
	assert.NotSame(t, first, app.CatalogUseCase())
}

func TestConcurrentReload(t *testing.T) {
	app := newApp(t)
	require.NoError(t, app.Reload(builder{homeLimit: 1}))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, app.Reload(builder{homeLimit: n + 1}))
		}(i)
		go func() {
			defer wg.Done()
			assert.NotNil(t, app.CartUseCase())
		}()
	}
	wg.Wait()
}
