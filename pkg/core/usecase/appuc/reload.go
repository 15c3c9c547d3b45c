// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"errors"
	"fmt"

	"github.com/futuremech/fmweb/pkg/core/usecase/adminuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/authuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/bookinguc"
	"github.com/futuremech/fmweb/pkg/core/usecase/cartuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/cataloguc"
	"github.com/futuremech/fmweb/pkg/core/usecase/dashboarduc"
	"github.com/futuremech/fmweb/pkg/core/usecase/notificationuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/paymentuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/reportuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/vehicleuc"
)

// managedUseCases holds one generation of the use case objects.
type managedUseCases struct {
	auth         *authuc.UseCase
	catalog      *cataloguc.UseCase
	cart         *cartuc.UseCase
	booking      *bookinguc.UseCase
	vehicle      *vehicleuc.UseCase
	payment      *paymentuc.UseCase
	notification *notificationuc.UseCase
	dashboard    *dashboarduc.UseCase
	report       *reportuc.UseCase
	admin        *adminuc.UseCase
}

// Reload uses the b builder in order to create fresh use case objects
// and then publishes them atomically. If any of them fails to be
// created, the previous use case objects are kept in effect.
//
// Reload calls are synchronized using a mutex, while other goroutines
// may fetch the old use case objects without any blocking. A second
// read-write lock is only taken for switching to the new instances.
func (app *UseCase) Reload(b Builder) error {
	if b == nil {
		return errors.New("builder must be non-nil")
	}
	app.mutex.Lock()
	defer app.mutex.Unlock()
	managed, err := app.newManagedUseCases(b)
	if err != nil {
		return fmt.Errorf("creating use cases: %w", err)
	}
	app.updateAll(managed)
	return nil
}

func (app *UseCase) newManagedUseCases(b Builder) (*managedUseCases, error) {
	p, r, d := app.pool, app.repos, app.deps
	m := &managedUseCases{
		admin: adminuc.New(p, r.Users, r.Orders, r.Discounts),
	}
	var err error
	if m.auth, err = b.NewAuthUseCase(p, r, d); err != nil {
		return nil, fmt.Errorf("auth use case: %w", err)
	}
	if m.catalog, err = b.NewCatalogUseCase(p, r, d); err != nil {
		return nil, fmt.Errorf("catalog use case: %w", err)
	}
	if m.cart, err = b.NewCartUseCase(p, r, d); err != nil {
		return nil, fmt.Errorf("cart use case: %w", err)
	}
	if m.booking, err = b.NewBookingUseCase(p, r, d); err != nil {
		return nil, fmt.Errorf("booking use case: %w", err)
	}
	if m.vehicle, err = b.NewVehicleUseCase(p, r, d); err != nil {
		return nil, fmt.Errorf("vehicle use case: %w", err)
	}
	if m.payment, err = b.NewPaymentUseCase(p, r, d); err != nil {
		return nil, fmt.Errorf("payment use case: %w", err)
	}
	if m.notification, err = b.NewNotificationUseCase(p, r, d); err != nil {
		return nil, fmt.Errorf("notification use case: %w", err)
	}
	if m.dashboard, err = b.NewDashboardUseCase(p, r, d); err != nil {
		return nil, fmt.Errorf("dashboard use case: %w", err)
	}
	if m.report, err = b.NewReportUseCase(p, r, d); err != nil {
		return nil, fmt.Errorf("report use case: %w", err)
	}
	return m, nil
}
