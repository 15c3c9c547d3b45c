// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
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

// updateAll atomically replaces the use case objects. This method
// minimizes the scope which needs to take a writing lock (after
// instantiating all relevant use case objects).
func (app *UseCase) updateAll(m *managedUseCases) {
	app.rwlock.Lock()
	defer app.rwlock.Unlock()
	app.managed = m
}

func (app *UseCase) current() *managedUseCases {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	if app.managed == nil {
		return &managedUseCases{}
	}
	return app.managed
}

// The following getters return the currently effective use case
// objects. Callers should fetch them right before each use, instead
// of keeping them, so a Reload can take effect.

func (app *UseCase) AuthUseCase() *authuc.UseCase {
	return app.current().auth
}

func (app *UseCase) CatalogUseCase() *cataloguc.UseCase {
	return app.current().catalog
}

func (app *UseCase) CartUseCase() *cartuc.UseCase {
	return app.current().cart
}

func (app *UseCase) BookingUseCase() *bookinguc.UseCase {
	return app.current().booking
}

func (app *UseCase) VehicleUseCase() *vehicleuc.UseCase {
	return app.current().vehicle
}

func (app *UseCase) PaymentUseCase() *paymentuc.UseCase {
	return app.current().payment
}

func (app *UseCase) NotificationUseCase() *notificationuc.UseCase {
	return app.current().notification
}

func (app *UseCase) DashboardUseCase() *dashboarduc.UseCase {
	return app.current().dashboard
}

func (app *UseCase) ReportUseCase() *reportuc.UseCase {
	return app.current().report
}

func (app *UseCase) AdminUseCase() *adminuc.UseCase {
	return app.current().admin
}
