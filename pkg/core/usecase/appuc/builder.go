// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/futuremech/fmweb/pkg/core/repo"
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

// Builder interface represents the expectations from the application
// use case builders. All use cases which take settings from the
// configuration file have one NewX method here which takes the
// database connection pool, the repositories, and the external
// collaborators. The configuration struct implements this interface
// and passes its settings as functional options to the use case
// constructors. When the configuration file is loaded again, a new
// Builder is obtained and passed to Reload.
type Builder interface {
	NewAuthUseCase(p repo.Pool, r *Repos, d *Deps) (*authuc.UseCase, error)
	NewCatalogUseCase(p repo.Pool, r *Repos, d *Deps) (
		*cataloguc.UseCase, error,
	)
	NewCartUseCase(p repo.Pool, r *Repos, d *Deps) (*cartuc.UseCase, error)
	NewBookingUseCase(p repo.Pool, r *Repos, d *Deps) (
		*bookinguc.UseCase, error,
	)
	NewVehicleUseCase(p repo.Pool, r *Repos, d *Deps) (
		*vehicleuc.UseCase, error,
	)
	NewPaymentUseCase(p repo.Pool, r *Repos, d *Deps) (
		*paymentuc.UseCase, error,
	)
	NewNotificationUseCase(p repo.Pool, r *Repos, d *Deps) (
		*notificationuc.UseCase, error,
	)
	NewDashboardUseCase(p repo.Pool, r *Repos, d *Deps) (
		*dashboarduc.UseCase, error,
	)
	NewReportUseCase(p repo.Pool, r *Repos, d *Deps) (
		*reportuc.UseCase, error,
	)
}
