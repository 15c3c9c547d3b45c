// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cataloguc contains the catalog use cases: the public listing
// of services and car parts, their administration (including their
// images), and the periodic low stock check.
package cataloguc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/futuremech/fmweb/pkg/core/storage"
)

// UseCase represents the catalog use cases.
type UseCase struct {
	pool          repo.Pool
	services      repo.Services
	parts         repo.Parts
	notifications repo.Notifications
	files         storage.FileStore

	homeLimit int
	lowStock  *int
}

// New instantiates a catalog use case.
func New(
	p repo.Pool,
	services repo.Services,
	parts repo.Parts,
	notifications repo.Notifications,
	files storage.FileStore,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:          p,
		services:      services,
		parts:         parts,
		notifications: notifications,
		files:         files,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.homeLimit == 0 {
		uc.homeLimit = 6
	}
	if uc.lowStock == nil {
		n := 5
		uc.lowStock = &n
	}
	return uc, nil
}

func (uc *UseCase) listServices(
	ctx context.Context, f model.ServiceFilter,
) (ss []model.Service, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ss, err = uc.services.Conn(c).List(ctx, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	return ss, nil
}

// Home returns the active services of the home page, featured first.
func (uc *UseCase) Home(ctx context.Context) ([]model.Service, error) {
	return uc.listServices(ctx, model.ServiceFilter{
		ActiveOnly: true, FeaturedFirst: true, Limit: uc.homeLimit,
	})
}

// Services returns all active services.
func (uc *UseCase) Services(ctx context.Context) ([]model.Service, error) {
	return uc.listServices(ctx, model.ServiceFilter{ActiveOnly: true})
}

// AllServices returns all services, including the inactive ones.
func (uc *UseCase) AllServices(ctx context.Context) ([]model.Service, error) {
	return uc.listServices(ctx, model.ServiceFilter{})
}

// Parts returns the active parts of the category (if non-empty) whose
// name or description contains search (if non-empty), together with
// the categories of all active parts.
func (uc *UseCase) Parts(
	ctx context.Context, category, search string,
) (*model.PartsPage, error) {
	page := &model.PartsPage{
		Category: strings.TrimSpace(category),
		Search:   strings.TrimSpace(search),
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.parts.Conn(c)
		var err error
		page.Parts, err = q.List(ctx, model.PartFilter{
			ActiveOnly: true, Category: page.Category, Search: page.Search,
		})
		if err != nil {
			return fmt.Errorf("listing parts: %w", err)
		}
		page.Categories, err = q.Categories(ctx)
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// AllParts returns all parts, including the inactive ones.
func (uc *UseCase) AllParts(ctx context.Context) (pp []model.CarPart, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		pp, err = uc.parts.Conn(c).List(ctx, model.PartFilter{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing parts: %w", err)
	}
	return pp, nil
}

// Part returns the id part.
func (uc *UseCase) Part(ctx context.Context, id int64) (p *model.CarPart, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		p, err = uc.parts.Conn(c).ByID(ctx, id)
		return err
	})
	return
}

func (uc *UseCase) saveImage(
	ctx context.Context, bucket string, img *storage.Upload,
) (string, error) {
	if img == nil {
		return "", nil
	}
	path, err := uc.files.SaveUpload(ctx, bucket, img.Name, img.Body)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return "", cerr.BadRequest(err)
	case err != nil:
		return "", fmt.Errorf("saving image: %w", err)
	}
	return path, nil
}

// CreateService validates and stores sv with its optional image.
func (uc *UseCase) CreateService(
	ctx context.Context, sv model.Service, img *storage.Upload,
) (*model.Service, error) {
	if err := sv.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var err error
	if sv.Image, err = uc.saveImage(ctx, storage.BucketServices, img); err != nil {
		return nil, err
	}
	var created *model.Service
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		created, err = uc.services.Conn(c).Create(ctx, &sv)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating service: %w", err)
	}
	log.Info(
		ctx, "service added",
		log.ID("service", created.ID), slog.String("name", created.Name),
	)
	return created, nil
}

// UpdateService replaces the sv.ID service. Its image is kept unless
// a new one is given.
func (uc *UseCase) UpdateService(
	ctx context.Context, sv model.Service, img *storage.Upload,
) (*model.Service, error) {
	if err := sv.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var err error
	if sv.Image, err = uc.saveImage(ctx, storage.BucketServices, img); err != nil {
		return nil, err
	}
	var updated *model.Service
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		updated, err = uc.services.Conn(c).Update(ctx, &sv)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating service %d: %w", sv.ID, err)
	}
	log.Info(ctx, "service updated", log.ID("service", sv.ID))
	return updated, nil
}

// DeleteService removes the id service.
func (uc *UseCase) DeleteService(ctx context.Context, id int64) error {
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.services.Conn(c).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting service %d: %w", id, err)
	}
	log.Info(ctx, "service deleted", log.ID("service", id))
	return nil
}

// CreatePart validates and stores p with its optional image, and
// notifies the admins about the new part.
func (uc *UseCase) CreatePart(
	ctx context.Context, p model.CarPart, img *storage.Upload,
) (*model.CarPart, error) {
	if err := p.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var err error
	if p.Image, err = uc.saveImage(ctx, storage.BucketParts, img); err != nil {
		return nil, err
	}
	var created *model.CarPart
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		created, err = uc.parts.Conn(c).Create(ctx, &p)
		if err != nil {
			return err
		}
		id := created.ID
		_, err := uc.notifications.Conn(c).Create(ctx, &model.Notification{
			Audience:  model.AudienceOf(model.RoleAdmin),
			Type:      model.NotifyInventory,
			Message:   "New car part added: " + created.Name,
			RelatedID: &id,
		})
		if err != nil {
			log.Warn(ctx, "inventory notification failed", log.Err("err", err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating part: %w", err)
	}
	log.Info(
		ctx, "car part added",
		log.ID("part", created.ID), slog.String("name", created.Name),
	)
	return created, nil
}

// UpdatePart replaces the p.ID part. Its image is kept unless a new
// one is given.
func (uc *UseCase) UpdatePart(
	ctx context.Context, p model.CarPart, img *storage.Upload,
) (*model.CarPart, error) {
	if err := p.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var err error
	if p.Image, err = uc.saveImage(ctx, storage.BucketParts, img); err != nil {
		return nil, err
	}
	var updated *model.CarPart
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		updated, err = uc.parts.Conn(c).Update(ctx, &p)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating part %d: %w", p.ID, err)
	}
	log.Info(ctx, "car part updated", log.ID("part", p.ID))
	return updated, nil
}

// DeletePart removes the id part.
func (uc *UseCase) DeletePart(ctx context.Context, id int64) error {
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.parts.Conn(c).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting part %d: %w", id, err)
	}
	log.Info(ctx, "car part deleted", log.ID("part", id))
	return nil
}

// LowStockCheck posts one inventory notification for the admins which
// lists the active parts whose stock is at or below the threshold. It
// returns the number of such parts.
func (uc *UseCase) LowStockCheck(ctx context.Context) (int, error) {
	var low []model.CarPart
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		low, err = uc.parts.Conn(c).LowStock(ctx, *uc.lowStock)
		if err != nil || len(low) == 0 {
			return err
		}
		names := make([]string, 0, len(low))
		for _, p := range low {
			names = append(names, fmt.Sprintf("%s (%d left)", p.Name, p.Stock))
		}
		_, err = uc.notifications.Conn(c).Create(ctx, &model.Notification{
			Audience: model.AudienceOf(model.RoleAdmin),
			Type:     model.NotifyInventory,
			Message:  "Low stock: " + strings.Join(names, ", "),
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("checking low stock: %w", err)
	}
	log.Info(ctx, "low stock checked", slog.Int("parts", len(low)))
	return len(low), nil
}
