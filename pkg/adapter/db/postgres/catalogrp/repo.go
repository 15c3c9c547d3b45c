// Package catalogrp implements the repo.Services and repo.Parts
// repositories.
package catalogrp

import (
	"context"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

type ServicesRepo struct {
}

func NewServices() *ServicesRepo {
	return &ServicesRepo{}
}

type serviceQueryer[Q postgres.Queryer] struct {
	q Q
}

func (services *ServicesRepo) Conn(c repo.Conn) repo.ServicesQueryer {
	return serviceQueryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (services *ServicesRepo) Tx(tx repo.Tx) repo.ServicesQueryer {
	return serviceQueryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (sq serviceQueryer[Q]) List(ctx context.Context, f model.ServiceFilter) ([]model.Service, error) {
	return ListServices(ctx, sq.q, f)
}

func (sq serviceQueryer[Q]) ByID(ctx context.Context, id int64) (*model.Service, error) {
	return ServiceByID(ctx, sq.q, id)
}

func (sq serviceQueryer[Q]) Create(ctx context.Context, s *model.Service) (*model.Service, error) {
	return CreateService(ctx, sq.q, s)
}

func (sq serviceQueryer[Q]) Update(ctx context.Context, s *model.Service) (*model.Service, error) {
	return UpdateService(ctx, sq.q, s)
}

func (sq serviceQueryer[Q]) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, sq.q, &gService{}, id, "service")
}

type PartsRepo struct {
}

func NewParts() *PartsRepo {
	return &PartsRepo{}
}

type partQueryer[Q postgres.Queryer] struct {
	q Q
}

func (parts *PartsRepo) Conn(c repo.Conn) repo.PartsConnQueryer {
	return partQueryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (parts *PartsRepo) Tx(tx repo.Tx) repo.PartsTxQueryer {
	return partTxQueryer{partQueryer[*postgres.Tx]{q: tx.(*postgres.Tx)}}
}

func (pq partQueryer[Q]) List(ctx context.Context, f model.PartFilter) ([]model.CarPart, error) {
	return ListParts(ctx, pq.q, f)
}

func (pq partQueryer[Q]) Categories(ctx context.Context) ([]string, error) {
	return Categories(ctx, pq.q)
}

func (pq partQueryer[Q]) ByID(ctx context.Context, id int64) (*model.CarPart, error) {
	return PartByID(ctx, pq.q, id)
}

func (pq partQueryer[Q]) ByIDs(ctx context.Context, ids []int64) ([]model.CarPart, error) {
	return PartsByIDs(ctx, pq.q, ids)
}

func (pq partQueryer[Q]) Create(ctx context.Context, p *model.CarPart) (*model.CarPart, error) {
	return CreatePart(ctx, pq.q, p)
}

func (pq partQueryer[Q]) Update(ctx context.Context, p *model.CarPart) (*model.CarPart, error) {
	return UpdatePart(ctx, pq.q, p)
}

func (pq partQueryer[Q]) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, pq.q, &gPart{}, id, "car part")
}

func (pq partQueryer[Q]) LowStock(ctx context.Context, threshold int) ([]model.CarPart, error) {
	return LowStock(ctx, pq.q, threshold)
}

type partTxQueryer struct {
	partQueryer[*postgres.Tx]
}

func (tq partTxQueryer) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	return DecrementStock(ctx, tq.q, id, qty)
}
