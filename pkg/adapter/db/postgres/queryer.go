package postgres

import (
	"context"

	"github.com/futuremech/fmweb/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the type constraint of the generic query functions of
// the repository packages, so they can run on a Conn or a Tx.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}
