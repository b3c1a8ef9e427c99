// Package repository is the generic record-access layer: typed CRUD against
// named tables, with filters, ordering and paging supplied as query options.
package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lancekit/lancekit/pkg/db/option"
	"gorm.io/gorm"
)

type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]

	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Count(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error)

	Create(ctx context.Context, resource *T) error
	BatchCreate(ctx context.Context, resources []*T) error

	// Update writes only the listed columns; an empty allowlist writes every
	// non-zero field of values.
	Update(ctx context.Context, id snowflake.ID, values any, columns ...string) error
	Delete(ctx context.Context, id snowflake.ID) error
}
