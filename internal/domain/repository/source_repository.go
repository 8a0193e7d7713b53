package repository

import (
	"context"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

// RecordSource defines the read side of the sales table service.
type RecordSource interface {
	// Name identifies the backend in logs and warnings.
	Name() string
	FetchRecords(ctx context.Context, q entity.Query) ([]entity.Record, error)
}

// RecordStore is a source that can also be populated, used by the seed command.
type RecordStore interface {
	RecordSource
	InsertRecords(ctx context.Context, table string, records []entity.Record, batchSize int) (int, error)
	ClearRecords(ctx context.Context, table string) error
	CountRecords(ctx context.Context, table string) (int, error)
}

// SourceFactory opens the configured backend once options are resolved.
type SourceFactory interface {
	// OpenSource returns the cached read path with sample fallback.
	OpenSource(ctx context.Context, opts types.SourceOptions) (RecordSource, error)
	// OpenPrimary returns the bare backend, nil when it resolves to sample data.
	OpenPrimary(ctx context.Context, opts types.SourceOptions) (RecordSource, error)
	OpenStore(ctx context.Context, opts types.SourceOptions) (RecordStore, error)
	ResolveKind(opts types.SourceOptions) string
}
