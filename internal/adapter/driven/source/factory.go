package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/source/postgrest"
	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/source/sample"
	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/source/sheets"
	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/source/sqlite"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
	"github.com/diillson/sales-dashboard-go/internal/domain/service"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

// Backend names accepted by types.SourceOptions.Kind.
const (
	KindAuto      = "auto"
	KindPostgrest = "postgrest"
	KindSupabase  = "supabase"
	KindSQLite    = "sqlite"
	KindSheets    = "sheets"
	KindSample    = "sample"
)

// Factory opens sources and stores for the dashboard use case.
type Factory struct{}

var _ repository.SourceFactory = Factory{}

// NewFactory cria uma nova fábrica de fontes de dados.
func NewFactory() Factory {
	return Factory{}
}

// OpenSource implements repository.SourceFactory using New.
func (Factory) OpenSource(ctx context.Context, opts types.SourceOptions) (repository.RecordSource, error) {
	src, err := New(ctx, opts)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// OpenPrimary opens the configured backend without fallback or cache. It
// returns a nil source when the resolved backend is sample data.
func (Factory) OpenPrimary(ctx context.Context, opts types.SourceOptions) (repository.RecordSource, error) {
	return openPrimary(ctx, opts)
}

// OpenStore implements repository.SourceFactory using NewStore.
func (Factory) OpenStore(ctx context.Context, opts types.SourceOptions) (repository.RecordStore, error) {
	return NewStore(ctx, opts)
}

// ResolveKind reports the backend the options select once "auto" is resolved.
func (Factory) ResolveKind(opts types.SourceOptions) string {
	return resolveKind(opts)
}

// New builds the read path used by the dashboard: the configured backend,
// wrapped by the sample fallback, wrapped by the TTL cache. A backend that
// cannot be built is reported through Warn and replaced by sample data.
func New(ctx context.Context, s types.SourceOptions) (*CachedSource, error) {
	primary, err := openPrimary(ctx, s)
	if err != nil {
		if errors.Is(err, types.ErrUnsupportedSource) {
			return nil, err
		}
		if s.Warn != nil {
			s.Warn("Could not initialize %s source: %v", s.Kind, err)
		}
		primary = nil
	}

	fallback := NewFallbackSource(primary, sample.NewSource(service.DefaultSampleOptions()), s.Warn)
	return NewCachedSource(fallback, s.CacheTTL), nil
}

// NewStore builds a writable backend for the seed command. Sample data and
// Google Sheets are read only.
func NewStore(ctx context.Context, s types.SourceOptions) (repository.RecordStore, error) {
	switch resolveKind(s) {
	case KindPostgrest:
		return postgrest.New(postgrest.Config{URL: s.Env.SupabaseURL, Key: s.Env.SupabaseKey})
	case KindSQLite:
		return sqlite.Open(sqlitePath(s))
	case KindSheets, KindSample:
		return nil, types.ErrStoreNotWritable
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSource, s.Kind)
	}
}

func openPrimary(ctx context.Context, s types.SourceOptions) (repository.RecordSource, error) {
	switch resolveKind(s) {
	case KindPostgrest:
		return postgrest.New(postgrest.Config{URL: s.Env.SupabaseURL, Key: s.Env.SupabaseKey})
	case KindSQLite:
		return sqlite.Open(sqlitePath(s))
	case KindSheets:
		rng := s.SheetsRange
		if rng == "" {
			rng = s.Env.SheetsRange
		}
		return sheets.New(ctx, s.Env.SpreadsheetID, rng, s.Env.GoogleCredentials)
	case KindSample:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSource, s.Kind)
	}
}

// resolveKind normalizes aliases and resolves "auto" from the environment:
// Supabase, then Google Sheets, then a SQLite path, then sample data.
func resolveKind(s types.SourceOptions) string {
	kind := strings.ToLower(strings.TrimSpace(s.Kind))
	switch kind {
	case "", KindAuto:
		switch {
		case s.Env.HasSupabase():
			return KindPostgrest
		case s.Env.SpreadsheetID != "":
			return KindSheets
		case sqlitePath(s) != "":
			return KindSQLite
		default:
			return KindSample
		}
	case KindSupabase:
		return KindPostgrest
	default:
		return kind
	}
}

func sqlitePath(s types.SourceOptions) string {
	if s.SQLitePath != "" {
		return s.SQLitePath
	}
	return s.Env.SQLitePath
}

// Close releases resources held by the wrapped backend, if any.
func (c *CachedSource) Close() error {
	if closer, ok := c.inner.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Close releases resources held by the primary backend, if any.
func (f *FallbackSource) Close() error {
	if closer, ok := f.primary.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
