package source

import (
	"context"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
)

// WarnFunc receives the message shown when the fallback kicks in.
type WarnFunc func(format string, a ...interface{})

// FallbackSource reads from primary and switches to secondary when primary
// is missing, fails, or returns no rows. Primary errors never reach callers.
type FallbackSource struct {
	primary   repository.RecordSource
	secondary repository.RecordSource
	warn      WarnFunc
}

// NewFallbackSource builds the wrapper. primary may be nil when no backend
// is configured.
func NewFallbackSource(primary, secondary repository.RecordSource, warn WarnFunc) *FallbackSource {
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}
	return &FallbackSource{primary: primary, secondary: secondary, warn: warn}
}

// Name reports the primary backend name when one is configured.
func (f *FallbackSource) Name() string {
	if f.primary == nil {
		return f.secondary.Name()
	}
	return f.primary.Name()
}

func (f *FallbackSource) FetchRecords(ctx context.Context, q entity.Query) ([]entity.Record, error) {
	if f.primary == nil {
		f.warn("No data source configured, using %s data", f.secondary.Name())
		return f.secondary.FetchRecords(ctx, q)
	}

	records, err := f.primary.FetchRecords(ctx, q)
	switch {
	case err != nil:
		f.warn("Error fetching data from %s: %v. Using %s data", f.primary.Name(), err, f.secondary.Name())
	case len(records) == 0:
		f.warn("No data returned from %s, using %s data", f.primary.Name(), f.secondary.Name())
	default:
		return records, nil
	}

	return f.secondary.FetchRecords(ctx, q)
}
