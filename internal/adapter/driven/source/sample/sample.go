// Package sample serves deterministic synthetic sales data. It backs the
// dashboard when no table service is configured.
package sample

import (
	"context"
	"sync"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/service"
)

// Source serves generated records through the RecordSource port.
type Source struct {
	opts    service.SampleOptions
	once    sync.Once
	records []entity.Record
}

// NewSource cria uma fonte de dados de exemplo.
func NewSource(opts service.SampleOptions) *Source {
	return &Source{opts: opts}
}

func (s *Source) Name() string { return "sample" }

// FetchRecords honors the query ordering and limit. The table name is ignored.
func (s *Source) FetchRecords(ctx context.Context, q entity.Query) ([]entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.once.Do(func() { s.records = service.GenerateSample(s.opts) })

	return q.Apply(s.records), nil
}
