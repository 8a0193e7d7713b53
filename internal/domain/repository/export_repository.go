package repository

import (
	"context"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

// ExportRepository encodes dashboard data into downloadable formats.
// Implementations return bytes and never touch the filesystem.
type ExportRepository interface {
	EncodeCSV(records []entity.Record) ([]byte, error)
	EncodeJSON(records []entity.Record, kpis entity.KPIs) ([]byte, error)
	EncodeWorkbook(records []entity.Record, kpis entity.KPIs) ([]byte, error)
	EncodePDF(doc entity.ReportDocument) ([]byte, error)
}

// ChartRepository rasterizes charts for embedding in reports.
type ChartRepository interface {
	RenderPNG(spec entity.ChartSpec) ([]byte, error)
}

// ArtifactSink persists an encoded artifact and returns where it was stored.
type ArtifactSink interface {
	Save(ctx context.Context, artifact entity.Artifact) (string, error)
}

// SinkFactory builds the sink for an output target.
type SinkFactory interface {
	NewSink(target types.OutputTarget) ArtifactSink
}
