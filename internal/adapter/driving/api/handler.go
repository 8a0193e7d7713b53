package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

// DashboardService is the part of the dashboard use case served over HTTP.
type DashboardService interface {
	SourceName() string
	KPIs(ctx context.Context, filter entity.FilterSpec) (entity.KPIs, error)
	Summary(ctx context.Context, filter entity.FilterSpec, keys []entity.GroupKey, metric entity.Metric) (entity.SummaryTable, error)
	BuildArtifact(ctx context.Context, format string, page entity.ReportPage, filter entity.FilterSpec) (entity.Artifact, error)
}

// Handler serves the dashboard routes.
type Handler struct {
	svc      DashboardService
	defaults entity.FilterSpec
}

// NewHandler cria um handler que aplica defaults aos filtros sem parâmetro.
func NewHandler(svc DashboardService, defaults entity.FilterSpec) *Handler {
	return &Handler{svc: svc, defaults: defaults}
}

// Health reports liveness and the active record source.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "source": h.svc.SourceName()})
}

// GetKPIs returns the KPIs of the filtered records.
func (h *Handler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query(), h.defaults)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	kpis, err := h.svc.KPIs(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "failed to compute kpis")
		return
	}
	writeJSON(w, r, http.StatusOK, kpis)
}

// GetSummary groups the filtered records by the "group" keys (default region)
// and sorts them by "metric" (default revenue).
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := parseFilter(query, h.defaults)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var keys []entity.GroupKey
	for _, g := range splitValues(query["group"]) {
		key, err := entity.ParseGroupKey(g)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		keys = []entity.GroupKey{entity.GroupByRegion}
	}

	metric := entity.MetricRevenue
	if m := query.Get("metric"); m != "" {
		if metric, err = entity.ParseMetric(m); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	table, err := h.svc.Summary(r.Context(), filter, keys, metric)
	if err != nil {
		writeError(w, r, err, "failed to summarize records")
		return
	}
	writeJSON(w, r, http.StatusOK, table)
}

// GetExport downloads the filtered records as csv, json or xlsx.
func (h *Handler) GetExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if format == "pdf" {
		http.Error(w, "pdf exports are served by /api/v1/reports/{page}", http.StatusBadRequest)
		return
	}
	h.serveArtifact(w, r, format, "")
}

// GetReport downloads the PDF report for a page.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, "pdf", entity.ReportPage(chi.URLParam(r, "page")))
}

func (h *Handler) serveArtifact(w http.ResponseWriter, r *http.Request, format string, page entity.ReportPage) {
	filter, err := parseFilter(r.URL.Query(), h.defaults)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	artifact, err := h.svc.BuildArtifact(r.Context(), format, page, filter)
	if err != nil {
		writeError(w, r, err, "failed to build artifact")
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	if _, err := w.Write(artifact.Data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("file", artifact.Filename).Msg("failed to write artifact")
	}
}

// parseFilter overrides the defaults with the query parameters that are set.
// List parameters may repeat or hold comma separated values.
func parseFilter(q url.Values, defaults entity.FilterSpec) (entity.FilterSpec, error) {
	spec := defaults

	for name, dst := range map[string]*time.Time{"start": &spec.Start, "end": &spec.End} {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			continue
		}
		t, err := time.Parse(entity.DateLayout, v)
		if err != nil {
			return spec, fmt.Errorf("invalid '%s' date format. Expected format: YYYY-MM-DD", name)
		}
		*dst = t
	}
	if !spec.Start.IsZero() && !spec.End.IsZero() && spec.End.Before(spec.Start) {
		return spec, errors.New("'end' must not be before 'start'")
	}

	if v := splitValues(q["region"]); len(v) > 0 {
		spec.Regions = v
	}
	if v := splitValues(q["product"]); len(v) > 0 {
		spec.Products = v
	}
	if v := splitValues(q["category"]); len(v) > 0 {
		spec.Categories = v
	}

	if v := q.Get("min_revenue"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return spec, fmt.Errorf("invalid 'min_revenue': %q", v)
		}
		spec.MinRevenue = f
	}
	return spec, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, types.ErrUnsupportedFormat), errors.Is(err, types.ErrUnknownPage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, types.ErrSourceNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}
