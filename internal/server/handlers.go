package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/waffleviz/waffle/pkg/dataset"
	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/pipeline"
	"github.com/waffleviz/waffle/pkg/render"
)

// contentTypes maps artifact formats onto response content types.
var contentTypes = map[string]string{
	render.FormatSVG:  "image/svg+xml",
	render.FormatPNG:  "image/png",
	render.FormatPDF:  "application/pdf",
	render.FormatJSON: "application/json",
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Dataset CRUD
// =============================================================================

func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	var ds dataset.Dataset
	if err := json.NewDecoder(r.Body).Decode(&ds); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	rec, err := s.store.Put(r.Context(), ds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"datasets": recs})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Charts
// =============================================================================

// handleDatasetChart renders a stored dataset with styling taken from
// query parameters.
func (s *Server) handleDatasetChart(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := chartOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Dataset = &rec.Dataset
	s.renderChart(w, r, opts)
}

// chartRequest is the body for POST /api/charts.
type chartRequest struct {
	Dataset dataset.Dataset  `json:"dataset"`
	Options pipeline.Options `json:"options"`
}

// handleInlineChart renders a dataset supplied in the request body,
// without storing it.
func (s *Server) handleInlineChart(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	opts := req.Options
	opts.Dataset = &req.Dataset
	s.renderChart(w, r, opts)
}

// renderChart runs the pipeline for a single format and writes the raw
// artifact bytes. The X-Cache header reports whether the artifact came
// out of the render cache.
func (s *Server) renderChart(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	// Charts are always rendered from the in-memory dataset. A source
	// path in the request must never reach the pipeline, or clients
	// could read files from the server.
	opts.Source = ""

	if len(opts.Formats) > 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"chart endpoints render a single format, got %d", len(opts.Formats)))
		return
	}
	format := pipeline.DefaultFormat
	if len(opts.Formats) == 1 {
		format = strings.ToLower(opts.Formats[0])
		opts.Formats[0] = format
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	artifact, ok := result.Artifacts[format]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInternal, "missing %s artifact", format))
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact); err != nil {
		s.logger.Error("write artifact", "error", err)
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Query Parameters
// =============================================================================

// chartOptions builds pipeline options from chart query parameters.
// Parameter names match the JSON field names of pipeline.Options.
func chartOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error

	if v := q.Get("format"); v != "" {
		opts.Formats = []string{v}
	}
	if opts.Width, err = intParam(q, "width"); err != nil {
		return opts, err
	}
	if opts.Height, err = intParam(q, "height"); err != nil {
		return opts, err
	}
	if opts.MaxScaleSteps, err = intParam(q, "max_scale_steps"); err != nil {
		return opts, err
	}
	if opts.Vertical, err = boolParam(q, "vertical"); err != nil {
		return opts, err
	}
	if opts.NoAutoscale, err = boolParam(q, "no_autoscale"); err != nil {
		return opts, err
	}
	if opts.OverRepresent, err = boolParam(q, "over_represent"); err != nil {
		return opts, err
	}
	if opts.NoLegend, err = boolParam(q, "no_legend"); err != nil {
		return opts, err
	}
	if opts.ShowValues, err = boolParam(q, "show_values"); err != nil {
		return opts, err
	}
	if opts.ShowPercents, err = boolParam(q, "show_percents"); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam(q, "scale"); err != nil {
		return opts, err
	}

	opts.Palette = q.Get("palette")
	if v := q.Get("colors"); v != "" {
		opts.Colors = strings.Split(v, ",")
	}
	opts.Background = q.Get("background")
	opts.ValueSign = q.Get("value_sign")
	opts.Title = q.Get("title")

	return opts, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, v)
	}
	return n, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, v)
	}
	return b, nil
}

func floatParam(q url.Values, name string) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, v)
	}
	return f, nil
}
