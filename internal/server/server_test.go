package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"

	"github.com/waffleviz/waffle/pkg/cache"
	"github.com/waffleviz/waffle/pkg/store"
)

const testDatasetJSON = `{
	"title": "Browser market share",
	"categories": [
		{"label": "Chrome", "value": 65},
		{"label": "Safari", "value": 20},
		{"label": "Other", "value": 15}
	]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func createDataset(t *testing.T, s *Server) *store.Record {
	t.Helper()
	rr := do(t, s, http.MethodPost, "/api/datasets", testDatasetJSON)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create dataset status = %d, body %s", rr.Code, rr.Body.String())
	}
	rec := &store.Record{}
	if err := json.Unmarshal(rr.Body.Bytes(), rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return rec
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "ok") {
		t.Errorf("healthz body = %q, want it to contain %q", rr.Body.String(), "ok")
	}
}

func TestDatasetLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := createDataset(t, s)
	if rec.ID == "" {
		t.Fatal("created record has empty ID")
	}
	if rec.Dataset.Title != "Browser market share" {
		t.Errorf("Title = %q, want %q", rec.Dataset.Title, "Browser market share")
	}

	rr := do(t, s, http.MethodGet, "/api/datasets", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var list struct {
		Datasets []store.Record `json:"datasets"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Datasets) != 1 || list.Datasets[0].ID != rec.ID {
		t.Errorf("list = %+v, want one record with ID %s", list.Datasets, rec.ID)
	}

	rr = do(t, s, http.MethodGet, "/api/datasets/"+rec.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	rr = do(t, s, http.MethodDelete, "/api/datasets/"+rec.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = do(t, s, http.MethodGet, "/api/datasets/"+rec.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if code := errorCode(t, rr); code != "DATASET_NOT_FOUND" {
		t.Errorf("error code = %q, want DATASET_NOT_FOUND", code)
	}
}

func TestCreateDatasetInvalid(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed json", `{not json`, "INVALID_INPUT"},
		{"no categories", `{"title": "empty", "categories": []}`, "INVALID_DATASET"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, "/api/datasets", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if code := errorCode(t, rr); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestDatasetChart(t *testing.T) {
	s := newTestServer(t)
	rec := createDataset(t, s)

	rr := do(t, s, http.MethodGet, "/api/datasets/"+rec.ID+"/chart?width=5&height=4", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("chart status = %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if got := rr.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<svg") {
		t.Error("chart body is not SVG")
	}
	if !strings.Contains(body, "Browser market share") {
		t.Error("chart is missing the dataset title")
	}
}

func TestDatasetChartFormats(t *testing.T) {
	s := newTestServer(t)
	rec := createDataset(t, s)
	base := "/api/datasets/" + rec.ID + "/chart"

	t.Run("svg", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, base+"?format=svg", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		if !strings.HasPrefix(rr.Body.String(), "<?xml") {
			t.Error("svg artifact missing xml header")
		}
	})

	t.Run("png", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, base+"?format=png", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Content-Type = %q, want image/png", ct)
		}
		if !bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")) {
			t.Error("png artifact missing PNG signature")
		}
	})

	t.Run("json", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, base+"?format=json&width=5&height=4", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		var scene struct {
			Grid struct {
				Width  int `json:"width"`
				Height int `json:"height"`
			} `json:"grid"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &scene); err != nil {
			t.Fatalf("decode scene: %v", err)
		}
		if scene.Grid.Width != 5 || scene.Grid.Height != 4 {
			t.Errorf("grid = %dx%d, want 5x4", scene.Grid.Width, scene.Grid.Height)
		}
	})

	t.Run("pdf", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, base+"?format=pdf", "")
		if _, err := exec.LookPath("rsvg-convert"); err != nil {
			if rr.Code != http.StatusNotImplemented {
				t.Fatalf("status without converter = %d, want %d", rr.Code, http.StatusNotImplemented)
			}
			return
		}
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
			t.Error("pdf artifact missing PDF header")
		}
	})
}

func TestDatasetChartNoLegend(t *testing.T) {
	s := newTestServer(t)
	rec := createDataset(t, s)

	rr := do(t, s, http.MethodGet, "/api/datasets/"+rec.ID+"/chart?format=json&no_legend=true", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var scene struct {
		Categories []struct {
			LegendLabel string `json:"legend_label"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &scene); err != nil {
		t.Fatalf("decode scene: %v", err)
	}
	if len(scene.Categories) == 0 {
		t.Fatal("scene has no categories")
	}
	if scene.Categories[0].LegendLabel != "" {
		t.Errorf("legend label = %q, want empty with no_legend", scene.Categories[0].LegendLabel)
	}
}

func TestDatasetChartErrors(t *testing.T) {
	s := newTestServer(t)
	rec := createDataset(t, s)
	base := "/api/datasets/" + rec.ID + "/chart"

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"unknown dataset", "/api/datasets/nope/chart", http.StatusNotFound, "DATASET_NOT_FOUND"},
		{"bad format", base + "?format=gif", http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad width", base + "?width=abc", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad bool", base + "?vertical=maybe", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown palette", base + "?palette=nope", http.StatusBadRequest, "INVALID_PALETTE"},
		{"bad color", base + "?colors=red,notacolor", http.StatusBadRequest, "INVALID_COLOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodGet, tt.path, "")
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if code := errorCode(t, rr); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestInlineChart(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"dataset": ` + testDatasetJSON + `,
		"options": {"width": 5, "height": 4}
	}`
	rr := do(t, s, http.MethodPost, "/api/charts", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.Contains(rr.Body.String(), "<svg") {
		t.Error("inline chart body is not SVG")
	}
}

func TestInlineChartErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			"multiple formats",
			`{"dataset": ` + testDatasetJSON + `, "options": {"formats": ["svg", "png"]}}`,
			http.StatusBadRequest,
			"INVALID_INPUT",
		},
		{
			"missing dataset",
			`{"options": {"width": 5}}`,
			http.StatusBadRequest,
			"INVALID_DATASET",
		},
		{
			// A source path in the options must not make the server
			// read local files.
			"source ignored",
			`{"options": {"source": "go.mod"}}`,
			http.StatusBadRequest,
			"INVALID_DATASET",
		},
		{
			"scale limit",
			`{
				"dataset": {"categories": [
					{"label": "tiny", "value": 1},
					{"label": "huge", "value": 1000000000}
				]},
				"options": {"width": 2, "height": 2, "max_scale_steps": 2}
			}`,
			http.StatusUnprocessableEntity,
			"SCALE_LIMIT_EXCEEDED",
		},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, "/api/charts", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if code := errorCode(t, rr); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestChartCacheHeader(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	s := New(Config{Cache: fc})
	rec := createDataset(t, s)
	path := "/api/datasets/" + rec.ID + "/chart?width=5&height=4"

	first := do(t, s, http.MethodGet, path, "")
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}
	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}

	second := do(t, s, http.MethodGet, path, "")
	if second.Code != http.StatusOK {
		t.Fatalf("second request status = %d", second.Code)
	}
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached artifact differs from rendered artifact")
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/healthz", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("response is missing X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want the inbound ID preserved", got)
	}
}

func TestRecovererMiddleware(t *testing.T) {
	s := newTestServer(t)

	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if code := errorCode(t, rr); code != "INTERNAL_ERROR" {
		t.Errorf("error code = %q, want INTERNAL_ERROR", code)
	}
}
