package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/metrics"
)

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(requestIDHeader)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get(requestIDHeader) != "abc-123" {
		t.Fatalf("expected echoed id, got %q", rec.Header().Get(requestIDHeader))
	}
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestMetricsObservesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/42", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "route" && label.GetValue() == "/api/products/{id}" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatal("expected route label with pattern")
	}
}

func TestLoggingRecordsRouteStatusAndLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("info"), Output: buf})

	r := chi.NewRouter()
	r.Use(Logging(logg))
	r.Get("/api/pets/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/pets/7", nil))
	line := buf.String()
	for _, want := range []string{`"route":"/api/pets/{id}"`, `"status":200`, `"bytes":2`, `"level":"info"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/broken", nil))
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("expected warn level for 502, got %s", buf.String())
	}
}
