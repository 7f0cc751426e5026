package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.PopulateRunsTotal == nil {
		t.Error("PopulateRunsTotal not initialized")
	}
	if r.MeasureDuration == nil {
		t.Error("MeasureDuration not initialized")
	}
	if r.GraphNodesTotal == nil {
		t.Error("GraphNodesTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestRecordPopulate(t *testing.T) {
	r := NewRegistry()

	r.RecordPopulate(nil, 20*time.Millisecond, 6, 7, 1)
	r.RecordPopulate(errors.New("worker failed"), time.Millisecond, 100, 0, 0)

	success, err := r.PopulateRunsTotal.GetMetricWithLabelValues(StatusSuccess)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, success); v != 1 {
		t.Errorf("success runs = %v, want 1", v)
	}

	failed, err := r.PopulateRunsTotal.GetMetricWithLabelValues(StatusError)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, failed); v != 1 {
		t.Errorf("error runs = %v, want 1", v)
	}

	// Failed runs contribute no pairs
	if v := counterValue(t, r.PopulatePairsTotal); v != 6 {
		t.Errorf("pairs = %v, want 6", v)
	}
	if v := counterValue(t, r.DisconnectedPairsTotal); v != 1 {
		t.Errorf("disconnected = %v, want 1", v)
	}
	if v := gaugeValue(t, r.CachedPathsTotal); v != 7 {
		t.Errorf("cached paths = %v, want 7", v)
	}
}

func TestRecordChunk(t *testing.T) {
	r := NewRegistry()
	r.RecordChunk(time.Millisecond)
	r.RecordChunk(2 * time.Millisecond)

	if v := counterValue(t, r.PopulateChunksTotal); v != 2 {
		t.Errorf("chunks = %v, want 2", v)
	}
}

func TestRecordMeasure(t *testing.T) {
	r := NewRegistry()

	r.RecordMeasure("closeness", nil, 5*time.Millisecond, 2)
	r.RecordMeasure("closeness", errors.New("cancelled"), time.Millisecond, 0)

	ok, _ := r.MeasuresTotal.GetMetricWithLabelValues("closeness", StatusSuccess)
	if v := counterValue(t, ok); v != 1 {
		t.Errorf("closeness success = %v, want 1", v)
	}
	undefined, _ := r.UndefinedScoresTotal.GetMetricWithLabelValues("closeness")
	if v := counterValue(t, undefined); v != 2 {
		t.Errorf("undefined = %v, want 2", v)
	}
}

func TestRecordGraphAndSystem(t *testing.T) {
	r := NewRegistry()
	r.RecordGraph(4, 5)
	r.UpdateSystemMetrics(time.Now().Add(-time.Second))

	if v := gaugeValue(t, r.GraphNodesTotal); v != 4 {
		t.Errorf("nodes = %v, want 4", v)
	}
	if v := gaugeValue(t, r.GraphEdgesTotal); v != 5 {
		t.Errorf("edges = %v, want 5", v)
	}
	if v := gaugeValue(t, r.GoRoutines); v < 1 {
		t.Errorf("goroutines = %v", v)
	}
	if v := gaugeValue(t, r.UptimeSeconds); v < 1 {
		t.Errorf("uptime = %v, want >= 1", v)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordGraph(3, 2)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "centrality_graph_nodes 3") {
		t.Errorf("exposition missing graph gauge:\n%s", body)
	}
}
