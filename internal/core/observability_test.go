package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()
	rec.Observe(ctx, "load", true, 5*time.Millisecond)
	rec.Observe(ctx, "load", false, 3*time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	snap := rec.Snapshot()
	if snap.Results["load"]["success"] != 1 || snap.Results["load"]["error"] != 1 {
		t.Fatalf("unexpected results %+v", snap.Results)
	}
	if snap.DurationsMS["load"] <= 0 {
		t.Fatalf("duration not accumulated: %+v", snap.DurationsMS)
	}
	if _, ok := snap.Results[""]; ok {
		t.Fatalf("empty operation must be ignored")
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	ctx := context.Background()
	rec.Observe(ctx, "validate", true, 10*time.Millisecond)
	rec.Observe(ctx, "validate", true, 5*time.Millisecond)
	rec.Observe(ctx, "validate", false, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := map[string]bool{}
	for _, fam := range families {
		byName[fam.GetName()] = true
		if fam.GetName() == "studycore_operation_results_total" {
			var total float64
			for _, m := range fam.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			if total != 3 {
				t.Fatalf("expected 3 observations, got %v", total)
			}
		}
	}
	if !byName["studycore_operation_duration_ms_total"] || !byName["studycore_operation_results_total"] {
		t.Fatalf("collectors not registered: %v", byName)
	}

	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestJSONTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "validate")
	span.End(errors.New("schema failure"))

	entries := tracer.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Operation != "validate" || entries[0].Status != "error" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
	if !strings.Contains(buf.String(), `"operation":"validate"`) {
		t.Fatalf("span not written as JSON line: %s", buf.String())
	}
}

func TestSlogLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	logger.Info("validation complete", "warnings", 2)
	if !strings.Contains(buf.String(), "validation complete") || !strings.Contains(buf.String(), "warnings=2") {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func TestNoopLoggerIsSilent(t *testing.T) {
	var logger noopLogger
	logger.Debug("msg")
	logger.Info("msg")
	logger.Warn("msg")
	logger.Error("msg", "key", "value")
}
