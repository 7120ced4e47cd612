package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestInitTracer(t *testing.T) {
	ctx := context.Background()

	// The OTLP exporter connects lazily, so initialization succeeds without a
	// collector listening.
	tp, err := InitTracer(ctx, "localhost:4318")
	if err != nil {
		t.Fatalf("InitTracer failed: %v", err)
	}
	if tp == nil {
		t.Fatal("Expected a tracer provider")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = tp.Shutdown(shutdownCtx)
}
