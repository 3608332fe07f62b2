package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
)

func TestInitTracer_InstallsProvider(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := InitTracer(context.Background(), "inventory-api-test", "test", "localhost:4317")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	if otel.GetTracerProvider() == before {
		t.Fatal("expected a new global tracer provider")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
