package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestInitWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := Init(context.Background(), "liquidity", "test", "")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	_, span := otel.Tracer("liquidity/test").Start(context.Background(), "refresh")
	if !span.SpanContext().IsValid() {
		t.Error("Expected the SDK tracer provider to produce valid spans")
	}
	span.End()

	if _, ok := otel.GetMeterProvider().(*sdkmetric.MeterProvider); !ok {
		t.Errorf("Expected an SDK meter provider, got %T", otel.GetMeterProvider())
	}

	counter, err := otel.Meter("liquidity/test").Int64Counter("liquidity.test.count")
	if err != nil {
		t.Fatalf("Counter creation failed: %v", err)
	}
	counter.Add(context.Background(), 1)

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}
