package tracing

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Config struct {
	ServiceName  string
	OTLPEndpoint string
	OTLPProtocol string
	Insecure     bool
}

// NewProvider installs a global tracer provider. With no OTLP endpoint spans are discarded by the console exporter.
func NewProvider(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	var exporter sdktrace.SpanExporter = &exporters.ConsoleExporter{}
	if cfg.OTLPEndpoint != "" {
		otlpConfig := exporters.DefaultOTLPConfig()
		otlpConfig.Endpoint = cfg.OTLPEndpoint
		otlpConfig.Insecure = cfg.Insecure
		if cfg.OTLPProtocol != "" {
			otlpConfig.Protocol = cfg.OTLPProtocol
		}
		otlpExporter, err := exporters.NewOTLPExporter(ctx, otlpConfig)
		if err != nil {
			return nil, err
		}
		exporter = otlpExporter
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	SetTracer(provider.Tracer(cfg.ServiceName))

	return provider, nil
}
