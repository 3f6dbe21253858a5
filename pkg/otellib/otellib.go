package otellib

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"

	"github.com/clientdesk/crm-core/config"
)

// InitOtel configures the global tracer provider with a Jaeger exporter.
// The returned shutdown function flushes pending spans.
func InitOtel(serviceName, environment string, conf config.JaegerConfig) (*sdktrace.TracerProvider, func()) {
	if !conf.Enabled {
		provider := sdktrace.NewTracerProvider()
		return provider, func() {}
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(conf.Endpoint)))
	if err != nil {
		panic(err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			attribute.String("environment", environment),
		)),
	)

	shutdown := func() {
		err := provider.Shutdown(context.Background())
		if err != nil {
			zap.L().Error("shutdown tracer provider", zap.Error(err))
		}
	}
	return provider, shutdown
}
