// Copyright 2026 Agora Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package agora

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func (g *Gateway) setupTracing() error {
	tracerProviderOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceName("agora"),
			),
		),
	}
	// OTLP over HTTP(s), configured via the OTEL_EXPORTER_OTLP_* env vars
	otlpExporter, err := otlptracehttp.New(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	tracerProviderOpts = append(
		tracerProviderOpts,
		sdktrace.WithBatcher(otlpExporter),
	)
	if g.config.tracingStdout {
		stdoutExporter, err := stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		tracerProviderOpts = append(
			tracerProviderOpts,
			sdktrace.WithBatcher(stdoutExporter),
		)
	}
	tracerProvider := sdktrace.NewTracerProvider(tracerProviderOpts...)
	otel.SetTracerProvider(tracerProvider)
	g.shutdownFuncs = append(
		g.shutdownFuncs,
		tracerProvider.Shutdown,
	)
	return nil
}
