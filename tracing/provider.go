// Copyright 2025 Kadir Pekel
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

package tracing

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/kadirpekel/debatekit/config"
)

// BuildProvider constructs the TracerProvider for the configured backend
// ("none", "stdout", "otlp", or "langfuse"), per spec §6.2/§6.3. An
// unrecognized or "none" backend, or missing Langfuse credentials, yields
// a disabled Manager rather than an error — tracing is always optional.
func BuildProvider(ctx context.Context, backend string, traceName string) *Manager {
	switch backend {
	case "", "none":
		return NewManager(nil)
	case "stdout":
		return buildStdout(traceName)
	case "otlp":
		return buildOTLP(ctx, traceName, "", "")
	case "langfuse":
		creds, ok := config.LoadLangfuseCredentials()
		if !ok {
			slog.Warn("tracing: langfuse credentials missing, tracing disabled")
			return NewManager(nil)
		}
		auth := base64.StdEncoding.EncodeToString([]byte(creds.PublicKey + ":" + creds.SecretKey))
		return buildOTLPWithAuth(ctx, traceName, creds.BaseURL+"/api/public/otel/v1/traces", auth)
	default:
		slog.Warn("tracing: unrecognized backend, tracing disabled", "backend", backend)
		return NewManager(nil)
	}
}

func buildStdout(traceName string) *Manager {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		slog.Warn("tracing: failed to build stdout exporter, tracing disabled", "error", err)
		return NewManager(nil)
	}
	return NewManager(newProvider(exp, traceName))
}

func buildOTLP(ctx context.Context, traceName, endpoint, auth string) *Manager {
	return buildOTLPWithAuth(ctx, traceName, endpoint, auth)
}

func buildOTLPWithAuth(ctx context.Context, traceName, endpointURL, basicAuth string) *Manager {
	opts := []otlptracehttp.Option{}
	if endpointURL != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(endpointURL))
	}
	if basicAuth != "" {
		opts = append(opts, otlptracehttp.WithHeaders(map[string]string{
			"Authorization": "Basic " + basicAuth,
		}))
	}

	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		slog.Warn("tracing: failed to build otlp exporter, tracing disabled", "error", err)
		return NewManager(nil)
	}
	return NewManager(newProvider(exp, traceName))
}

func newProvider(exp trace.SpanExporter, traceName string) *trace.TracerProvider {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("debatekit"),
		semconv.ServiceVersion(fmt.Sprintf("trace:%s", traceName)),
	)
	return trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
}
