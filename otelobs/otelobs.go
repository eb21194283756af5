// Copyright 2025 The Rivaas Authors
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

// Package otelobs implements router.ObservabilityRecorder on top of
// OpenTelemetry metrics, with a Prometheus exporter by default. It
// records the same built-in HTTP metrics the teacher's router package
// wires directly into its request loop, but through the ObservabilityRecorder
// seam so the Router itself stays transport-agnostic (adapter.go).
package otelobs

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"hostmux.dev/router"
)

// Provider selects which metrics backend a Recorder exports to.
type Provider string

const (
	// PrometheusProvider scrapes metrics via an http.Handler (default).
	PrometheusProvider Provider = "prometheus"
	// StdoutProvider periodically writes metrics to stdout, for local development.
	StdoutProvider Provider = "stdout"
)

// Recorder implements router.ObservabilityRecorder, recording request
// duration, count, active-request, and error-count metrics for every
// domain/route the Router serves.
type Recorder struct {
	serviceName    string
	serviceVersion string
	meterProvider  metric.MeterProvider
	meter          metric.Meter
	promRegistry   *promclient.Registry
	promHandler    http.Handler

	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	errorCount      metric.Int64Counter
}

type requestState struct {
	start      time.Time
	attributes []attribute.KeyValue
	span       trace.Span
}

// Option configures a Recorder.
type Option func(*recorderConfig)

type recorderConfig struct {
	serviceName    string
	serviceVersion string
	provider       Provider
	exportInterval time.Duration
}

// WithServiceName sets the service.name attribute recorded on every metric.
func WithServiceName(name string) Option {
	return func(c *recorderConfig) { c.serviceName = name }
}

// WithServiceVersion sets the service.version attribute recorded on every metric.
func WithServiceVersion(version string) Option {
	return func(c *recorderConfig) { c.serviceVersion = version }
}

// WithProvider selects the metrics exporter. Default: PrometheusProvider.
func WithProvider(p Provider) Option {
	return func(c *recorderConfig) { c.provider = p }
}

// WithExportInterval sets the stdout provider's periodic export interval.
// Ignored by PrometheusProvider, which is pull-based. Default: 30s.
func WithExportInterval(d time.Duration) Option {
	return func(c *recorderConfig) { c.exportInterval = d }
}

// New builds a Recorder and initializes its metrics provider.
//
// Example:
//
//	rec, err := otelobs.New(otelobs.WithServiceName("checkout-api"))
//	r := router.New(router.WithObservability(rec))
//	http.Handle("/metrics", rec.MetricsHandler())
func New(opts ...Option) (*Recorder, error) {
	cfg := &recorderConfig{
		serviceName:    "hostmux-router",
		serviceVersion: "0.1.0",
		provider:       PrometheusProvider,
		exportInterval: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rec := &Recorder{serviceName: cfg.serviceName, serviceVersion: cfg.serviceVersion}

	switch cfg.provider {
	case StdoutProvider:
		if err := rec.initStdout(cfg.exportInterval); err != nil {
			return nil, err
		}
	default:
		if err := rec.initPrometheus(); err != nil {
			return nil, err
		}
	}

	if err := rec.initInstruments(); err != nil {
		return nil, err
	}
	if err := rec.initTracing(); err != nil {
		return nil, err
	}
	return rec, nil
}

// initTracing wires a stdout span exporter behind a batching
// TracerProvider. There is no Prometheus equivalent for traces, so this
// runs unconditionally regardless of Provider — the exported metrics
// backend and the trace backend are independent concerns.
func (r *Recorder) initTracing() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("otelobs: create stdout trace exporter: %w", err)
	}
	r.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	r.tracer = r.tracerProvider.Tracer("hostmux.dev/router")
	return nil
}

// Shutdown flushes and stops the underlying TracerProvider. Callers
// should invoke it during process shutdown so batched spans aren't lost.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.tracerProvider == nil {
		return nil
	}
	return r.tracerProvider.Shutdown(ctx)
}

func (r *Recorder) initPrometheus() error {
	r.promRegistry = promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(r.promRegistry))
	if err != nil {
		return fmt.Errorf("otelobs: create prometheus exporter: %w", err)
	}
	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	r.promHandler = promhttp.HandlerFor(r.promRegistry, promhttp.HandlerOpts{})
	r.meter = r.meterProvider.Meter("hostmux.dev/router")
	return nil
}

func (r *Recorder) initStdout(interval time.Duration) error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("otelobs: create stdout exporter: %w", err)
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))
	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r.meter = r.meterProvider.Meter("hostmux.dev/router")
	return nil
}

func (r *Recorder) initInstruments() error {
	var err error
	if r.requestDuration, err = r.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return fmt.Errorf("otelobs: create request duration histogram: %w", err)
	}
	if r.requestCount, err = r.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return fmt.Errorf("otelobs: create request count counter: %w", err)
	}
	if r.activeRequests, err = r.meter.Int64UpDownCounter(
		"http_requests_active",
		metric.WithDescription("Number of in-flight HTTP requests"),
	); err != nil {
		return fmt.Errorf("otelobs: create active requests gauge: %w", err)
	}
	if r.errorCount, err = r.meter.Int64Counter(
		"http_errors_total",
		metric.WithDescription("Total number of HTTP responses with status >= 400"),
	); err != nil {
		return fmt.Errorf("otelobs: create error count counter: %w", err)
	}
	return nil
}

// MetricsHandler returns the Prometheus scrape endpoint handler. Only
// meaningful when the Recorder was built with PrometheusProvider (the
// default); returns nil otherwise.
func (r *Recorder) MetricsHandler() http.Handler {
	return r.promHandler
}

// OnRequestStart implements router.ObservabilityRecorder.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	state := &requestState{
		start: time.Now(),
		attributes: []attribute.KeyValue{
			attribute.String("http.method", req.Method),
			attribute.String("http.host", req.Host),
			attribute.String("service.name", r.serviceName),
			attribute.String("service.version", r.serviceVersion),
		},
	}
	r.activeRequests.Add(ctx, 1, metric.WithAttributes(state.attributes...))

	ctx, state.span = r.tracer.Start(ctx, req.Method+" "+req.URL.Path)
	state.span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.String()),
		attribute.String("http.host", req.Host),
	)
	return ctx, state
}

// OnRequestEnd implements router.ObservabilityRecorder.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, resp *router.Response, routeName, routePattern string) {
	st, ok := state.(*requestState)
	if !ok {
		return
	}

	attrs := append(append([]attribute.KeyValue{}, st.attributes...),
		attribute.String("route.name", routeName),
		attribute.String("route.pattern", routePattern),
		attribute.Int("http.status_code", resp.Status),
		attribute.String("http.status_class", statusClass(resp.Status)),
	)

	r.requestDuration.Record(ctx, time.Since(st.start).Seconds(), metric.WithAttributes(attrs...))
	r.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	r.activeRequests.Add(ctx, -1, metric.WithAttributes(st.attributes...))
	if resp.Status >= 400 {
		r.errorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if st.span != nil {
		st.span.SetAttributes(
			attribute.String("route.name", routeName),
			attribute.String("route.pattern", routePattern),
			attribute.Int("http.status_code", resp.Status),
		)
		if resp.Status >= 400 {
			st.span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.Status))
		} else {
			st.span.SetStatus(codes.Ok, "")
		}
		st.span.End()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 100 && status < 200:
		return "1xx"
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
