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

// Package metrics provides OpenTelemetry instrumentation for
// rivaas.dev/payload decode pipelines.
//
// A [Recorder] owns the meter and instruments; its [Recorder.Events] method
// produces a payload.Events value that records every decode outcome:
//
//	recorder := metrics.MustNew(metrics.WithServiceName("user-api"))
//	defer recorder.Shutdown(context.Background())
//
//	user, err := payload.FromRequest(r, parser,
//	    payload.WithEvents(recorder.Events()))
//
// By default the Recorder backs its meter with a Prometheus exporter on a
// private registry; serve [Recorder.Handler] to expose it. Pass
// [WithMeterProvider] to plug into an existing OpenTelemetry setup instead —
// the Recorder then never touches Prometheus and leaves provider lifecycle
// to the caller.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/payload"
)

// DefaultSizeBuckets are histogram boundaries for body size in bytes.
// Covers 100B to 10MB.
var DefaultSizeBuckets = []float64{100, 1000, 10000, 100000, 1000000, 10000000}

// Recorder holds OpenTelemetry instruments for decode pipelines.
// All methods are safe for concurrent use.
type Recorder struct {
	meterProvider      metric.MeterProvider
	meter              metric.Meter
	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler

	decodeCount metric.Int64Counter
	rejectCount metric.Int64Counter
	bodySize    metric.Int64Histogram
	bodyChunks  metric.Int64Histogram

	serviceName    string
	serviceVersion string
	sizeBuckets    []float64

	customMeterProvider bool

	serviceNameAttr    attribute.KeyValue
	serviceVersionAttr attribute.KeyValue
}

// New creates a [Recorder] with the given options.
// Returns an error if the exporter or instruments fail to initialize.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		serviceName:    "payload",
		serviceVersion: "1.0.0",
		sizeBuckets:    DefaultSizeBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.serviceName == "" {
		return nil, fmt.Errorf("service name cannot be empty")
	}
	if r.customMeterProvider && r.meterProvider == nil {
		return nil, fmt.Errorf("custom meter provider is nil")
	}

	r.serviceNameAttr = attribute.String("service.name", r.serviceName)
	r.serviceVersionAttr = attribute.String("service.version", r.serviceVersion)

	if !r.customMeterProvider {
		if err := r.initPrometheusProvider(); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	r.meter = r.meterProvider.Meter("rivaas.dev/payload/metrics")
	if err := r.initInstruments(); err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}

	return r, nil
}

// MustNew creates a [Recorder] with the given options.
// It panics if initialization fails.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize metrics: %v", err))
	}

	return r
}

// initPrometheusProvider backs the meter with a Prometheus exporter on a
// private registry, avoiding conflicts with the global one.
func (r *Recorder) initPrometheusProvider() error {
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	r.prometheusHandler = promhttp.HandlerFor(
		r.prometheusRegistry,
		promhttp.HandlerOpts{},
	)

	return nil
}

func (r *Recorder) initInstruments() error {
	var err error

	r.decodeCount, err = r.meter.Int64Counter(
		"payload.decode.count",
		metric.WithDescription("Number of completed decode attempts"),
		metric.WithUnit("{decode}"),
	)
	if err != nil {
		return err
	}

	r.rejectCount, err = r.meter.Int64Counter(
		"payload.decode.rejections",
		metric.WithDescription("Number of rejected decode attempts by kind"),
		metric.WithUnit("{decode}"),
	)
	if err != nil {
		return err
	}

	r.bodySize, err = r.meter.Int64Histogram(
		"payload.body.size",
		metric.WithDescription("Size of accepted bodies in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	)
	if err != nil {
		return err
	}

	r.bodyChunks, err = r.meter.Int64Histogram(
		"payload.body.chunks",
		metric.WithDescription("Number of chunks per accepted body"),
		metric.WithUnit("{chunk}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Events returns a payload.Events value that records decode outcomes on
// this Recorder. Pass it to payload.WithEvents.
func (r *Recorder) Events() payload.Events {
	return payload.Events{
		Rejected: r.recordRejected,
		Done:     r.recordDone,
	}
}

func (r *Recorder) recordRejected(kind payload.Kind) {
	r.rejectCount.Add(context.Background(), 1, metric.WithAttributes(
		r.serviceNameAttr,
		r.serviceVersionAttr,
		attribute.String("kind", kind.String()),
	))
}

// recordDone fires once per decode, accepted or not; successful decodes are
// payload.decode.count minus the sum of payload.decode.rejections.
func (r *Recorder) recordDone(stats payload.Stats) {
	attrs := metric.WithAttributes(
		r.serviceNameAttr,
		r.serviceVersionAttr,
	)

	r.decodeCount.Add(context.Background(), 1, attrs)
	r.bodySize.Record(context.Background(), int64(stats.BytesRead), attrs)
	r.bodyChunks.Record(context.Background(), int64(stats.Chunks), attrs)
}

// Handler returns the Prometheus metrics [http.Handler].
// Returns an error when a custom meter provider is in use.
//
// Example:
//
//	handler, err := recorder.Handler()
//	if err == nil {
//	    http.Handle("/metrics", handler)
//	}
func (r *Recorder) Handler() (http.Handler, error) {
	if r.prometheusHandler == nil {
		return nil, fmt.Errorf("handler only available with the built-in Prometheus provider")
	}

	return r.prometheusHandler, nil
}

// ServiceName returns the service name.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// Shutdown flushes and shuts down the built-in meter provider.
// Custom meter providers are managed by the caller and left untouched.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.customMeterProvider {
		return nil
	}

	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}

	if err := mp.ForceFlush(ctx); err != nil {
		return fmt.Errorf("metrics flush: %w", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}

	return nil
}
