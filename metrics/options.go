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

package metrics

import "go.opentelemetry.io/otel/metric"

// Option configures a [Recorder].
type Option func(*Recorder)

// WithServiceName sets the service.name attribute on all recorded metrics.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version attribute on all recorded
// metrics.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithSizeBuckets overrides the body size histogram boundaries.
func WithSizeBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		r.sizeBuckets = buckets
	}
}

// WithMeterProvider uses an existing meter provider instead of the built-in
// Prometheus-backed one. The caller owns its lifecycle; [Recorder.Shutdown]
// leaves it untouched and [Recorder.Handler] is unavailable.
//
// Example:
//
//	recorder, err := metrics.New(metrics.WithMeterProvider(otel.GetMeterProvider()))
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = mp
		r.customMeterProvider = true
	}
}
