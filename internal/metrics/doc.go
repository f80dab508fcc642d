// Package metrics provides the observability hooks of the state store.
//
// # Design Philosophy
//
// This package implements the Null Object pattern so the store and its queues
// can record metrics without nil checks. By default every component uses
// NoopRecorder, whose methods inline to nothing.
//
// # Architecture
//
//  1. Recorder interface - defines all metrics operations
//  2. NoopRecorder - default implementation that does nothing
//  3. PrometheusRecorder - client_golang adapter, exposed through HTTPHandler
//
// # Usage Pattern
//
//	reg := prometheus.NewRegistry()
//	st := store.New(store.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
