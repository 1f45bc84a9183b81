// Package metrics records build metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost
// nothing unless a PrometheusRecorder is injected:
//
//	recorder := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
//	service := build.NewService(cfg).WithRecorder(recorder)
//
// The Prometheus recorder can be scraped through HTTPHandler while watching,
// or dumped after a one-shot build with WriteTextfile for the node exporter's
// textfile collector.
package metrics
