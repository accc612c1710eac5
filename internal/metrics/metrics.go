// SPDX-License-Identifier: MIT

// Package metrics counts descriptor writes and exporter runs for one CLI
// invocation and can dump them for the node-exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Result label values.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Metrics owns a private registry. A nil *Metrics records nothing.
type Metrics struct {
	reg *prometheus.Registry

	descriptorsWritten *prometheus.CounterVec
	exportRuns         *prometheus.CounterVec
	exportDuration     prometheus.Histogram
	swfInspections     *prometheus.CounterVec
}

// New registers all instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		descriptorsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uihelper_descriptors_written_total",
			Help: "Total number of UIElements descriptors written, by result.",
		}, []string{"result"}),
		exportRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uihelper_export_runs_total",
			Help: "Total number of GFxExport invocations, by result (ok/error/skipped).",
		}, []string{"result"}),
		exportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "uihelper_export_duration_seconds",
			Help:    "Wall time of GFxExport invocations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		swfInspections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uihelper_swf_inspections_total",
			Help: "Total number of inspected SWF movies, by ActionScript 3 flag.",
		}, []string{"as3"}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// RecordDescriptorWrite counts a descriptor write outcome.
func (m *Metrics) RecordDescriptorWrite(err error) {
	if m == nil {
		return
	}
	m.descriptorsWritten.WithLabelValues(resultOf(err)).Inc()
}

// RecordExport counts an exporter run and observes its duration.
func (m *Metrics) RecordExport(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.exportRuns.WithLabelValues(resultOf(err)).Inc()
	m.exportDuration.Observe(d.Seconds())
}

// RecordExportSkipped counts a project whose export step was disabled.
func (m *Metrics) RecordExportSkipped() {
	if m == nil {
		return
	}
	m.exportRuns.WithLabelValues(ResultSkipped).Inc()
}

// RecordInspection counts an inspected movie.
func (m *Metrics) RecordInspection(as3 bool) {
	if m == nil {
		return
	}
	m.swfInspections.WithLabelValues(fmt.Sprint(as3)).Inc()
}

// Summary is a flat view of the counters for end-of-run reporting.
type Summary struct {
	DescriptorsOK     int
	DescriptorsFailed int
	ExportsOK         int
	ExportsFailed     int
	ExportsSkipped    int
}

// Summary gathers the registry into a Summary.
func (m *Metrics) Summary() (Summary, error) {
	var s Summary
	if m == nil {
		return s, nil
	}
	families, err := m.reg.Gather()
	if err != nil {
		return s, fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			v := int(metric.GetCounter().GetValue())
			result := labelValue(metric, "result")
			switch mf.GetName() {
			case "uihelper_descriptors_written_total":
				switch result {
				case ResultOK:
					s.DescriptorsOK += v
				case ResultError:
					s.DescriptorsFailed += v
				}
			case "uihelper_export_runs_total":
				switch result {
				case ResultOK:
					s.ExportsOK += v
				case ResultError:
					s.ExportsFailed += v
				case ResultSkipped:
					s.ExportsSkipped += v
				}
			}
		}
	}
	return s, nil
}

// WriteTextfile atomically writes the registry in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
