// Package metrics holds the prometheus instrumentation of the dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// namespace is the prometheus namespace for all metrics
	namespace = "logdash"
	// channelLabel is the bus channel a message arrived on
	channelLabel = "channel"

	messagesReceivedMetricName = "messages_received_total"
	parseErrorsMetricName      = "parse_errors_total"
	unknownChannelMetricName   = "unknown_channel_messages_total"
	recordsAdmittedMetricName  = "records_admitted_total"
	recordsFilteredMetricName  = "records_filtered_total"
	statsUpdatesMetricName     = "stats_updates_total"
	rendersMetricName          = "renders_total"
	bufferedRecordsMetricName  = "buffered_records"
)

// Metrics is the set of dashboard counters and gauges
type Metrics struct {
	// messagesReceived counts bus messages per channel, parsed or not
	messagesReceived *prometheus.CounterVec
	// parseErrors counts payloads dropped because they failed to decode
	parseErrors *prometheus.CounterVec
	// unknownChannel counts messages on channels the dashboard does not consume
	unknownChannel prometheus.Counter
	// recordsAdmitted counts records added to the log window
	recordsAdmitted prometheus.Counter
	// recordsFiltered counts records rejected by the active filter
	recordsFiltered prometheus.Counter
	// statsUpdates counts accepted statistics snapshots
	statsUpdates prometheus.Counter
	// renders counts frames handed to the renderer
	renders prometheus.Counter
	// bufferedRecords is the number of records in the log window at the last render
	bufferedRecords prometheus.Gauge
}

// Register creates the dashboard metrics and registers them with reg
func Register(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      messagesReceivedMetricName,
			Help:      "Number of bus messages received, by channel.",
		}, []string{channelLabel}),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      parseErrorsMetricName,
			Help:      "Number of bus messages dropped because the payload could not be decoded.",
		}, []string{channelLabel}),
		unknownChannel: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      unknownChannelMetricName,
			Help:      "Number of bus messages on unrecognized channels.",
		}),
		recordsAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      recordsAdmittedMetricName,
			Help:      "Number of log records admitted to the window.",
		}),
		recordsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      recordsFilteredMetricName,
			Help:      "Number of log records rejected by the filter.",
		}),
		statsUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      statsUpdatesMetricName,
			Help:      "Number of statistics snapshots applied.",
		}),
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      rendersMetricName,
			Help:      "Number of frames rendered.",
		}),
		bufferedRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      bufferedRecordsMetricName,
			Help:      "Number of log records held in the window.",
		}),
	}

	reg.MustRegister(m.messagesReceived)
	reg.MustRegister(m.parseErrors)
	reg.MustRegister(m.unknownChannel)
	reg.MustRegister(m.recordsAdmitted)
	reg.MustRegister(m.recordsFiltered)
	reg.MustRegister(m.statsUpdates)
	reg.MustRegister(m.renders)
	reg.MustRegister(m.bufferedRecords)

	return m
}

// NewRegistry returns a registry with the go runtime collectors enabled
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the metrics gathered by g in the exposition format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// MessageReceived records a bus message on channel
func (m *Metrics) MessageReceived(channel string) {
	m.messagesReceived.With(prometheus.Labels{channelLabel: channel}).Inc()
}

// ParseError records a dropped payload on channel
func (m *Metrics) ParseError(channel string) {
	m.parseErrors.With(prometheus.Labels{channelLabel: channel}).Inc()
}

// UnknownChannel records a message on an unrecognized channel
func (m *Metrics) UnknownChannel() {
	m.unknownChannel.Inc()
}

// RecordIngested records the filter outcome for one decoded record
func (m *Metrics) RecordIngested(admitted bool) {
	if admitted {
		m.recordsAdmitted.Inc()
		return
	}
	m.recordsFiltered.Inc()
}

// StatsUpdated records an applied statistics snapshot
func (m *Metrics) StatsUpdated() {
	m.statsUpdates.Inc()
}

// Rendered records a frame and the window size it showed
func (m *Metrics) Rendered(buffered int) {
	m.renders.Inc()
	m.bufferedRecords.Set(float64(buffered))
}
