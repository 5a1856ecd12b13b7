package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered returns the value of every sample keyed by metric name and label values
func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			key := mf.GetName()
			for _, label := range metric.GetLabel() {
				key += "{" + label.GetName() + "=" + label.GetValue() + "}"
			}
			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			}
		}
	}
	return out
}

func TestRegisterOnlyUnlabelledMetricsAtStart(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	// Vectors have no children until first use
	assert.Len(t, families, 6)
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Register(reg)

	m.MessageReceived("logs.ingest")
	m.MessageReceived("logs.ingest")
	m.MessageReceived("stats.update")
	m.ParseError("logs.ingest")
	m.UnknownChannel()
	m.RecordIngested(true)
	m.RecordIngested(true)
	m.RecordIngested(false)
	m.StatsUpdated()
	m.Rendered(42)

	values := gathered(t, reg)
	assert.Equal(t, 2.0, values["logdash_messages_received_total{channel=logs.ingest}"])
	assert.Equal(t, 1.0, values["logdash_messages_received_total{channel=stats.update}"])
	assert.Equal(t, 1.0, values["logdash_parse_errors_total{channel=logs.ingest}"])
	assert.Equal(t, 1.0, values["logdash_unknown_channel_messages_total"])
	assert.Equal(t, 2.0, values["logdash_records_admitted_total"])
	assert.Equal(t, 1.0, values["logdash_records_filtered_total"])
	assert.Equal(t, 1.0, values["logdash_stats_updates_total"])
	assert.Equal(t, 1.0, values["logdash_renders_total"])
	assert.Equal(t, 42.0, values["logdash_buffered_records"])
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	m := Register(reg)
	m.StatsUpdated()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "logdash_stats_updates_total 1"))
	assert.Contains(t, string(body), "go_goroutines")
}
