package cli

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/logdash/internal/api"
	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/domain"
	"github.com/charliek/logdash/internal/logs"
)

type apiFixture struct {
	*httptest.Server
	state *dashboard.State
	subs  *logs.SubscriptionManager
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	state := dashboard.New(10)
	subs := logs.NewSubscriptionManager(10, logr.Discard())
	t.Cleanup(subs.Close)

	state.Ingest(domain.LogRecord{Timestamp: "2024-01-01T10:00:00Z", Level: "INFO", Service: "auth-service", Message: "User login successful"})
	state.Ingest(domain.LogRecord{Timestamp: "2024-01-01T10:00:01Z", Level: "ERROR", Service: "db-service", Message: "Failed to connect to database"})
	state.Ingest(domain.LogRecord{Timestamp: "2024-01-01T10:00:02Z", Level: "ERROR", Service: "payment-service", Message: "API rate limit exceeded"})

	srv := api.NewServer(api.ServerConfig{}, api.NewHandlers(state, subs, logr.Discard()), nil, logr.Discard())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &apiFixture{Server: ts, state: state, subs: subs}
}

func newAPIServer(t *testing.T) *httptest.Server {
	return newAPIFixture(t).Server
}

func TestClient_GetLogs(t *testing.T) {
	ts := newAPIServer(t)
	c := NewClient(ts.URL + "/")

	resp, err := c.GetLogs(context.Background(), LogParams{Lines: 1, Pattern: "ERROR"})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "payment-service", resp.Logs[0].Service)
	assert.Equal(t, 2, resp.FilteredCount)
	assert.Equal(t, 3, resp.TotalCount)
}

func TestClient_GetLogs_InvalidPattern(t *testing.T) {
	ts := newAPIServer(t)

	_, err := NewClient(ts.URL).GetLogs(context.Background(), LogParams{Pattern: "["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCodeInvalidPattern)
}

func TestClient_GetStats(t *testing.T) {
	f := newAPIFixture(t)
	c := NewClient(f.URL)

	_, err := c.GetStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCodeNoStats)

	f.state.SetStats(domain.StatsSnapshot{TotalCount: 5, ErrorCount: 1})
	resp, err := c.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), resp.TotalCount)
	assert.Nil(t, resp.TopService)
}

func TestClient_GetStatus(t *testing.T) {
	ts := newAPIServer(t)

	resp, err := NewClient(ts.URL).GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Buffered)
	assert.Equal(t, 10, resp.Capacity)
}

func TestClient_Unreachable(t *testing.T) {
	ts := newAPIServer(t)
	url := ts.URL
	ts.Close()

	_, err := NewClient(url).GetStatus(context.Background())
	assert.Error(t, err)
}

func TestClient_StreamLogs(t *testing.T) {
	f := newAPIFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan api.LogRecordResponse, 4)
	done := make(chan error, 1)
	go func() {
		done <- NewClient(f.URL).StreamLogs(ctx, LogParams{Lines: 5, Pattern: "WARN"}, func(r api.LogRecordResponse) {
			got <- r
		})
	}()

	require.Eventually(t, func() bool { return f.subs.Count() == 1 }, 2*time.Second, 5*time.Millisecond)
	f.subs.Broadcast(domain.LogRecord{Level: "INFO", Service: "user-service", Message: "User logged out"})
	f.subs.Broadcast(domain.LogRecord{Level: "WARN", Service: "user-service", Message: "Cache miss for user profile"})

	select {
	case r := <-got:
		assert.Equal(t, "Cache miss for user profile", r.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("no record streamed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop")
	}
}

func TestClient_StreamLogs_InvalidPattern(t *testing.T) {
	ts := newAPIServer(t)

	err := NewClient(ts.URL).StreamLogs(context.Background(), LogParams{Pattern: "("}, func(api.LogRecordResponse) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCodeInvalidPattern)
}

func TestLogsCommand(t *testing.T) {
	ts := newAPIServer(t)

	out, err := execute(context.Background(), t, "logs", "--addr", ts.URL, "-p", "ERROR")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "db-service")
	assert.Contains(t, lines[1], "payment-service")
	assert.True(t, strings.HasPrefix(lines[1], "10:00:02 "))
}

func TestLogsCommand_JSON(t *testing.T) {
	ts := newAPIServer(t)

	out, err := execute(context.Background(), t, "logs", "--addr", ts.URL, "--json", "-n", "2")
	require.NoError(t, err)

	var resp api.LogsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Logs, 2)
}

func TestStatsCommand(t *testing.T) {
	f := newAPIFixture(t)
	top := "db-service"
	f.state.SetStats(domain.StatsSnapshot{WindowStart: "s", WindowEnd: "e", TotalCount: 9, ErrorCount: 4, TopService: &top})

	out, err := execute(context.Background(), t, "stats", "--addr", f.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Logs:")
	assert.Contains(t, out, "9")
	assert.Contains(t, out, "Top Service:  db-service")
}

func TestStatusCommand_InvalidFilter(t *testing.T) {
	f := newAPIFixture(t)
	f.state.StartEditing()
	f.state.InsertChar('[')
	_, _ = f.state.SubmitEditing()

	out, err := execute(context.Background(), t, "status", "--addr", f.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "[ (invalid, showing all)")
	assert.Contains(t, out, "Buffered:      3/10")
}

func TestStatusCommand_Unreachable(t *testing.T) {
	ts := newAPIServer(t)
	url := ts.URL
	ts.Close()

	_, err := execute(context.Background(), t, "status", "--addr", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.enabled")
}
