package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charliek/logdash/internal/api"
)

func TestLogPrinter_Print(t *testing.T) {
	var buf bytes.Buffer
	lp := NewLogPrinter(&buf)

	lp.Print(api.LogRecordResponse{Timestamp: "2024-01-01T12:34:56.123456Z", Level: "ERROR", Service: "auth-service", Message: "boom"})
	lp.Print(api.LogRecordResponse{Timestamp: "not-a-time", Level: "INFO", Service: "db-service", Message: "ok"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "12:34:56 "))
	assert.Contains(t, lines[0], "auth-service")
	assert.Contains(t, lines[0], "| ERROR boom")
	assert.True(t, strings.HasPrefix(lines[1], "not-a-time "))
}

func TestLogPrinter_StableColorPerService(t *testing.T) {
	lp := NewLogPrinter(&bytes.Buffer{})

	a := lp.style("auth-service")
	b := lp.style("db-service")
	assert.Equal(t, a.GetForeground(), lp.style("auth-service").GetForeground())
	assert.NotEqual(t, a.GetForeground(), b.GetForeground())
	assert.Len(t, lp.colors, 2)
}
