package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordToolCall(t *testing.T) {
	c := NewCollector("restmcp")

	c.RecordToolCall("shop", "shop_getItem", OutcomeOK, 200, 20*time.Millisecond)
	c.RecordToolCall("shop", "shop_getItem", OutcomeOK, 200, 30*time.Millisecond)
	c.RecordToolCall("shop", "shop_getItem", OutcomeRequestFailed, 503, time.Second)
	c.RecordToolCall("shop", "shop_getItem", OutcomeError, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.toolCallsTotal.WithLabelValues("shop", "shop_getItem", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.toolCallsTotal.WithLabelValues("shop", "shop_getItem", OutcomeRequestFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.toolCallsTotal.WithLabelValues("shop", "shop_getItem", OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.upstreamStatus.WithLabelValues("shop", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamStatus.WithLabelValues("shop", "5xx")))
}

func TestCollector_SetInventory(t *testing.T) {
	c := NewCollector("restmcp")
	c.SetInventory(2, map[string]int{"shop": 3, "weather": 1}, 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.providersLoaded))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.toolsRegistered.WithLabelValues("shop")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.operationsSkiped))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("restmcp")
	c.RecordToolCall("shop", "shop_listItems", OutcomeOK, 200, time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `restmcp_tool_calls_total{outcome="ok",provider="shop",tool="shop_listItems"} 1`), string(body))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("restmcp")
	b := NewCollector("restmcp")
	a.RecordToolCall("p", "t", OutcomeOK, 200, 0)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.toolCallsTotal.WithLabelValues("p", "t", OutcomeOK)))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.RecordToolCall("p", "t", OutcomeOK, 200, time.Second)
	c.SetInventory(1, nil, 0)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "3xx", statusClass(302))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(500))
	assert.Equal(t, "1xx", statusClass(101))
}
