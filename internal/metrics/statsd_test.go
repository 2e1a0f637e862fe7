package metrics

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenStatsd opens a local UDP socket standing in for a statsd server.
func listenStatsd(t *testing.T) net.PacketConn {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

// readPacket reads a single statsd datagram, failing the test if none arrives in time.
func readPacket(t *testing.T, conn net.PacketConn) string {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	buf := make([]byte, 1024)
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)

	return string(buf[:n])
}

func TestFormatMetricWithoutTags(t *testing.T) {
	c := &StatsdClient{}

	assert.Equal(t, "latency.scope.overall", c.formatMetric("latency.scope.overall", nil))
}

func TestFormatMetricMergesAndSortsTags(t *testing.T) {
	c := &StatsdClient{defaultTags: map[string]string{"host": "box", "scope": "default"}}

	formatted := c.formatMetric("latency.scope.stopover", map[string]string{
		"scope": "scope.TestRun",
		"note":  "load config",
	})

	assert.Equal(
		t,
		"latency.scope.stopover,host=box,note=load+config,scope=scope.TestRun",
		formatted,
	)
}

func TestFormatMetricEscapesAndSubstitutesEmptyValues(t *testing.T) {
	c := &StatsdClient{}

	formatted := c.formatMetric("latency:x", map[string]string{"scope": "", "note": "a,b"})

	assert.Equal(t, "latency%3Ax,note=a%2Cb,scope=null", formatted)
}

func TestStatsdClientTiming(t *testing.T) {
	conn := listenStatsd(t)

	client, err := NewStatsdClient(conn.LocalAddr().String(), "scopemeasure", nil, 1)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Timing("latency.scope.overall", 5*time.Millisecond, map[string]string{
		"scope": "main",
	}))

	packet := readPacket(t, conn)
	assert.True(t, strings.HasPrefix(packet, "scopemeasure.latency.scope.overall,scope=main:"), packet)
	assert.Contains(t, packet, "|ms")
}

func TestAsyncStatsdScopeHookEmitScope(t *testing.T) {
	conn := listenStatsd(t)

	hook, err := NewAsyncStatsdScopeHook(conn.LocalAddr().String(), 1)
	require.NoError(t, err)

	hook.EmitScope("main", time.Second)

	packet := readPacket(t, conn)
	assert.True(t, strings.HasPrefix(packet, "scopemeasure.latency.scope.overall,"), packet)
	assert.Contains(t, packet, "scope=main")
	assert.Contains(t, packet, "host=")
}

func TestAsyncStatsdScopeHookCloseFlushesPendingEmissions(t *testing.T) {
	conn := listenStatsd(t)

	hook, err := NewAsyncStatsdScopeHook(conn.LocalAddr().String(), 1)
	require.NoError(t, err)

	hook.EmitScope("main", time.Second)
	require.NoError(t, hook.Close())

	packet := readPacket(t, conn)
	assert.True(t, strings.HasPrefix(packet, "scopemeasure.latency.scope.overall,"), packet)
	assert.Contains(t, packet, "scope=main")
}

func TestAsyncStatsdPipelineHookCloseFlushesPendingEmissions(t *testing.T) {
	conn := listenStatsd(t)

	hook, err := NewAsyncStatsdPipelineHook("build", conn.LocalAddr().String(), 1)
	require.NoError(t, err)

	hook.EmitOperationLatency("compile", 20*time.Millisecond)
	require.NoError(t, hook.Close())

	packet := readPacket(t, conn)
	assert.True(t, strings.HasPrefix(packet, "scopemeasure.latency.pipeline.operation,"), packet)
	assert.Contains(t, packet, "step=compile")
}

func TestAsyncStatsdPipelineHookEmitStepError(t *testing.T) {
	conn := listenStatsd(t)

	hook, err := NewAsyncStatsdPipelineHook("build", conn.LocalAddr().String(), 1)
	require.NoError(t, err)

	hook.EmitStepError("compile")

	packet := readPacket(t, conn)
	assert.True(t, strings.HasPrefix(packet, "scopemeasure.event.pipeline.step_error,"), packet)
	assert.Contains(t, packet, "pipeline=build")
	assert.Contains(t, packet, "step=compile")
	assert.True(t, strings.HasSuffix(packet, ":1|c"), packet)
}

func TestNoopHooks(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoopScopeHook().EmitStopover("main", "", time.Second)
		NewNoopScopeHook().EmitScope("main", time.Second)
		NewNoopPipelineHook().EmitOperationLatency("compile", time.Second)
		NewNoopPipelineHook().EmitStepError("compile")
	})

	assert.NoError(t, NewNoopScopeHook().Close())
	assert.NoError(t, NewNoopPipelineHook().Close())
}
