package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads a counter from the default registry; label is "k=v" or empty.
func counterValue(t *testing.T, name, label string) float64 {
	t.Helper()
	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label == "" {
				return m.GetCounter().GetValue()
			}
			for _, lp := range m.GetLabel() {
				if lp.GetName()+"="+lp.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestCounters(t *testing.T) {
	Init()
	Init()

	before := counterValue(t, "friendszone_messages_sent_total", "type=text")
	MessageSent("text")
	assert.Equal(t, before+1, counterValue(t, "friendszone_messages_sent_total", "type=text"))

	before = counterValue(t, "friendszone_sends_rejected_total", "")
	SendRejected()
	assert.Equal(t, before+1, counterValue(t, "friendszone_sends_rejected_total", ""))

	before = counterValue(t, "friendszone_backend_errors_total", "op=write")
	BackendError(OpWrite)
	assert.Equal(t, before+1, counterValue(t, "friendszone_backend_errors_total", "op=write"))

	ok := counterValue(t, "friendszone_uploads_succeeded_total", "")
	failed := counterValue(t, "friendszone_uploads_failed_total", "")
	ObserveUpload(time.Now(), nil)
	ObserveUpload(time.Now(), errors.New("x"))
	assert.Equal(t, ok+1, counterValue(t, "friendszone_uploads_succeeded_total", ""))
	assert.Equal(t, failed+1, counterValue(t, "friendszone_uploads_failed_total", ""))

	SnapshotApplied("messages")
	assert.GreaterOrEqual(t, counterValue(t, "friendszone_snapshots_applied_total", "kind=messages"), 1.0)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServe(t *testing.T) {
	Init()
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, logging.NewDiscardLogger()) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	assert.True(t, strings.Contains(body, "friendszone_sends_rejected_total"))

	cancel()
	require.NoError(t, <-done)
}
