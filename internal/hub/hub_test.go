package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h, cancel
}

func receive(t *testing.T, c *Connection) []byte {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestBroadcastReachesAllConnections(t *testing.T) {
	h, _ := startHub(t)
	a := h.NewConnection(nil)
	b := h.NewConnection(nil)
	h.Register(a)
	h.Register(b)

	require.NoError(t, h.BroadcastJSON(map[string]string{"type": "status", "text": "Standby"}))

	assert.JSONEq(t, `{"type":"status","text":"Standby"}`, string(receive(t, a)))
	assert.JSONEq(t, `{"type":"status","text":"Standby"}`, string(receive(t, b)))
	assert.Equal(t, 2, h.ConnectionCount())
}

func TestUnregisterClosesSend(t *testing.T) {
	h, _ := startHub(t)
	counts := make(chan int, 4)
	h.OnCountChange = func(n int) { counts <- n }

	c := h.NewConnection(nil)
	h.Register(c)
	h.Unregister(c)

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Equal(t, 1, <-counts)
	assert.Equal(t, 0, <-counts)

	// A second unregister is a no-op.
	h.Unregister(c)
	assert.Equal(t, 0, h.ConnectionCount())
}

func TestSlowConnectionIsDropped(t *testing.T) {
	h, _ := startHub(t)
	slow := h.NewConnection(nil)
	h.Register(slow)

	for i := 0; i <= sendBuffer; i++ {
		h.Broadcast([]byte(`{}`))
	}

	assert.Eventually(t, func() bool { return h.ConnectionCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, h.SendJSONToConnection(slow, map[string]string{}), ErrBufferFull)
}

func TestShutdownClosesConnections(t *testing.T) {
	h, cancel := startHub(t)
	c := h.NewConnection(nil)
	h.Register(c)

	cancel()
	<-h.done

	for range c.Send {
	}
	assert.Equal(t, 0, h.ConnectionCount())

	// Calls after shutdown do not block.
	h.Broadcast([]byte(`{}`))
	h.Unregister(c)
	late := h.NewConnection(nil)
	h.Register(late)
	_, ok := <-late.Send
	assert.False(t, ok)
}

func TestSendJSONToConnection(t *testing.T) {
	h := NewHub(nil)
	c := h.NewConnection(nil)

	require.NoError(t, h.SendJSONToConnection(c, map[string]string{"type": "hello_ack"}))
	assert.JSONEq(t, `{"type":"hello_ack"}`, string(<-c.Send))
	assert.Len(t, c.ID, len("conn_")+8)
}

func TestUnregisterUnknownConnectionClosesSend(t *testing.T) {
	h, _ := startHub(t)
	c := h.NewConnection(nil)

	h.Unregister(c)

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Equal(t, 0, h.ConnectionCount())
}
