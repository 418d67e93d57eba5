package gateway

import (
	"testing"

	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRegistry(t *testing.T) {
	reg := NewClientRegistry(logging.Nop())
	require.Equal(t, 0, reg.Count())

	reg.Add(&Client{ConnID: "conn-1", Remote: "127.0.0.1:1"})
	reg.Add(&Client{ConnID: "conn-2"})
	assert.Equal(t, 2, reg.Count())

	got, ok := reg.Get("conn-1")
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1:1", got.Remote)

	reg.Remove("conn-1")
	_, ok = reg.Get("conn-1")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Count())

	reg.Remove("missing")
	assert.Equal(t, 1, reg.Count())
}

func TestClientSendAfterClose(t *testing.T) {
	c := &Client{ConnID: "x", closed: true}
	assert.ErrorIs(t, c.Send(Frame{Type: FrameTypeEvent}), ErrClientClosed)
	assert.NoError(t, c.Close())
}
