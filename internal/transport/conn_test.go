package transport

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfulz/boincgeist/protocol"
)

func pipe(t *testing.T, opts ...Option) (*Conn, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return New(client, opts...), server
}

func TestReceiveSplitsConcatenatedFrames(t *testing.T) {
	c, server := pipe(t)
	go func() {
		_, _ = server.Write([]byte("<a/>\x00<b>x</b>\x00"))
	}()

	ctx := context.Background()
	first, err := c.Receive(ctx)
	require.NoError(t, err)
	second, err := c.Receive(ctx)
	require.NoError(t, err)

	assert.Equal(t, "<a/>", string(first))
	assert.Equal(t, "<b>x</b>", string(second))
	assert.NotContains(t, string(first), "\x00")
}

func TestSendAppendsTerminator(t *testing.T) {
	c, server := pipe(t)
	got := make(chan []byte, 1)
	go func() {
		b, _ := bufio.NewReader(server).ReadBytes(0x00)
		got <- b
	}()

	require.NoError(t, c.Send(context.Background(), []byte("<get_cc_status/>")))
	assert.Equal(t, []byte("<get_cc_status/>\x00"), <-got)
}

func TestLegacyTerminator(t *testing.T) {
	c, server := pipe(t, WithTerminator(protocol.LegacyTerminator))
	assert.Equal(t, protocol.LegacyTerminator, c.Terminator())
	go func() {
		_, _ = server.Write([]byte("<reply/>\x03"))
	}()

	msg, err := c.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<reply/>", string(msg))
}

func TestReceiveEOFBeforeTerminatorIsClosed(t *testing.T) {
	c, server := pipe(t)
	go func() {
		_, _ = server.Write([]byte("<partial"))
		_ = server.Close()
	}()

	_, err := c.Receive(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrClosed), "got %v", err)
	assert.True(t, c.Closed())

	err = c.Send(context.Background(), []byte("<x/>"))
	assert.True(t, errors.Is(err, protocol.ErrClosed))
}

func TestReceiveTimeoutIsIoFailed(t *testing.T) {
	c, _ := pipe(t, WithTimeout(50*time.Millisecond))

	_, err := c.Receive(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrIoFailed), "got %v", err)
	assert.True(t, c.Closed())
}

func TestCanceledContext(t *testing.T) {
	c, _ := pipe(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Send(ctx, []byte("<x/>"))
	assert.True(t, errors.Is(err, protocol.ErrIoFailed))
	assert.False(t, c.Closed())
}

func TestCloseIsIdempotent(t *testing.T) {
	c, _ := pipe(t)
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.True(t, c.Closed())
	assert.NotEmpty(t, c.ID())
}

func TestDial(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		b, _ := bufio.NewReader(conn).ReadBytes(0x00)
		_, _ = conn.Write(append([]byte("<echo>"), append(b[:len(b)-1], []byte("</echo>\x00")...)...))
	}()

	c, err := Dial(context.Background(), ln.Addr().String(), WithTimeout(time.Second))
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, ln.Addr().String(), c.Address())

	require.NoError(t, c.Send(context.Background(), []byte("hi")))
	reply, err := c.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<echo>hi</echo>", string(reply))
}

func TestDialFailureIsConnectFailed(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = Dial(context.Background(), addr, WithTimeout(time.Second))
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrConnectFailed))
}
