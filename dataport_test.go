package natsclient

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketDataPortConnectReadWrite(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 4)
		if _, err := conn.Read(buf); err != nil {
			return
		}
		_, _ = conn.Write([]byte("PONG"))
	}()

	addr := listener.Addr().(*net.TCPAddr)
	server := Endpoint{Scheme: SchemeNATS, Host: addr.IP.String(), Port: addr.Port}

	port := NewSocketDataPort()
	require.NoError(t, port.Connect(context.Background(), server, time.Second))
	defer port.Close()

	_, err = port.Write([]byte("PING"))
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := port.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "PONG", string(buf[:n]))

	<-done
	require.NoError(t, port.Close())
}

func TestSocketDataPortConnectTwiceFails(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	server := Endpoint{Scheme: SchemeNATS, Host: addr.IP.String(), Port: addr.Port}

	port := NewSocketDataPort()
	require.NoError(t, port.Connect(context.Background(), server, time.Second))
	defer port.Close()

	assert.Error(t, port.Connect(context.Background(), server, time.Second))
}

func TestSocketDataPortConnectRefused(t *testing.T) {
	// Grab a port and close it so the dial is refused.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().(*net.TCPAddr)
	require.NoError(t, listener.Close())

	server := Endpoint{Scheme: SchemeNATS, Host: addr.IP.String(), Port: addr.Port}

	port := NewSocketDataPort()
	assert.Error(t, port.Connect(context.Background(), server, 250*time.Millisecond))
}

func TestSocketDataPortCloseIdempotent(t *testing.T) {
	port := NewSocketDataPort()
	require.NoError(t, port.Close())
	require.NoError(t, port.Close())
}
