package natsclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// DefaultDataPortType names the factory used when no dataport.type property
// is given: a plain TCP socket.
const DefaultDataPortType = "tcp"

// DataPort is the transport capability consumed by the connection engine.
// A DataPort is created per connection attempt via the configured
// DataPortFactory, connected once, optionally upgraded to TLS, then used as
// a byte stream.
type DataPort interface {
	// Connect dials the endpoint. The timeout bounds the dial; ctx
	// cancellation aborts it early.
	Connect(ctx context.Context, server Endpoint, timeout time.Duration) error

	// UpgradeToSecure wraps the established connection in a TLS session
	// and runs the handshake.
	UpgradeToSecure(ctx context.Context, conf *tls.Config) error

	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// DataPortFactory produces the transport implementation for a connection.
type DataPortFactory func() DataPort

// socketDataPort is the default DataPort over a TCP socket.
type socketDataPort struct {
	conn net.Conn
	host string
}

// NewSocketDataPort returns the standard TCP socket transport.
func NewSocketDataPort() DataPort {
	return &socketDataPort{}
}

func (p *socketDataPort) Connect(ctx context.Context, server Endpoint, timeout time.Duration) error {
	if p.conn != nil {
		return fmt.Errorf("natsclient: data port already connected to %s", p.host)
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", server.Addr())
	if err != nil {
		return err
	}
	p.conn = conn
	p.host = server.Host
	return nil
}

func (p *socketDataPort) UpgradeToSecure(ctx context.Context, conf *tls.Config) error {
	if p.conn == nil {
		return fmt.Errorf("natsclient: data port is not connected")
	}
	if conf.ServerName == "" {
		conf = conf.Clone()
		conf.ServerName = p.host
	}
	tlsConn := tls.Client(p.conn, conf)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = tlsConn.Close()
		p.conn = nil
		return err
	}
	p.conn = tlsConn
	return nil
}

func (p *socketDataPort) Read(b []byte) (int, error) {
	return p.conn.Read(b)
}

func (p *socketDataPort) Write(b []byte) (int, error) {
	return p.conn.Write(b)
}

func (p *socketDataPort) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
