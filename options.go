package natsclient

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"
)

// Defaults applied by the Builder when a value is never supplied.
const (
	// DefaultURL is the server used when no server was ever added.
	DefaultURL = "nats://localhost:4222"

	// DefaultPort is injected when an address carries a host but no port.
	DefaultPort = 4222

	// DefaultMaxReconnect limits reconnect attempts. -1 means unlimited,
	// 0 disables reconnecting.
	DefaultMaxReconnect = 60

	// DefaultMaxPingsOut is how many pings may be outstanding before the
	// connection is considered stale.
	DefaultMaxPingsOut = 2

	// DefaultReconnectBufferSize caps the bytes buffered for publishes that
	// happen while disconnected.
	DefaultReconnectBufferSize int64 = 8 * 1024 * 1024

	// DefaultMaxControlLine is the longest protocol control line the client
	// will send. Configurable on the server; keep the two in sync.
	DefaultMaxControlLine = 1024

	// DefaultBufferSize is the initial size of connection I/O buffers.
	DefaultBufferSize = 64 * 1024

	// DefaultInboxPrefix roots the subject namespace used for reply inboxes.
	// The trailing '.' is required and is added when missing.
	DefaultInboxPrefix = "_INBOX."
)

// Duration defaults.
const (
	DefaultReconnectWait          = 2 * time.Second
	DefaultConnectionTimeout      = 2 * time.Second
	DefaultPingInterval           = 2 * time.Minute
	DefaultRequestCleanupInterval = 5 * time.Second
)

// Options is the immutable connection configuration produced by a Builder.
// A single Options value is shared read-only by every connection attempt,
// including reconnects, and is safe for unsynchronized concurrent reads.
type Options struct {
	servers     []Endpoint
	noRandomize bool

	connectionName string
	verbose        bool
	pedantic       bool
	noEcho         bool
	utf8Subjects   bool

	maxReconnect           int
	reconnectWait          time.Duration
	connectionTimeout      time.Duration
	pingInterval           time.Duration
	requestCleanupInterval time.Duration
	maxPingsOut            int
	reconnectBufferSize    int64
	maxControlLine         int
	bufferSize             int
	oldRequestStyle        bool
	trackAdvancedStats     bool

	username    string
	password    string
	token       string
	inboxPrefix string

	tlsConfig *tls.Config

	authHandler        AuthHandler
	errorListener      ErrorListener
	connectionListener ConnectionListener
	dataPortFactory    DataPortFactory
}

// Builder accumulates connection options. It is not safe for concurrent
// mutation; configure it from one goroutine and call Build once. Setters
// chain, and any error they encounter is reported by Build.
type Builder struct {
	servers     []Endpoint
	noRandomize bool

	connectionName string
	verbose        bool
	pedantic       bool
	noEcho         bool
	utf8Subjects   bool

	maxReconnect           int
	reconnectWait          time.Duration
	connectionTimeout      time.Duration
	pingInterval           time.Duration
	requestCleanupInterval time.Duration
	maxPingsOut            int
	reconnectBufferSize    int64
	maxControlLine         int
	bufferSize             int
	oldRequestStyle        bool
	trackAdvancedStats     bool

	username    string
	password    string
	token       string
	inboxPrefix string

	tlsConfig  *tls.Config
	wantSecure bool

	authHandler        AuthHandler
	errorListener      ErrorListener
	connectionListener ConnectionListener
	dataPortFactory    DataPortFactory

	err error
}

// NewBuilder returns a Builder holding the default values. A Builder that is
// never given a server produces an Options with the default URL.
func NewBuilder() *Builder {
	return &Builder{
		maxReconnect:           DefaultMaxReconnect,
		reconnectWait:          DefaultReconnectWait,
		connectionTimeout:      DefaultConnectionTimeout,
		pingInterval:           DefaultPingInterval,
		requestCleanupInterval: DefaultRequestCleanupInterval,
		maxPingsOut:            DefaultMaxPingsOut,
		reconnectBufferSize:    DefaultReconnectBufferSize,
		maxControlLine:         DefaultMaxControlLine,
		bufferSize:             DefaultBufferSize,
		inboxPrefix:            DefaultInboxPrefix,
		dataPortFactory:        NewSocketDataPort,
	}
}

// fail records the first error; later setters keep chaining but Build reports it.
func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Server adds one server to the list of known servers. Comma-joined input is
// split into individual addresses; whitespace is trimmed and empty entries
// are skipped. Insertion order is preserved and is the default dial order.
func (b *Builder) Server(rawURL string) *Builder {
	return b.Servers(strings.Split(strings.TrimSpace(rawURL), ","))
}

// Servers adds every address in the slice, resolving each one.
func (b *Builder) Servers(rawURLs []string) *Builder {
	for _, raw := range rawURLs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		ep, err := ParseEndpoint(raw)
		if err != nil {
			return b.fail(err)
		}
		b.servers = append(b.servers, ep)
	}
	return b
}

// NoRandomize keeps the server list in configured order instead of letting
// the connection engine shuffle it on connect.
func (b *Builder) NoRandomize() *Builder {
	b.noRandomize = true
	return b
}

// ConnectionName sets an optional name reported to the server.
func (b *Builder) ConnectionName(name string) *Builder {
	b.connectionName = name
	return b
}

// Verbose turns on verbose acknowledgement mode with the server.
func (b *Builder) Verbose() *Builder {
	b.verbose = true
	return b
}

// Pedantic turns on pedantic protocol checking on the server side.
func (b *Builder) Pedantic() *Builder {
	b.pedantic = true
	return b
}

// NoEcho asks the server not to echo published messages back to this
// connection's own subscriptions.
func (b *Builder) NoEcho() *Builder {
	b.noEcho = true
	return b
}

// SupportUTF8Subjects enables UTF-8 subject names. Subjects default to ASCII;
// make sure every client involved handles UTF-8 before enabling this.
func (b *Builder) SupportUTF8Subjects() *Builder {
	b.utf8Subjects = true
	return b
}

// OldRequestStyle uses a new inbox and subscription per request instead of
// the shared-inbox request style.
func (b *Builder) OldRequestStyle() *Builder {
	b.oldRequestStyle = true
	return b
}

// TurnOnAdvancedStats enables extra statistics tracking, primarily for
// tests and benchmarks.
func (b *Builder) TurnOnAdvancedStats() *Builder {
	b.trackAdvancedStats = true
	return b
}

// MaxReconnects sets the reconnect attempt limit. Use 0 to disable
// reconnecting and -1 for unlimited attempts.
func (b *Builder) MaxReconnects(max int) *Builder {
	b.maxReconnect = max
	return b
}

// NoReconnect is equivalent to MaxReconnects(0).
func (b *Builder) NoReconnect() *Builder {
	b.maxReconnect = 0
	return b
}

// ReconnectWait sets the wait between reconnect attempts to the same server.
func (b *Builder) ReconnectWait(d time.Duration) *Builder {
	b.reconnectWait = d
	return b
}

// ConnectionTimeout sets the timeout for connection attempts.
func (b *Builder) ConnectionTimeout(d time.Duration) *Builder {
	b.connectionTimeout = d
	return b
}

// PingInterval sets the interval between client pings. A value <= 0
// disables automatic pings.
func (b *Builder) PingInterval(d time.Duration) *Builder {
	b.pingInterval = d
	return b
}

// RequestCleanupInterval sets the interval between cleanup passes over
// outstanding requests that were cancelled or timed out.
func (b *Builder) RequestCleanupInterval(d time.Duration) *Builder {
	b.requestCleanupInterval = d
	return b
}

// MaxPingsOut sets how many pings may be in flight without a response.
func (b *Builder) MaxPingsOut(max int) *Builder {
	b.maxPingsOut = max
	return b
}

// ReconnectBufferSize caps the bytes buffered while reconnecting. Messages
// published beyond the cap are dropped.
func (b *Builder) ReconnectBufferSize(size int64) *Builder {
	b.reconnectBufferSize = size
	return b
}

// MaxControlLine sets the longest control line this client will send.
func (b *Builder) MaxControlLine(bytes int) *Builder {
	b.maxControlLine = bytes
	return b
}

// BufferSize sets the initial connection buffer size, primarily for testing.
func (b *Builder) BufferSize(size int) *Builder {
	b.bufferSize = size
	return b
}

// UserInfo sets the username and password for basic authentication.
// Credentials embedded in a server URL override these values; in a cluster
// these act as the fallback.
func (b *Builder) UserInfo(username, password string) *Builder {
	b.username = username
	b.password = password
	return b
}

// Token sets the token for token-based authentication. A token embedded in
// a server URL overrides this value.
func (b *Builder) Token(token string) *Builder {
	b.token = token
	return b
}

// InboxPrefix sets the subject prefix used for reply inboxes. A single
// trailing '.' is ensured.
func (b *Builder) InboxPrefix(prefix string) *Builder {
	b.inboxPrefix = normalizeInboxPrefix(prefix)
	return b
}

// Secure requests the platform default TLS configuration. Acquisition happens
// once, during Build, and its failure fails Build.
func (b *Builder) Secure() *Builder {
	b.wantSecure = true
	return b
}

// OpenTLS uses a TLS configuration that accepts any server certificate and
// presents none. Not secure; provided for tests and development.
func (b *Builder) OpenTLS() *Builder {
	b.tlsConfig = OpenTLSConfig()
	return b
}

// TLSConfig supplies a fully configured TLS stack. Its presence makes the
// connection require TLS.
func (b *Builder) TLSConfig(conf *tls.Config) *Builder {
	b.tlsConfig = conf
	return b
}

// AuthHandler sets the handler used to sign the server nonce in
// nonce-signing authentication mode.
func (b *Builder) AuthHandler(h AuthHandler) *Builder {
	b.authHandler = h
	return b
}

// ErrorListener sets the listener for asynchronous connection errors.
func (b *Builder) ErrorListener(l ErrorListener) *Builder {
	b.errorListener = l
	return b
}

// ConnectionListener sets the listener for connection state events.
func (b *Builder) ConnectionListener(l ConnectionListener) *Builder {
	b.connectionListener = l
	return b
}

// DataPortFactory sets the factory producing the transport implementation.
// The default builds a TCP socket data port.
func (b *Builder) DataPortFactory(f DataPortFactory) *Builder {
	b.dataPortFactory = f
	return b
}

// Build validates the accumulated values and returns the immutable Options.
//
// If no server was added the default URL is used. When exactly one server is
// configured, its scheme can stand in for explicit TLS configuration: a
// tls:// server acquires the platform default TLS configuration and an
// opentls:// server gets the permissive one. The inference is restricted to
// the single-server case so a mixed list never picks a winner silently.
func (b *Builder) Build() (*Options, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.username != "" && b.token != "" {
		return nil, fmt.Errorf("%w: cannot have both token and username", ErrConfigConflict)
	}

	if _, err := ValidatePrefix(strings.TrimSuffix(b.inboxPrefix, "."), "inbox prefix"); err != nil {
		return nil, err
	}
	if b.inboxPrefix == "" || b.inboxPrefix == "." {
		return nil, fmt.Errorf("%w: inbox prefix cannot be empty", ErrMissingRequired)
	}

	if b.maxPingsOut < 1 {
		return nil, fmt.Errorf("%w: max pings out must be at least 1 [%d]", ErrOutOfRange, b.maxPingsOut)
	}
	if b.maxReconnect < -1 {
		return nil, fmt.Errorf("%w: max reconnects must be -1, 0 or positive [%d]", ErrOutOfRange, b.maxReconnect)
	}
	if _, err := NonNegativeDuration(b.reconnectWait, "reconnect wait"); err != nil {
		return nil, err
	}
	if _, err := NonNegativeDuration(b.connectionTimeout, "connection timeout"); err != nil {
		return nil, err
	}
	if _, err := NonNegativeDuration(b.requestCleanupInterval, "request cleanup interval"); err != nil {
		return nil, err
	}

	servers := b.servers
	if len(servers) == 0 {
		ep, err := ParseEndpoint(DefaultURL)
		if err != nil {
			return nil, err
		}
		servers = []Endpoint{ep}
	}

	tlsConfig := b.tlsConfig
	if tlsConfig == nil && len(servers) == 1 {
		switch servers[0].Scheme {
		case SchemeTLS:
			b.wantSecure = true
		case SchemeOpenTLS:
			tlsConfig = OpenTLSConfig()
		}
	}
	if tlsConfig == nil && b.wantSecure {
		conf, err := DefaultSecureConfig()
		if err != nil {
			return nil, err
		}
		tlsConfig = conf
	}

	dataPortFactory := b.dataPortFactory
	if dataPortFactory == nil {
		dataPortFactory = NewSocketDataPort
	}

	out := make([]Endpoint, len(servers))
	copy(out, servers)

	return &Options{
		servers:                out,
		noRandomize:            b.noRandomize,
		connectionName:         b.connectionName,
		verbose:                b.verbose,
		pedantic:               b.pedantic,
		noEcho:                 b.noEcho,
		utf8Subjects:           b.utf8Subjects,
		maxReconnect:           b.maxReconnect,
		reconnectWait:          b.reconnectWait,
		connectionTimeout:      b.connectionTimeout,
		pingInterval:           b.pingInterval,
		requestCleanupInterval: b.requestCleanupInterval,
		maxPingsOut:            b.maxPingsOut,
		reconnectBufferSize:    b.reconnectBufferSize,
		maxControlLine:         b.maxControlLine,
		bufferSize:             b.bufferSize,
		oldRequestStyle:        b.oldRequestStyle,
		trackAdvancedStats:     b.trackAdvancedStats,
		username:               b.username,
		password:               b.password,
		token:                  b.token,
		inboxPrefix:            b.inboxPrefix,
		tlsConfig:              tlsConfig,
		authHandler:            b.authHandler,
		errorListener:          b.errorListener,
		connectionListener:     b.connectionListener,
		dataPortFactory:        dataPortFactory,
	}, nil
}

func normalizeInboxPrefix(prefix string) string {
	if prefix == "" {
		return prefix
	}
	return strings.TrimRight(prefix, ".") + "."
}

// Servers returns the resolved server list in insertion order. The returned
// slice is a copy; reordering for dialing is the connection engine's job.
func (o *Options) Servers() []Endpoint {
	out := make([]Endpoint, len(o.servers))
	copy(out, o.servers)
	return out
}

// IsNoRandomize reports whether server list shuffling is turned off.
func (o *Options) IsNoRandomize() bool { return o.noRandomize }

// ConnectionName returns the optional connection name, or "".
func (o *Options) ConnectionName() string { return o.connectionName }

// IsVerbose reports whether verbose acknowledgement mode is on.
func (o *Options) IsVerbose() bool { return o.verbose }

// IsPedantic reports whether pedantic protocol checking is on.
func (o *Options) IsPedantic() bool { return o.pedantic }

// IsNoEcho reports whether server echo is disabled.
func (o *Options) IsNoEcho() bool { return o.noEcho }

// SupportUTF8Subjects reports whether UTF-8 subjects are enabled.
func (o *Options) SupportUTF8Subjects() bool { return o.utf8Subjects }

// IsOldRequestStyle reports whether per-request inboxes are used.
func (o *Options) IsOldRequestStyle() bool { return o.oldRequestStyle }

// TrackAdvancedStats reports whether extra statistics are tracked.
func (o *Options) TrackAdvancedStats() bool { return o.trackAdvancedStats }

// MaxReconnect returns the reconnect attempt limit; -1 means unlimited and
// 0 means reconnecting is disabled.
func (o *Options) MaxReconnect() int { return o.maxReconnect }

// ReconnectWait returns the wait between reconnect attempts to one server.
func (o *Options) ReconnectWait() time.Duration { return o.reconnectWait }

// ConnectionTimeout returns the timeout for connection attempts.
func (o *Options) ConnectionTimeout() time.Duration { return o.connectionTimeout }

// PingInterval returns the interval between automatic pings; <= 0 disables them.
func (o *Options) PingInterval() time.Duration { return o.pingInterval }

// RequestCleanupInterval returns the interval between request cleanup passes.
func (o *Options) RequestCleanupInterval() time.Duration { return o.requestCleanupInterval }

// MaxPingsOut returns how many pings may be outstanding.
func (o *Options) MaxPingsOut() int { return o.maxPingsOut }

// ReconnectBufferSize returns the byte cap for buffering during reconnects.
func (o *Options) ReconnectBufferSize() int64 { return o.reconnectBufferSize }

// MaxControlLine returns the longest control line the client will send.
func (o *Options) MaxControlLine() int { return o.maxControlLine }

// BufferSize returns the initial connection buffer size.
func (o *Options) BufferSize() int { return o.bufferSize }

// Username returns the configured username, or "".
func (o *Options) Username() string { return o.username }

// Password returns the configured password, or "".
func (o *Options) Password() string { return o.password }

// Token returns the configured token, or "".
func (o *Options) Token() string { return o.token }

// InboxPrefix returns the inbox prefix, always ending with a single '.'.
func (o *Options) InboxPrefix() string { return o.inboxPrefix }

// TLSConfig returns the TLS configuration, or nil when TLS is not required.
// The returned value is a clone so callers cannot mutate the snapshot.
func (o *Options) TLSConfig() *tls.Config {
	if o.tlsConfig == nil {
		return nil
	}
	return o.tlsConfig.Clone()
}

// TLSRequired reports whether a TLS configuration is present.
func (o *Options) TLSRequired() bool { return o.tlsConfig != nil }

// AuthHandler returns the nonce-signing handler, or nil.
func (o *Options) AuthHandler() AuthHandler { return o.authHandler }

// ErrorListener returns the error listener, or nil.
func (o *Options) ErrorListener() ErrorListener { return o.errorListener }

// ConnectionListener returns the connection listener, or nil.
func (o *Options) ConnectionListener() ConnectionListener { return o.connectionListener }

// BuildDataPort produces a fresh transport from the configured factory.
func (o *Options) BuildDataPort() DataPort { return o.dataPortFactory() }
