package natsclient

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// propertyPrefix namespaces most recognized keys.
const propertyPrefix = "io.nats.client."

// Recognized property keys. The namespace is closed and versioned: unknown
// keys are ignored by NewBuilderFromMap.
const (
	PropURL             = propertyPrefix + "url"
	PropServers         = propertyPrefix + "servers"
	PropUsername        = propertyPrefix + "username"
	PropPassword        = propertyPrefix + "password"
	PropToken           = propertyPrefix + "token"
	PropNoRandomize     = propertyPrefix + "norandomize"
	PropSecure          = propertyPrefix + "secure"
	PropOpenTLS         = propertyPrefix + "opentls"
	PropConnectionName  = propertyPrefix + "name"
	PropVerbose         = propertyPrefix + "verbose"
	PropNoEcho          = propertyPrefix + "noecho"
	PropPedantic        = propertyPrefix + "pedantic"
	PropMaxReconnect    = propertyPrefix + "reconnect.max"
	PropReconnectWait   = propertyPrefix + "reconnect.wait"
	PropReconnectBuf    = propertyPrefix + "reconnect.buffer.size"
	PropTimeout         = propertyPrefix + "timeout"
	PropPingInterval    = propertyPrefix + "pinginterval"
	PropCleanupInterval = propertyPrefix + "cleanupinterval"
	PropMaxPings        = propertyPrefix + "maxpings"
	PropErrorListener   = propertyPrefix + "callback.error"
	PropConnectionCB    = propertyPrefix + "callback.connection"
	PropDataPortType    = propertyPrefix + "dataport.type"

	// Historical keys that never carried the namespace prefix.
	PropMaxControlLine     = "max.control.line"
	PropUTF8Subjects       = "allow.utf8.subjects"
	PropUseOldRequestStyle = "use.old.request.style"
	PropInboxPrefix        = "inbox.prefix"
)

// NewBuilderFromMap constructs a Builder from a key/value property map.
// Setters called afterwards override imported values.
//
// Import is deliberately lenient where the key namespace has always been
// lenient: a numeric value that does not parse falls back silently to the
// documented default, a millisecond value below zero falls back to the
// default, and a boolean value other than "true" (any case) reads as false.
// These are compatibility contracts, not bugs. The exceptions are
// reconnect.max, maxpings and reconnect.buffer.size, where negative values
// are kept because -1 means unlimited.
func NewBuilderFromMap(props map[string]string) (*Builder, error) {
	b := NewBuilder()

	if v, ok := props[PropURL]; ok {
		b.Server(v)
	}
	if v, ok := props[PropUsername]; ok {
		b.username = v
	}
	if v, ok := props[PropPassword]; ok {
		b.password = v
	}
	if v, ok := props[PropToken]; ok {
		b.token = v
	}
	if v, ok := props[PropServers]; ok {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s cannot be empty", ErrMissingRequired, PropServers)
		}
		b.Server(v)
	}
	if propBool(props, PropNoRandomize) {
		b.noRandomize = true
	}
	if propBool(props, PropSecure) {
		conf, err := DefaultSecureConfig()
		if err != nil {
			return nil, err
		}
		b.tlsConfig = conf
	}
	if propBool(props, PropOpenTLS) {
		b.tlsConfig = OpenTLSConfig()
	}
	if v, ok := props[PropConnectionName]; ok {
		b.connectionName = v
	}
	if propBool(props, PropVerbose) {
		b.verbose = true
	}
	if propBool(props, PropNoEcho) {
		b.noEcho = true
	}
	if propBool(props, PropUTF8Subjects) {
		b.utf8Subjects = true
	}
	if propBool(props, PropPedantic) {
		b.pedantic = true
	}
	if v, ok := props[PropMaxReconnect]; ok {
		b.maxReconnect = propInt(v, DefaultMaxReconnect)
	}
	if v, ok := props[PropReconnectWait]; ok {
		b.reconnectWait = propMillis(v, DefaultReconnectWait)
	}
	if v, ok := props[PropReconnectBuf]; ok {
		b.reconnectBufferSize = propInt64(v, DefaultReconnectBufferSize)
	}
	if v, ok := props[PropTimeout]; ok {
		b.connectionTimeout = propMillis(v, DefaultConnectionTimeout)
	}
	if v, ok := props[PropMaxControlLine]; ok {
		if bytes := propInt(v, -1); bytes >= 0 {
			b.maxControlLine = bytes
		}
	}
	if v, ok := props[PropPingInterval]; ok {
		b.pingInterval = propMillis(v, DefaultPingInterval)
	}
	if v, ok := props[PropCleanupInterval]; ok {
		b.requestCleanupInterval = propMillis(v, DefaultRequestCleanupInterval)
	}
	if v, ok := props[PropMaxPings]; ok {
		b.maxPingsOut = propInt(v, DefaultMaxPingsOut)
	}
	if propBool(props, PropUseOldRequestStyle) {
		b.oldRequestStyle = true
	}
	if v, ok := props[PropErrorListener]; ok {
		listener, err := lookupErrorListener(v)
		if err != nil {
			return nil, err
		}
		b.errorListener = listener
	}
	if v, ok := props[PropConnectionCB]; ok {
		listener, err := lookupConnectionListener(v)
		if err != nil {
			return nil, err
		}
		b.connectionListener = listener
	}
	if v, ok := props[PropDataPortType]; ok {
		factory, err := lookupDataPort(v)
		if err != nil {
			return nil, err
		}
		b.dataPortFactory = factory
	}
	if v, ok := props[PropInboxPrefix]; ok {
		b.InboxPrefix(v)
	}

	return b, b.err
}

// propBool reads a boolean property: absent or anything other than "true"
// (case-insensitive) is false.
func propBool(props map[string]string, key string) bool {
	return strings.EqualFold(props[key], "true")
}

// propInt parses an integer property, falling back to def when it does not parse.
func propInt(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func propInt64(v string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return def
	}
	return n
}

// propMillis parses a millisecond count; unparseable and negative values
// both fall back to def.
func propMillis(v string, def time.Duration) time.Duration {
	ms := propInt64(v, -1)
	if ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
