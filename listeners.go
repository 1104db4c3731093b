package natsclient

import (
	"fmt"
	"sync"
)

// ConnectionEvent describes a connection state change reported to a
// ConnectionListener by the connection engine.
type ConnectionEvent int

const (
	// EventConnected is emitted when the first connection completes.
	EventConnected ConnectionEvent = iota
	// EventClosed is emitted when the connection is permanently closed.
	EventClosed
	// EventDisconnected is emitted when the connection is lost.
	EventDisconnected
	// EventReconnected is emitted when a reconnect attempt succeeds.
	EventReconnected
	// EventResubscribed is emitted after subscriptions are re-established.
	EventResubscribed
	// EventDiscoveredServers is emitted when the server announces cluster peers.
	EventDiscoveredServers
)

func (e ConnectionEvent) String() string {
	switch e {
	case EventConnected:
		return "opened"
	case EventClosed:
		return "closed"
	case EventDisconnected:
		return "disconnected"
	case EventReconnected:
		return "reconnected"
	case EventResubscribed:
		return "subscriptions re-established"
	case EventDiscoveredServers:
		return "discovered servers"
	}
	return "unknown"
}

// ConnectionListener receives connection state events. Implementations must
// be safe for concurrent invocation.
type ConnectionListener interface {
	ConnectionEvent(event ConnectionEvent)
}

// ErrorListener receives asynchronous errors from the connection engine.
// Implementations must be safe for concurrent invocation.
type ErrorListener interface {
	// ErrorOccurred is called when the server sends an error, or an
	// internal error surfaces outside a caller's control flow.
	ErrorOccurred(err error)
	// SlowConsumerDetected is called when a subscription falls behind.
	SlowConsumerDetected(subject string, pendingMessages int)
}

// Listener construction from configuration uses an explicit name-to-factory
// registry populated at startup. Property maps then reference listeners by
// registered name rather than by type name.
var listenerRegistry = struct {
	sync.Mutex
	errorListeners      map[string]func() ErrorListener
	connectionListeners map[string]func() ConnectionListener
	dataPorts           map[string]DataPortFactory
}{
	errorListeners:      map[string]func() ErrorListener{},
	connectionListeners: map[string]func() ConnectionListener{},
	dataPorts: map[string]DataPortFactory{
		DefaultDataPortType: NewSocketDataPort,
	},
}

// RegisterErrorListener makes an ErrorListener factory available to the
// property importer under the given name.
func RegisterErrorListener(name string, factory func() ErrorListener) {
	listenerRegistry.Lock()
	defer listenerRegistry.Unlock()
	listenerRegistry.errorListeners[name] = factory
}

// RegisterConnectionListener makes a ConnectionListener factory available to
// the property importer under the given name.
func RegisterConnectionListener(name string, factory func() ConnectionListener) {
	listenerRegistry.Lock()
	defer listenerRegistry.Unlock()
	listenerRegistry.connectionListeners[name] = factory
}

// RegisterDataPort makes a DataPort factory available to the property
// importer under the given name.
func RegisterDataPort(name string, factory DataPortFactory) {
	listenerRegistry.Lock()
	defer listenerRegistry.Unlock()
	listenerRegistry.dataPorts[name] = factory
}

func lookupErrorListener(name string) (ErrorListener, error) {
	listenerRegistry.Lock()
	defer listenerRegistry.Unlock()
	factory, ok := listenerRegistry.errorListeners[name]
	if !ok {
		return nil, fmt.Errorf("%w: no error listener registered as %q", ErrInvalidName, name)
	}
	return factory(), nil
}

func lookupConnectionListener(name string) (ConnectionListener, error) {
	listenerRegistry.Lock()
	defer listenerRegistry.Unlock()
	factory, ok := listenerRegistry.connectionListeners[name]
	if !ok {
		return nil, fmt.Errorf("%w: no connection listener registered as %q", ErrInvalidName, name)
	}
	return factory(), nil
}

func lookupDataPort(name string) (DataPortFactory, error) {
	listenerRegistry.Lock()
	defer listenerRegistry.Unlock()
	factory, ok := listenerRegistry.dataPorts[name]
	if !ok {
		return nil, fmt.Errorf("%w: no data port registered as %q", ErrInvalidName, name)
	}
	return factory, nil
}
