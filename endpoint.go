package natsclient

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Known endpoint schemes. A tls endpoint requires a verified TLS session,
// an opentls endpoint accepts any server certificate.
const (
	SchemeNATS    = "nats"
	SchemeTLS     = "tls"
	SchemeOpenTLS = "opentls"
)

// Endpoint is a resolved, scheme-valid, ported server address.
type Endpoint struct {
	Scheme string
	Host   string
	Port   int

	// User carries credentials embedded in the URI, or nil when absent.
	User *url.Userinfo
}

// ParseEndpoint resolves a raw address into an Endpoint.
//
// Bare host:port strings without a scheme are accepted: servers hand back
// bare addresses in cluster discovery responses, and those must resolve the
// same way as user supplied URLs. Parsing is retried with the default nats
// scheme prefixed before giving up. When the address carries a host but no
// port, the default port 4222 is injected.
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		u, err = url.Parse(SchemeNATS + "://" + raw)
		if err != nil {
			return Endpoint{}, annotate(fmt.Errorf("%w: bad server URL [%s]", ErrInvalidURI, raw), err)
		}
	}

	switch u.Scheme {
	case SchemeNATS, SchemeTLS, SchemeOpenTLS:
	default:
		return Endpoint{}, fmt.Errorf("%w: unknown scheme %q [%s]", ErrInvalidURI, u.Scheme, raw)
	}

	host := u.Hostname()
	if host == "" {
		return Endpoint{}, fmt.Errorf("%w: unable to parse server URL [%s]", ErrInvalidURI, raw)
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return Endpoint{}, annotate(fmt.Errorf("%w: bad port in server URL [%s]", ErrInvalidURI, raw), err)
		}
	}

	return Endpoint{
		Scheme: u.Scheme,
		Host:   host,
		Port:   port,
		User:   u.User,
	}, nil
}

// String reassembles the endpoint as scheme://[userinfo@]host:port.
func (e Endpoint) String() string {
	var sb strings.Builder
	sb.WriteString(e.Scheme)
	sb.WriteString("://")
	if e.User != nil {
		sb.WriteString(e.User.String())
		sb.WriteString("@")
	}
	sb.WriteString(hostPort(e.Host, e.Port))
	return sb.String()
}

// Addr returns the host:port pair used for dialing.
func (e Endpoint) Addr() string {
	return hostPort(e.Host, e.Port)
}

// TLSRequired reports whether the endpoint's scheme asks for a TLS session.
func (e Endpoint) TLSRequired() bool {
	return e.Scheme == SchemeTLS || e.Scheme == SchemeOpenTLS
}

// credentials extracts embedded userinfo for handshake construction.
// A value with exactly one ':' separator splits into user and password;
// any other non-empty value is treated as a bearer token.
func (e Endpoint) credentials() (user, pass, token string) {
	if e.User == nil {
		return "", "", ""
	}
	info := e.User.String()
	if info == "" {
		return "", "", ""
	}
	parts := strings.Split(info, ":")
	if len(parts) == 2 {
		return parts[0], parts[1], ""
	}
	return "", "", info
}

func hostPort(host string, port int) string {
	if strings.Contains(host, ":") {
		// IPv6 literal
		return "[" + host + "]:" + strconv.Itoa(port)
	}
	return host + ":" + strconv.Itoa(port)
}
