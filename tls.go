package natsclient

import (
	"crypto/tls"
	"crypto/x509"
)

// DefaultSecureConfig returns the platform default TLS configuration: the
// host's root certificate pool with verification on. The lookup is a
// one-shot, synchronous call; when the host cannot provide its certificate
// pool the error wraps ErrPlatformUnavailable and there is no retry.
func DefaultSecureConfig() (*tls.Config, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil, annotate(ErrPlatformUnavailable, err)
	}
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    pool,
	}, nil
}

// OpenTLSConfig returns a TLS configuration that accepts any server
// certificate and presents no client certificate. The server must not
// require certificate verification. Only for tests and development.
func OpenTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: true, //nolint:gosec
	}
}
