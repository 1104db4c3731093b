package natsclient

import (
	"encoding/base64"
	"encoding/json"
)

// Client identity reported in the handshake.
const (
	// ClientLanguage identifies this client implementation on the wire.
	ClientLanguage = "go"
	// ClientVersion is this library's version string.
	ClientVersion = "0.9.0"
	// clientProtocol is the protocol revision this client speaks.
	clientProtocol = 1
)

// connectInfo is the CONNECT body. Field order is the wire key order and
// must not change; servers and proxies have been observed to care.
type connectInfo struct {
	Lang        string  `json:"lang"`
	Version     string  `json:"version"`
	Name        *string `json:"name,omitempty"`
	Protocol    int     `json:"protocol"`
	Verbose     bool    `json:"verbose"`
	Pedantic    bool    `json:"pedantic"`
	TLSRequired bool    `json:"tls_required"`
	Echo        bool    `json:"echo"`

	// Nonce-signing mode. All three are emitted together, empty values
	// included, and never alongside the basic auth fields.
	NKey *string `json:"nkey,omitempty"`
	Sig  *string `json:"sig,omitempty"`
	JWT  *string `json:"jwt,omitempty"`

	// Basic auth mode.
	User      *string `json:"user,omitempty"`
	Pass      *string `json:"pass,omitempty"`
	AuthToken *string `json:"auth_token,omitempty"`
}

// ConnectPayload serializes the handshake body sent with a CONNECT to the
// given server. It is pure and may run concurrently for parallel dial
// attempts; the only external call is the AuthHandler, whose absent outputs
// degrade to empty fields rather than failing the handshake. Rejecting bad
// credentials is the server's job.
//
// Auth resolution, evaluated fresh on every call:
//   - includeAuth with a nonce and a configured AuthHandler enters
//     nonce-signing mode; username, password and token are never consulted.
//   - otherwise, credentials embedded in the target server's URL win over
//     the configured ones. Userinfo with a single ':' is a user/password
//     pair; userinfo without one is a bearer token.
//   - with includeAuth false no auth fields are emitted at all.
func (o *Options) ConnectPayload(server Endpoint, includeAuth bool, nonce []byte) string {
	info := connectInfo{
		Lang:        ClientLanguage,
		Version:     ClientVersion,
		Protocol:    clientProtocol,
		Verbose:     o.verbose,
		Pedantic:    o.pedantic,
		TLSRequired: o.TLSRequired(),
		Echo:        !o.noEcho,
	}
	if o.connectionName != "" {
		info.Name = &o.connectionName
	}

	switch {
	case includeAuth && nonce != nil && o.authHandler != nil:
		nkey := o.authHandler.ID()
		sig := o.authHandler.Sign(nonce)
		jwt := o.authHandler.JWT()

		encodedSig := base64.RawURLEncoding.EncodeToString(sig)

		info.NKey = &nkey
		info.Sig = &encodedSig
		info.JWT = &jwt

	case includeAuth:
		user, pass, token := server.credentials()
		if user == "" {
			user = o.username
		}
		if pass == "" {
			pass = o.password
		}
		if token == "" {
			token = o.token
		}
		if user != "" {
			info.User = &user
		}
		if pass != "" {
			info.Pass = &pass
		}
		if token != "" {
			info.AuthToken = &token
		}
	}

	payload, err := json.Marshal(info)
	if err != nil {
		// Marshaling a struct of strings, bools and ints cannot fail.
		panic(err)
	}
	return string(payload)
}
