package natsclient

import (
	"os"

	"github.com/nats-io/nkeys"
)

// AuthHandler is the capability used for nonce-signing authentication.
// At handshake time the connection engine asks for the public identity key,
// a signature over the server nonce, and an optional user JWT. Any of the
// three may be absent; absent values are serialized as empty strings and the
// server decides whether the credentials are acceptable.
//
// Implementations must be safe for concurrent invocation when the engine
// dials multiple servers in parallel.
type AuthHandler interface {
	// ID returns the public identity key, or "" when unavailable.
	ID() string
	// Sign signs the server nonce, or returns nil when signing fails.
	Sign(nonce []byte) []byte
	// JWT returns the user JWT, or "" when none is configured.
	JWT() string
}

// nkeyAuthHandler signs nonces with an nkeys seed, optionally carrying a
// user JWT alongside.
type nkeyAuthHandler struct {
	keyPair nkeys.KeyPair
	jwt     string
}

// NewAuthHandlerFromSeed builds an AuthHandler from a raw nkeys seed,
// for example a user seed starting with "SU".
func NewAuthHandlerFromSeed(seed []byte) (AuthHandler, error) {
	keyPair, err := nkeys.FromSeed(seed)
	if err != nil {
		return nil, err
	}
	return &nkeyAuthHandler{keyPair: keyPair}, nil
}

// NewAuthHandlerFromKeyPair builds an AuthHandler around an existing key
// pair, optionally attaching a user JWT.
func NewAuthHandlerFromKeyPair(keyPair nkeys.KeyPair, jwt string) AuthHandler {
	return &nkeyAuthHandler{keyPair: keyPair, jwt: jwt}
}

// NewAuthHandlerFromCredsFile builds an AuthHandler from a decorated
// credentials file that carries a user JWT block and an nkeys seed block.
func NewAuthHandlerFromCredsFile(path string) (AuthHandler, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jwt, err := nkeys.ParseDecoratedJWT(contents)
	if err != nil {
		return nil, err
	}
	keyPair, err := nkeys.ParseDecoratedNKey(contents)
	if err != nil {
		return nil, err
	}
	return &nkeyAuthHandler{keyPair: keyPair, jwt: jwt}, nil
}

func (h *nkeyAuthHandler) ID() string {
	pub, err := h.keyPair.PublicKey()
	if err != nil {
		return ""
	}
	return pub
}

func (h *nkeyAuthHandler) Sign(nonce []byte) []byte {
	sig, err := h.keyPair.Sign(nonce)
	if err != nil {
		return nil
	}
	return sig
}

func (h *nkeyAuthHandler) JWT() string {
	return h.jwt
}
