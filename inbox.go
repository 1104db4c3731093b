package natsclient

import (
	"strings"

	"github.com/google/uuid"
)

// NewInbox returns a unique reply subject rooted at the configured inbox
// prefix.
func (o *Options) NewInbox() string {
	return o.inboxPrefix + inboxToken()
}

func inboxToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
