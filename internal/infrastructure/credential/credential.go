// Package credential loads the HuggingFace API token used for every upstream call.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrCredentialUnavailable reports that no token could be read. Callers treat it as
// degraded mode: tools answer with a "not configured" error instead of calling upstream.
var ErrCredentialUnavailable = errors.New("credential unavailable: HuggingFace API token is not configured")

// Credential is an immutable bearer token. The zero value means "not configured".
type Credential struct {
	token  string
	source string
}

// New wraps a token that was obtained elsewhere (tests, flags).
func New(token string) Credential {
	return Credential{token: strings.TrimSpace(token)}
}

// LoadCredential reads and trims the token stored at path.
func LoadCredential(path string) (Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: read %s: %v", ErrCredentialUnavailable, path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return Credential{}, fmt.Errorf("%w: %s is empty", ErrCredentialUnavailable, path)
	}
	return Credential{token: token, source: path}, nil
}

// IsZero reports whether no token is present.
func (c Credential) IsZero() bool {
	return c.token == ""
}

// Source is the file the token was read from, if any.
func (c Credential) Source() string {
	return c.source
}

// AuthorizationHeader returns the value for the Authorization header.
func (c Credential) AuthorizationHeader() string {
	return "Bearer " + c.token
}

// String never exposes the token.
func (c Credential) String() string {
	if c.IsZero() {
		return "credential(none)"
	}
	return "credential(redacted)"
}
