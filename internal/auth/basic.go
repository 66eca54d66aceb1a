package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrMissingCredentials is returned when the request carries no usable Basic header
	ErrMissingCredentials = errors.New("authentication required")
	// ErrInvalidCredentials is returned when the credentials do not match
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authenticator decides whether a request may proceed
type Authenticator interface {
	// Authenticate returns nil for an authorized request
	Authenticate(r *http.Request) error
	// Challenge is the WWW-Authenticate header value sent with a 401
	Challenge() string
}

// BasicAuthenticator checks HTTP Basic credentials against one static user.
// The password is compared either in plain text or against a bcrypt hash.
type BasicAuthenticator struct {
	user         string
	password     string
	passwordHash string
	realm        string
}

// NewBasicAuthenticator creates a Basic authenticator. When passwordHash is not
// empty it is used instead of password.
func NewBasicAuthenticator(user, password, passwordHash string) *BasicAuthenticator {
	return &BasicAuthenticator{
		user:         user,
		password:     password,
		passwordHash: passwordHash,
		realm:        "Protected",
	}
}

// Challenge implements Authenticator
func (a *BasicAuthenticator) Challenge() string {
	return `Basic realm="` + a.realm + `"`
}

// Authenticate implements Authenticator
func (a *BasicAuthenticator) Authenticate(r *http.Request) error {
	user, pass, err := parseBasic(r.Header.Get("Authorization"))
	if err != nil {
		return err
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1

	var passOK bool
	if a.passwordHash != "" {
		passOK = ComparePassword(a.passwordHash, pass) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(a.password)) == 1
	}

	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// parseBasic extracts user and password from a Basic Authorization header.
// The password may contain colons; the user may not.
func parseBasic(header string) (string, string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Basic") {
		return "", "", ErrMissingCredentials
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	return user, pass, nil
}
