// Package identity holds the session collaborator used to stamp ownerId on
// writes and scope list queries.
package identity

import "errors"

// ErrNotAuthenticated is returned by operations that require a signed-in user.
var ErrNotAuthenticated = errors.New("identity: no authenticated user")

// Session exposes the current user's identity and API credential.
type Session interface {
	// CurrentUserID returns the signed-in user's id, or false when signed out.
	CurrentUserID() (string, bool)
	// Token returns the bearer token for the remote store, or "".
	Token() string
}

// StaticSession is a fixed session, fed from config for the CLI and from
// literals in tests.
type StaticSession struct {
	UserID      string
	BearerToken string
}

var _ Session = (*StaticSession)(nil)

func (s *StaticSession) CurrentUserID() (string, bool) {
	if s == nil || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}

func (s *StaticSession) Token() string {
	if s == nil {
		return ""
	}
	return s.BearerToken
}
