package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/bytebank/bytebank-client/internal/docstore"
	"github.com/bytebank/bytebank-client/internal/identity"
)

// User represents the signed-in user's profile.
type User struct {
	ID    string
	Name  string
	Email string
}

// ErrInvalidEmail is returned when an email fails the shape check.
var ErrInvalidEmail = errors.New("service: invalid email address")

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// UserService reads and updates the current user's profile document. Profile
// documents carry a uid field linking them to the auth identity; the store
// itself assigns document ids.
type UserService struct {
	store   docstore.Store
	session identity.Session
}

// Profile fetches the current user's profile. Unlike list operations this is
// a hard failure when nobody is signed in.
func (s *UserService) Profile(ctx context.Context) (*User, error) {
	doc, err := s.profileDocument(ctx)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:    doc.String("uid"),
		Name:  doc.String("name"),
		Email: doc.String("email"),
	}, nil
}

// UpdateProfile merges name and/or email into the profile document.
func (s *UserService) UpdateProfile(ctx context.Context, name, email *string) error {
	partial := docstore.Document{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if len(trimmed) < 2 {
			return ErrInvalidName
		}
		partial["name"] = trimmed
	}
	if email != nil {
		if !emailPattern.MatchString(*email) {
			return ErrInvalidEmail
		}
		partial["email"] = *email
	}
	if len(partial) == 0 {
		return nil
	}

	doc, err := s.profileDocument(ctx)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, docstore.CollectionUsers, doc.ID(), partial)
}

func (s *UserService) profileDocument(ctx context.Context) (docstore.Document, error) {
	userID, ok := s.session.CurrentUserID()
	if !ok {
		return nil, identity.ErrNotAuthenticated
	}

	docs, err := s.store.Query(ctx, docstore.CollectionUsers, docstore.Filter{
		Field:  "uid",
		Equals: userID,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	return docs[0], nil
}
