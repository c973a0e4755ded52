package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebank/bytebank-client/internal/docstore"
	"github.com/bytebank/bytebank-client/internal/identity"
)

func seedProfile(t *testing.T, store docstore.Store, uid, name, email string) {
	t.Helper()
	_, err := store.Create(context.Background(), docstore.CollectionUsers, docstore.Document{
		"uid":   uid,
		"name":  name,
		"email": email,
	})
	require.NoError(t, err)
}

func TestProfile_RequiresSession(t *testing.T) {
	svc, _ := newTestService(t, "")

	_, err := svc.Users.Profile(context.Background())
	assert.ErrorIs(t, err, identity.ErrNotAuthenticated)
}

func TestProfile_ReadsOwnDocument(t *testing.T) {
	svc, store := newTestService(t, "user-1")

	seedProfile(t, store, "user-1", "Ada", "ada@bytebank.com")
	seedProfile(t, store, "user-2", "Eve", "eve@bytebank.com")

	user, err := svc.Users.Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@bytebank.com", user.Email)
}

func TestProfile_MissingDocument(t *testing.T) {
	svc, _ := newTestService(t, "user-1")

	_, err := svc.Users.Profile(context.Background())
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestUpdateProfile_MergesFields(t *testing.T) {
	svc, store := newTestService(t, "user-1")
	seedProfile(t, store, "user-1", "Ada", "ada@bytebank.com")

	name := "  Ada L.  "
	require.NoError(t, svc.Users.UpdateProfile(context.Background(), &name, nil))

	user, err := svc.Users.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", user.Name, "name trimmed and updated")
	assert.Equal(t, "ada@bytebank.com", user.Email, "email untouched")
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc, store := newTestService(t, "user-1")
	seedProfile(t, store, "user-1", "Ada", "ada@bytebank.com")

	short := "x"
	assert.ErrorIs(t, svc.Users.UpdateProfile(context.Background(), &short, nil), ErrInvalidName)

	bad := "not-an-email"
	assert.ErrorIs(t, svc.Users.UpdateProfile(context.Background(), nil, &bad), ErrInvalidEmail)
}

func TestUpdateProfile_NoFieldsIsNoop(t *testing.T) {
	svc, _ := newTestService(t, "user-1")

	// no profile document exists, but nothing is read or written either
	assert.NoError(t, svc.Users.UpdateProfile(context.Background(), nil, nil))
}
