package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t))

	u, err := svc.Register(ctx, "  Ada@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	got, err := svc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredential)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrBadCredential)
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t))

	_, err := svc.Register(ctx, "a@b.c", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Register(ctx, "a@b.c", "123456")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "A@B.C", "abcdef")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthGet(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t))
	u, err := svc.Register(ctx, "me@x.io", "password")
	require.NoError(t, err)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@x.io", got.Email)

	_, err = svc.Get(ctx, u.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}
