package users_test

import (
	"context"
	"testing"

	"github.com/fjod/go_shop/internal/db"
	"github.com/fjod/go_shop/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestService(t *testing.T) *users.Service {
	t.Helper()

	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations(conn, "../../migrations"))
	return users.NewService(conn, []byte("test-secret"))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "s3cret", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.ID)

	got, token, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.ID)
	assert.NotEmpty(t, token)

	sub, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw", "a@b.c")
	require.ErrorIs(t, err, users.ErrMissingField)
	_, err = svc.Register(ctx, "bob", "", "a@b.c")
	require.ErrorIs(t, err, users.ErrMissingField)
	_, err = svc.Register(ctx, "bob", "pw", "")
	require.ErrorIs(t, err, users.ErrMissingField)
}

func TestRegister_DuplicateUser(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw2", "other@example.com")
	require.ErrorIs(t, err, users.ErrUserExists)

	_, err = svc.Register(ctx, "alice2", "pw2", "alice@example.com")
	require.ErrorIs(t, err, users.ErrUserExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "right", "alice@example.com")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := setupTestService(t)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	require.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.VerifyToken("not.a.token")
	require.Error(t, err)
}
