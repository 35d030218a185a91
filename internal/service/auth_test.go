package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAccountAndLogin(t *testing.T) {
	st := newTestStore(t)
	svc := NewAuthService(st)
	ctx := context.Background()

	require.NoError(t, svc.CreateAccount(ctx, "kyle@example.com", "hunter2", "Kyle"))

	acct, err := svc.Login(ctx, "kyle@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "kyle@example.com", acct.Email)
	require.Equal(t, "Kyle", acct.Name)
	require.Greater(t, acct.ID, int64(0))
}

func TestLoginWrongPassword(t *testing.T) {
	st := newTestStore(t)
	svc := NewAuthService(st)
	ctx := context.Background()

	require.NoError(t, svc.CreateAccount(ctx, "a@b.com", "right", ""))

	_, err := svc.Login(ctx, "a@b.com", "wrong")
	require.ErrorContains(t, err, "wrong password")
}

func TestLoginUnknownUser(t *testing.T) {
	st := newTestStore(t)
	svc := NewAuthService(st)

	_, err := svc.Login(context.Background(), "nobody@b.com", "x")
	require.ErrorContains(t, err, "user not found")
}

func TestCreateAccountIdempotent(t *testing.T) {
	st := newTestStore(t)
	svc := NewAuthService(st)
	ctx := context.Background()

	require.NoError(t, svc.CreateAccount(ctx, "a@b.com", "first", "A"))
	require.NoError(t, svc.CreateAccount(ctx, "a@b.com", "second", "A"))

	// First password still wins; the duplicate insert was a no-op.
	_, err := svc.Login(ctx, "a@b.com", "first")
	require.NoError(t, err)

	row, err := st.QuerySingle(ctx, `SELECT COUNT(*) AS n FROM auth_users`)
	require.NoError(t, err)
	require.Equal(t, int64(1), row.Int("n"))
}

func TestAccountNameDefaultsToLocalPart(t *testing.T) {
	st := newTestStore(t)
	svc := NewAuthService(st)
	ctx := context.Background()

	require.NoError(t, svc.CreateAccount(ctx, "scott@example.com", "pw", ""))

	acct, err := svc.Login(ctx, "scott@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "scott", acct.Name)
}

func TestLocalPart(t *testing.T) {
	require.Equal(t, "kyle", localPart("kyle@example.com"))
	require.Equal(t, "no-at-sign", localPart("no-at-sign"))
}
