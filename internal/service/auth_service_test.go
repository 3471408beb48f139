package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/model"
)

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc := NewAuthService("test-secret", 15*time.Minute, 24*time.Hour, users, tokens)
	return svc, users, tokens
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()

	user, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "ana",
		Password: "secret-pass-1",
		FullName: "Ana Torres",
		Role:     model.RoleStudent,
		Campus:   "north",
	})
	require.NoError(t, err)
	require.Equal(t, "ana", user.Username)
	require.Equal(t, model.RoleStudent, user.Role)

	pair, err := svc.Login(context.Background(), "ana", "secret-pass-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Equal(t, user.ID, pair.User.ID)

	claims, err := svc.ValidateToken(pair.AccessToken, "access")
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, model.RoleStudent, claims.Role)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "ana",
		Password: "secret-pass-1",
		FullName: "Ana Torres",
		Role:     model.RoleStudent,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ana", "wrong-password")
	require.Error(t, err)

	_, err = svc.Login(context.Background(), "nobody", "secret-pass-1")
	require.Error(t, err)
}

func TestAuthServiceDuplicateUsername(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()

	req := model.RegisterRequest{
		Username: "ana",
		Password: "secret-pass-1",
		FullName: "Ana Torres",
		Role:     model.RoleStudent,
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
}

func TestAuthServiceRefreshRotation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "ana",
		Password: "secret-pass-1",
		FullName: "Ana Torres",
		Role:     model.RoleStudent,
	})
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "ana", "secret-pass-1")
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, renewed.AccessToken)

	// The old refresh token is burned on rotation.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
}

func TestAuthServiceTokenTypeEnforced(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "ana",
		Password: "secret-pass-1",
		FullName: "Ana Torres",
		Role:     model.RoleStudent,
	})
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "ana", "secret-pass-1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken, "access")
	require.Error(t, err)

	_, err = svc.ValidateToken("not-a-token", "access")
	require.Error(t, err)
}

func TestAuthServiceEnsureDefaultAdmin(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService()

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))

	admin, err := users.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, admin.Role)

	// Seeding is idempotent once any user exists.
	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))
	count, err := users.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
