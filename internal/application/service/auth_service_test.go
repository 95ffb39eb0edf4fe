package service

import (
	"net/http"
	"testing"

	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.auth.Login(env.ctx, &LoginInput{Email: "ADMIN@test.local ", Password: testAdminPassword})
	require.NoError(t, err)
	assert.Equal(t, env.admin.StaffID, out.Staff.ID)
	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, int64(3600), out.ExpiresIn)
	require.NotNil(t, out.Staff.LastLoginAt)
	assert.True(t, out.Staff.LastLoginAt.Equal(env.clock.Now()))

	claims, err := utils.NewJWTManager("test-secret", 0).ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, env.store.ID, claims.StoreID)
	assert.Equal(t, string(enum.StaffRoleAdmin), claims.Role)
	assert.Contains(t, claims.Permissions, enum.PermManageConfig)

	_, err = env.auth.Login(env.ctx, &LoginInput{Email: "admin@test.local", Password: "wrong"})
	assertAppError(t, err, http.StatusUnauthorized)

	_, err = env.auth.Login(env.ctx, &LoginInput{Email: "nobody@test.local", Password: testAdminPassword})
	assertAppError(t, err, http.StatusUnauthorized)
}

func TestAuthService_LoginRejectsInactiveStaff(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.staff.DeactivateStaff(env.ctx, env.admin, env.cashier.StaffID)
	require.NoError(t, err)

	_, err = env.auth.Login(env.ctx, &LoginInput{Email: "carl@test.local", Password: "cashier-secret"})
	assertAppError(t, err, http.StatusForbidden)

	_, err = env.auth.LoginWithPIN(env.ctx, &PINLoginInput{StoreID: env.store.ID, PIN: testCashierPIN})
	assertAppError(t, err, http.StatusUnauthorized)
}

func TestAuthService_LoginWithPIN(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.auth.LoginWithPIN(env.ctx, &PINLoginInput{StoreID: env.store.ID, PIN: testCashierPIN})
	require.NoError(t, err)
	assert.Equal(t, env.cashier.StaffID, out.Staff.ID)

	_, err = env.auth.LoginWithPIN(env.ctx, &PINLoginInput{StoreID: env.store.ID, PIN: "0000"})
	assertAppError(t, err, http.StatusUnauthorized)

	_, err = env.auth.LoginWithPIN(env.ctx, &PINLoginInput{StoreID: env.store.ID, PIN: "12"})
	assertAppError(t, err, http.StatusUnauthorized)

	_, err = env.auth.LoginWithPIN(env.ctx, &PINLoginInput{StoreID: env.cashier.StaffID, PIN: testCashierPIN})
	assertAppError(t, err, http.StatusNotFound)
}
