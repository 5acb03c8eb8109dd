package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmate_backend/internal/config"
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/util"
)

func newAuthEnv(t *testing.T) (*testEnv, *AuthService) {
	env := newTestEnv(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-not-for-production-use"
	cfg.JWT.ExpireTime = time.Hour
	return env, NewAuthService(env.userRepo, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	env, auth := newAuthEnv(t)
	_ = env

	user := &model.User{Name: "alice", Email: "alice@example.com", Password: "s3cret"}
	require.NoError(t, auth.Register(user))

	// 密码入库前已散列
	assert.NotEqual(t, "s3cret", user.Password)

	token, err := auth.Login("alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, auth.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, auth := newAuthEnv(t)

	require.NoError(t, auth.Register(&model.User{Name: "alice", Email: "dup@example.com", Password: "pw1"}))

	err := auth.Register(&model.User{Name: "impostor", Email: "dup@example.com", Password: "pw2"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin_BadCredentials(t *testing.T) {
	_, auth := newAuthEnv(t)

	require.NoError(t, auth.Register(&model.User{Name: "alice", Email: "alice@example.com", Password: "right"}))

	_, err := auth.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredential)

	_, err = auth.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, util.ErrInvalidCredential)
}
