package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	secret := []byte("test-secret")
	svc, err := NewUserService("admin", "s3cret", secret)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginUserRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), LoginUserRequest{Username: "root", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(context.Background(), LoginUserRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)

	token, err := jwt.Parse(res.Token, func(*jwt.Token) (interface{}, error) { return secret, nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, RoleAdmin, claims["role"])
}
