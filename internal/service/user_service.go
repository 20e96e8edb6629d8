package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login.
var ErrInvalidCredentials = errors.New("invalid username or password")

const (
	RoleAdmin = "admin"
	tokenTTL  = 24 * time.Hour
)

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// UserService authenticates the single operator account.
type UserService interface {
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
}

type userService struct {
	username string
	hash     []byte
	secret   []byte
	now      func() time.Time
}

// NewUserService hashes password once so the plain text is not kept.
func NewUserService(username, password string, secret []byte) (UserService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &userService{username: username, hash: hash, secret: secret, now: time.Now}, nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	if req.Username != s.username {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	exp := s.now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  s.username,
		"role": RoleAdmin,
		"exp":  exp.Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenResponse{Token: tokenString, ExpiresAt: exp.Unix()}, nil
}
