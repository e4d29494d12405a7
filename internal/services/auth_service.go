package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eticket/internal/domain"
	"eticket/internal/domain/models"
	"eticket/internal/store"
	"eticket/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Credentials is a register or login payload.
type Credentials struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Store     store.Store
	Secret    []byte
	Now       func() time.Time
	RequestID string
}

func (s AuthService) Register(ctx context.Context, cred Credentials) (models.User, error) {
	username := strings.TrimSpace(cred.Username)
	if username == "" || cred.Password == "" {
		return models.User{}, domain.ValidationError{Field: "username", Msg: "username and password are required"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "password cannot be used", Err: err}
	}
	u, err := s.Store.CreateUser(ctx, models.User{Username: username, PasswordHash: string(hash)})
	if errors.Is(err, store.ErrDuplicate) {
		return models.User{}, domain.ConflictError{Resource: "user", Msg: "username already taken", Err: err}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to create user", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "register", fmt.Sprintf("user_id=%d", u.ID))
	return u, nil
}

// Login checks the password and issues a signed HS256 token.
func (s AuthService) Login(ctx context.Context, cred Credentials) (string, models.User, error) {
	invalid := domain.UnauthorizedError{Msg: "invalid username or password"}

	u, err := s.Store.GetUserByUsername(ctx, strings.TrimSpace(cred.Username))
	if errors.Is(err, store.ErrNotFound) {
		return "", models.User{}, invalid
	}
	if err != nil {
		return "", models.User{}, domain.InternalError{Msg: "failed to load user", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cred.Password)); err != nil {
		return "", models.User{}, invalid
	}

	now := s.now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", models.User{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	return token, u, nil
}

// ParseToken validates a bearer token and returns its claims.
func (s AuthService) ParseToken(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid or expired token", Err: err}
	}
	return claims, nil
}

// UserFromToken adapts ParseToken for the auth middleware.
func (s AuthService) UserFromToken(raw string) (int64, string, error) {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return 0, "", err
	}
	return claims.UserID, claims.Username, nil
}

func (s AuthService) GetUser(ctx context.Context, id int64) (models.User, error) {
	u, err := s.Store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to load user", Err: err}
	}
	return u, nil
}

func (s AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
