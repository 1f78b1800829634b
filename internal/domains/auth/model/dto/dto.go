package dto

import (
	"strings"
	"time"

	"hallseat/infras/jwt"
	userModel "hallseat/internal/domains/user/model"
	userDto "hallseat/internal/domains/user/model/dto"
	"hallseat/shared/constant"
	gModel "hallseat/shared/model"
	"hallseat/shared/timezone"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	now := timezone.Now()

	return userModel.User{
		ID:        uuid.NewString(),
		Email:     NormalizeEmail(r.Email),
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Role:      constant.RoleStudent,
		IsActive:  true,
		Metadata:  gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

type RegisterResponse = userDto.UserResponse

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	TokenType    string               `json:"token_type"`
	ExpiresIn    int64                `json:"expires_in"`
	User         userDto.UserResponse `json:"user"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.TokenType = tokenPair.TokenType
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.TokenType = tokenPair.TokenType
	r.ExpiresIn = tokenPair.ExpiresIn
}

// LogoutRequest optionally carries the refresh token so it is revoked with the access token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}

type SessionResponse struct {
	User      userDto.UserResponse `json:"user"`
	ExpiresAt string               `json:"expires_at,omitempty"`
	ExpiresIn int64                `json:"expires_in"`
}

// FromExpiry fills the remaining session lifetime, clamped at zero.
func (s *SessionResponse) FromExpiry(expiresAt time.Time) {
	if expiresAt.IsZero() {
		return
	}

	s.ExpiresAt = timezone.Format(expiresAt, constant.DateFormat)
	s.ExpiresIn = max(int64(time.Until(expiresAt).Seconds()), 0)
}
