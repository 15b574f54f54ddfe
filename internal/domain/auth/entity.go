// internal/domain/auth/entity.go
package auth

import "time"

// UserProfile is the signed in user as returned by the backend.
type UserProfile struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	Phone     string   `json:"phone,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Avatar    string   `json:"avatar,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
}

// HasRole checks if the profile contains a specific role
func (u *UserProfile) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenInfo is what can be read from the bearer token without verifying it.
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	Issuer    string     `json:"issuer,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

// DTOs

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

type LogoutResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SessionView struct {
	IsAuthenticated bool         `json:"is_authenticated"`
	User            *UserProfile `json:"user,omitempty"`
	UserAvatar      string       `json:"user_avatar,omitempty"`
	Token           *TokenInfo   `json:"token,omitempty"`
}
