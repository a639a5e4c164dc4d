// Package session tracks the signed-in user and profile of a client and
// reconciles the stored session, the cached profile and fresh backend reads.
package session

import (
	"context"
	"errors"
	"time"

	"backend-getyourextreme/internal/profile"
)

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type Session struct {
	User         User         `json:"user"`
	Role         profile.Role `json:"role,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return s == nil || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}

// Event names follow the auth state notifications a client SDK emits.
type Event string

const (
	EventInitialSession Event = "INITIAL_SESSION"
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
	EventUserUpdated    Event = "USER_UPDATED"
)

type ModalMode string

const (
	ModeSignIn ModalMode = "signin"
	ModeSignUp ModalMode = "signup"
)

type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
}

type Authenticator interface {
	Configured() bool
	GetSession(ctx context.Context) (*Session, error)
	RefreshSession(ctx context.Context) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, input SignUpInput) error
	SignOut(ctx context.Context) error
	OnAuthStateChange(fn func(Event, *Session)) (unsubscribe func())
}

type ProfileFetcher interface {
	FetchProfile(ctx context.Context, user User) (profile.UserProfile, error)
}

type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// State is a snapshot; Manager never hands out its own pointers.
type State struct {
	User      *User
	Profile   *profile.UserProfile
	Loading   bool
	ModalOpen bool
	ModalMode ModalMode
}

var (
	ErrNoSession     = errors.New("auth session missing")
	ErrNotConfigured = errors.New("auth backend is not configured")
)
