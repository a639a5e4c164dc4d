package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"backend-getyourextreme/internal/auth"
	"backend-getyourextreme/internal/kv"
	"backend-getyourextreme/internal/profile"

	"github.com/golang-jwt/jwt/v5"
)

// StorageKey holds the persisted session. The sb- prefix makes it part of
// the keys wiped on sign-out.
const StorageKey = "sb-gye-auth-token"

// RemoteAuth is an Authenticator and ProfileFetcher backed by the HTTP auth
// and profile routes of the API server.
type RemoteAuth struct {
	baseURL string
	client  *http.Client
	storage kv.Storage
	now     func() time.Time

	mu        sync.Mutex
	listeners map[int]func(Event, *Session)
	nextID    int
}

func NewRemoteAuth(baseURL string, storage kv.Storage, client *http.Client) *RemoteAuth {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if storage == nil {
		storage = kv.NewMemory()
	}
	return &RemoteAuth{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:    client,
		storage:   storage,
		now:       time.Now,
		listeners: map[int]func(Event, *Session){},
	}
}

func (a *RemoteAuth) Configured() bool {
	return a.baseURL != ""
}

// GetSession returns the stored session while its access token is still
// valid. An expired session reads as absent and is left in storage so the
// caller can try RefreshSession once.
func (a *RemoteAuth) GetSession(ctx context.Context) (*Session, error) {
	sess, err := a.load(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	if sess.Expired(a.now()) {
		return nil, nil
	}
	return sess, nil
}

func (a *RemoteAuth) RefreshSession(ctx context.Context) (*Session, error) {
	sess, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.RefreshToken == "" {
		return nil, ErrNoSession
	}

	var tokens auth.TokenResponse
	body := auth.RefreshRequest{RefreshToken: sess.RefreshToken}
	if err := a.requestJSON(ctx, http.MethodPost, "/auth/refresh", "", body, &tokens); err != nil {
		return nil, err
	}
	sess.AccessToken = tokens.AccessToken
	sess.RefreshToken = tokens.RefreshToken
	sess.ExpiresAt = a.expiresAt(tokens)
	if err := a.save(ctx, sess); err != nil {
		return nil, err
	}
	a.emit(EventTokenRefreshed, sess)
	return sess, nil
}

func (a *RemoteAuth) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp auth.Session
	body := auth.LoginRequest{Email: email, Password: password}
	if err := a.requestJSON(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	sess := &Session{
		User:         User{ID: resp.User.ID, Email: resp.User.Email, FullName: resp.User.FullName},
		Role:         resp.Role,
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
		ExpiresAt:    a.expiresAt(resp.Tokens),
	}
	if err := a.save(ctx, sess); err != nil {
		return nil, err
	}
	a.emit(EventSignedIn, sess)
	return sess, nil
}

func (a *RemoteAuth) SignUp(ctx context.Context, input SignUpInput) error {
	body := auth.RegisterRequest{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Phone:    input.Phone,
	}
	return a.requestJSON(ctx, http.MethodPost, "/auth/register", "", body, nil)
}

// SignOut revokes the refresh tokens server side and always drops the local
// session.
func (a *RemoteAuth) SignOut(ctx context.Context) error {
	sess, _ := a.load(ctx)
	var err error
	if sess != nil && sess.AccessToken != "" {
		err = a.requestJSON(ctx, http.MethodPost, "/auth/logout", sess.AccessToken, nil, nil)
	}
	if rmErr := a.storage.Remove(ctx, StorageKey); rmErr != nil && err == nil {
		err = rmErr
	}
	a.emit(EventSignedOut, nil)
	return err
}

func (a *RemoteAuth) OnAuthStateChange(fn func(Event, *Session)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *RemoteAuth) FetchProfile(ctx context.Context, user User) (profile.UserProfile, error) {
	sess, err := a.load(ctx)
	if err != nil {
		return profile.UserProfile{}, err
	}
	if sess == nil || sess.User.ID != user.ID {
		return profile.UserProfile{}, ErrNoSession
	}
	var out profile.UserProfile
	if err := a.requestJSON(ctx, http.MethodGet, "/profile/me", sess.AccessToken, nil, &out); err != nil {
		return profile.UserProfile{}, err
	}
	return out, nil
}

func (a *RemoteAuth) emit(event Event, sess *Session) {
	a.mu.Lock()
	fns := make([]func(Event, *Session), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		var copied *Session
		if sess != nil {
			c := *sess
			copied = &c
		}
		fn(event, copied)
	}
}

// expiresAt reads the exp claim of the access token; the signature is the
// server's concern.
func (a *RemoteAuth) expiresAt(tokens auth.TokenResponse) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokens.AccessToken, claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	if tokens.ExpiresIn > 0 {
		return a.now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

func (a *RemoteAuth) load(ctx context.Context) (*Session, error) {
	raw, ok, err := a.storage.Get(ctx, StorageKey)
	if err != nil || !ok {
		return nil, err
	}
	var sess Session
	if json.Unmarshal([]byte(raw), &sess) != nil || sess.User.ID == "" {
		return nil, nil
	}
	return &sess, nil
}

func (a *RemoteAuth) save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return a.storage.Set(ctx, StorageKey, string(payload))
}

func (a *RemoteAuth) requestJSON(ctx context.Context, method, path, token string, body, out any) error {
	if a.baseURL == "" {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth api failed (%d)", e.Status)
}
