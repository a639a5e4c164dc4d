package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend-getyourextreme/internal/db"
	"backend-getyourextreme/internal/profile"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service struct {
	secret  []byte
	clients *db.Clients
}

type Claims struct {
	UserID string       `json:"user_id"`
	Role   profile.Role `json:"role"`
	jwt.RegisteredClaims
}

var (
	signTokenFn       = (*Service).signToken
	hashPasswordFn    = bcrypt.GenerateFromPassword
	parseWithClaimsFn = jwt.ParseWithClaims
)

func NewService(secret string, clients *db.Clients) *Service {
	return &Service{
		secret:  []byte(secret),
		clients: clients,
	}
}

// Register creates the account only. The caller signs in separately.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return User{}, errors.New("email and password required")
	}
	q, err := s.clients.Require()
	if err != nil {
		return User{}, err
	}
	hash, err := hashPasswordFn([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
	}

	row := q.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, phone)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, user.ID, user.Email, user.PasswordHash, user.FullName, user.Phone)
	if err := row.Scan(&user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	q, err := s.clients.Require()
	if err != nil {
		return Session{}, err
	}
	row := q.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, created_at
		FROM users WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(req.Email)))

	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	role, err := s.lookupRole(ctx, user.ID)
	if err != nil {
		return Session{}, err
	}
	tokens, err := s.GenerateTokens(ctx, user.ID, role)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Role: role, Tokens: tokens}, nil
}

// Refresh exchanges a stored refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, token string) (TokenResponse, error) {
	claims, err := s.ValidateRefreshToken(ctx, token)
	if err != nil {
		return TokenResponse{}, err
	}
	role, err := s.lookupRole(ctx, claims.UserID)
	if err != nil {
		return TokenResponse{}, err
	}
	return s.GenerateTokens(ctx, claims.UserID, role)
}

// Logout revokes every live refresh token of the user.
func (s *Service) Logout(ctx context.Context, userID string) error {
	q, err := s.clients.Require()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID)
	return err
}

func (s *Service) GenerateTokens(ctx context.Context, userID string, role profile.Role) (TokenResponse, error) {
	access, err := signTokenFn(s, userID, role, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := signTokenFn(s, userID, role, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, userID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefresh, err)
	}

	userID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || userID != claims.UserID || time.Now().After(expiresAt) {
		return nil, ErrInvalidRefresh
	}
	return claims, nil
}

func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	return s.parseToken(token)
}

func (s *Service) lookupRole(ctx context.Context, userID string) (profile.Role, error) {
	q, err := s.clients.Require()
	if err != nil {
		return "", err
	}
	var role string
	err = q.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return profile.RoleCustomer, nil
	}
	if err != nil {
		return "", err
	}
	if r := profile.ParseRole(role); r != nil {
		return *r, nil
	}
	return profile.RoleCustomer, nil
}

func (s *Service) signToken(userID string, role profile.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := parseWithClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	q, err := s.clients.Require()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), userID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	q, err := s.clients.Require()
	if err != nil {
		return "", time.Time{}, err
	}
	row := q.QueryRow(ctx, `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var userID string
	var expiresAt time.Time
	if err := row.Scan(&userID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return userID, expiresAt, nil
}
