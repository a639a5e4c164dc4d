package profile

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"backend-getyourextreme/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	refPrefix       = "GYE"
	refChars        = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	refLength       = 6
	refAttempts     = 5
	uniqueViolation = "23505"
)

type Service struct {
	clients *db.Clients
	log     *zap.Logger
	intn    func(int) int
}

func NewService(clients *db.Clients, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{clients: clients, log: log, intn: rand.IntN}
}

func (s *Service) generateRefCode() string {
	var b strings.Builder
	b.WriteString(refPrefix + "-")
	for i := 0; i < refLength; i++ {
		b.WriteByte(refChars[s.intn(len(refChars))])
	}
	return b.String()
}

// Read fetches the profile row and the role row. A failing source leaves its
// fields nil and is only logged.
func (s *Service) Read(ctx context.Context, userID string) (UserProfile, error) {
	q, err := s.clients.Require()
	if err != nil {
		return UserProfile{}, err
	}

	var out UserProfile
	err = q.QueryRow(ctx, `
		SELECT full_name, phone, ref_code
		FROM profiles WHERE id = $1
	`, userID).Scan(&out.FullName, &out.Phone, &out.RefCode)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		s.log.Warn("profile fetch failed", zap.String("user_id", userID), zap.Error(err))
		out = UserProfile{}
	}

	var role string
	err = q.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	switch {
	case err == nil:
		out.Role = ParseRole(role)
	case !errors.Is(err, pgx.ErrNoRows):
		s.log.Warn("role fetch failed", zap.String("user_id", userID), zap.Error(err))
	}
	return out, nil
}

// Ensure updates name and phone when the profile exists, otherwise inserts it
// with a fresh referral code.
func (s *Service) Ensure(ctx context.Context, userID, fullName, phone string) error {
	q, err := s.clients.Require()
	if err != nil {
		return err
	}
	name, tel := nullable(fullName), nullable(phone)

	var existing *string
	err = q.QueryRow(ctx, `SELECT ref_code FROM profiles WHERE id = $1`, userID).Scan(&existing)
	switch {
	case err == nil:
		if _, err := q.Exec(ctx, `UPDATE profiles SET full_name=$2, phone=$3 WHERE id=$1`, userID, name, tel); err != nil {
			return fmt.Errorf("profile update failed: %w", err)
		}
		return nil
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("profile check failed: %w", err)
	}

	for attempt := 0; attempt < refAttempts; attempt++ {
		_, err := q.Exec(ctx, `
			INSERT INTO profiles (id, full_name, phone, ref_code)
			VALUES ($1,$2,$3,$4)
		`, userID, name, tel, s.generateRefCode())
		if err == nil {
			return nil
		}
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
			return fmt.Errorf("profile setup failed: %w", err)
		}
	}
	return ErrRefCodeExhausted
}

// EnsureRole gives the user the customer role unless a role is already set.
func (s *Service) EnsureRole(ctx context.Context, userID string) error {
	q, err := s.clients.Require()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, string(RoleCustomer))
	if err != nil {
		return fmt.Errorf("role setup failed: %w", err)
	}
	return nil
}

// Load reads the profile and creates it on first use from the account's
// full name and phone.
func (s *Service) Load(ctx context.Context, userID string) (UserProfile, error) {
	p, err := s.Read(ctx, userID)
	if err != nil {
		return UserProfile{}, err
	}
	if p.RefCode != nil || p.FullName != nil {
		return p, nil
	}

	q, _ := s.clients.Require()
	var fullName, phone string
	err = q.QueryRow(ctx, `
		SELECT COALESCE(full_name, ''), COALESCE(phone, '')
		FROM users WHERE id = $1
	`, userID).Scan(&fullName, &phone)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		s.log.Warn("account lookup failed", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.Ensure(ctx, userID, fullName, phone); err != nil {
		s.log.Warn("profile ensure failed", zap.String("user_id", userID), zap.Error(err))
		return p, nil
	}
	if err := s.EnsureRole(ctx, userID); err != nil {
		s.log.Warn("role ensure failed", zap.String("user_id", userID), zap.Error(err))
	}
	return s.Read(ctx, userID)
}

func (s *Service) ListRegistered(ctx context.Context) ([]RegisteredUser, error) {
	q, err := s.clients.Require()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `
		SELECT id::text, full_name, phone, ref_code, created_at
		FROM profiles
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("users list failed: %w", err)
	}
	defer rows.Close()

	var (
		users []RegisteredUser
		ids   []string
	)
	for rows.Next() {
		var u RegisteredUser
		if err := rows.Scan(&u.ID, &u.FullName, &u.Phone, &u.RefCode, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []RegisteredUser{}, nil
	}

	roleRows, err := q.Query(ctx, `SELECT user_id::text, role FROM user_roles WHERE user_id::text = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("user roles fetch failed: %w", err)
	}
	defer roleRows.Close()

	roles := make(map[string]*Role, len(ids))
	for roleRows.Next() {
		var id, role string
		if err := roleRows.Scan(&id, &role); err != nil {
			return nil, err
		}
		if r := ParseRole(role); r != nil {
			roles[id] = r
		}
	}
	if err := roleRows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Role = roles[users[i].ID]
	}
	return users, nil
}

func nullable(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
