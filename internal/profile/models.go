package profile

import (
	"errors"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// ParseRole returns nil for anything other than a known role.
func ParseRole(v string) *Role {
	switch r := Role(v); r {
	case RoleAdmin, RoleCustomer:
		return &r
	default:
		return nil
	}
}

// UserProfile mirrors the profiles row plus the user's role. Nil fields are
// unknown, not empty.
type UserProfile struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	RefCode  *string `json:"refCode"`
	Role     *Role   `json:"role"`
}

func (p UserProfile) IsAdmin() bool {
	return p.Role != nil && *p.Role == RoleAdmin
}

// Merge combines a fresh profile with a cached one field by field: the fresh
// value wins when set, the cached one fills the gaps.
func Merge(cached *UserProfile, fresh UserProfile) UserProfile {
	if cached == nil {
		return fresh
	}
	return UserProfile{
		FullName: pick(fresh.FullName, cached.FullName),
		Phone:    pick(fresh.Phone, cached.Phone),
		RefCode:  pick(fresh.RefCode, cached.RefCode),
		Role:     pick(fresh.Role, cached.Role),
	}
}

func pick[T any](fresh, cached *T) *T {
	if fresh != nil {
		return fresh
	}
	return cached
}

type RegisteredUser struct {
	ID        string     `json:"id"`
	FullName  *string    `json:"fullName"`
	Phone     *string    `json:"phone"`
	RefCode   *string    `json:"refCode"`
	Role      *Role      `json:"role"`
	CreatedAt *time.Time `json:"createdAt"`
}

type UpdateInput struct {
	FullName string `json:"fullName" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

var ErrRefCodeExhausted = errors.New("could not generate unique ref code")
