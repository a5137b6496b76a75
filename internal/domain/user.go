package domain

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Lastname     string     `json:"lastname"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password"`
	Active       bool       `json:"active"`
	RoleID       int        `json:"role_id"`
	AvatarURL    *string    `json:"avatar_url"`
	Deleted      bool       `json:"deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	LinkedStores []string   `json:"linked_stores"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type UpdateUserRequest struct {
	ID        int     `json:"id"`
	Name      *string `json:"name"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email"`
	Active    *bool   `json:"active"`
	RoleID    *int    `json:"role_id"`
	AvatarURL *string `json:"avatar_url"`
	Deleted   *bool   `json:"deleted"`
}

type Claims struct {
	UserID        int
	UserName      string
	UserLastname  string
	UserEmail     string
	UserActive    bool
	UserRoleID    int
	UserAvatarURL *string
	UserStores    []string
	jwt.RegisteredClaims
}

const (
	RoleAdmin      = 1
	RoleSupervisor = 2
	RoleUser       = 3
)

// IsAdmin indica se o usuário enxerga todas as lojas
func (c *Claims) IsAdmin() bool {
	return c != nil && c.UserRoleID == RoleAdmin
}

// HasStoreScope indica se o usuário está restrito às lojas vinculadas
func (c *Claims) HasStoreScope() bool {
	return c != nil && !c.IsAdmin() && len(c.UserStores) > 0
}

// CanAccessCity verifica se a cidade pertence às lojas vinculadas ao usuário.
// Usuários sem lojas vinculadas não têm restrição.
func (c *Claims) CanAccessCity(city string) bool {
	if !c.HasStoreScope() {
		return true
	}
	for _, store := range c.UserStores {
		if strings.EqualFold(strings.TrimSpace(store), strings.TrimSpace(city)) {
			return true
		}
	}
	return false
}
