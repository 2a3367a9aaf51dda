package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles de usuário suportados pela aplicação
const (
	RoleAdmin  = 1
	RoleSeller = 2
	RoleClient = 3
)

type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Lastname     string     `json:"lastname"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password,omitempty"`
	Active       bool       `json:"active"`
	RoleID       int        `json:"role_id"`
	AvatarURL    *string    `json:"avatar_url"`
	JoinedAt     *time.Time `json:"joined_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type UpdateUserRequest struct {
	ID       int     `json:"id"`
	Name     *string `json:"name"`
	Lastname *string `json:"lastname"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Active   *bool   `json:"active"`
	RoleID   *int    `json:"role_id"`
}

// UserSummary é a projeção de usuário embutida em vendas e compras
type UserSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	RoleID   int    `json:"role_id"`
}

// DisplayName é o nome exibido nos filtros de vendedor dos relatórios
func (u UserSummary) DisplayName() string {
	if u.Lastname == "" {
		return u.Name
	}
	return u.Name + " " + u.Lastname
}

type Claims struct {
	UserID       int
	UserName     string
	UserLastname string
	UserEmail    string
	UserActive   bool
	UserRoleID   int
	jwt.RegisteredClaims
}
