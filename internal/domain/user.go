package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Role         Role      `json:"role"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminUser is the admin list row: a user plus their confirmed appointment count.
type AdminUser struct {
	User
	AppointmentCount int `json:"appointment_count"`
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

func (r *RegisterReq) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *RegisterReq) Validate() error {
	if len(r.Name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if !strings.Contains(r.Email, "@") || strings.ContainsAny(r.Email, " \t") {
		return fmt.Errorf("invalid email")
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginReq) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginRes struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}
