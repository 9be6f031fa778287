package model

import "time"

// SessionView is the client-visible session. It is copied field by field
// from the signed token and never recomputed from the directory.
type SessionView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Image        string       `json:"image,omitempty"`
	Role         Role         `json:"role"`
	Phone        string       `json:"phone,omitempty"`
	Address      string       `json:"address,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	IsActive     bool         `json:"isActive"`
	LastLogin    *time.Time   `json:"lastLogin,omitempty"`
	AuthProvider AuthProvider `json:"authProvider"`
	Expires      time.Time    `json:"expires"`
}
