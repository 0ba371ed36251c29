package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthProvider identifies the mechanism a user signed in with
type AuthProvider string

const (
	ProviderGoogle   AuthProvider = "google"
	ProviderMetaMask AuthProvider = "metamask"
	ProviderEmail    AuthProvider = "email"
)

// Valid reports whether the provider is one of the supported set
func (p AuthProvider) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderMetaMask, ProviderEmail:
		return true
	}
	return false
}

// User represents the signed-in pet owner.
// WalletAddress is only set when Provider is metamask.
type User struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email,omitempty"`
	AvatarURL     string       `json:"avatar_url,omitempty"`
	WalletAddress string       `json:"wallet_address,omitempty"`
	Provider      AuthProvider `json:"provider"`
	PasswordHash  string       `json:"-"` // Never sent to clients or the store
	Bio           string       `json:"bio,omitempty"`
	PetName       string       `json:"pet_name,omitempty"`
	PetType       string       `json:"pet_type,omitempty"`
	PetBreed      string       `json:"pet_breed,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	LastSeen      time.Time    `json:"last_seen"`
}

// LoginRequest contains data needed to start a login
type LoginRequest struct {
	Provider    AuthProvider `json:"provider" binding:"required"`
	Credentials *Credentials `json:"credentials,omitempty"`
}

// Credentials carries optional provider-specific login input
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// ProfileUpdate is a partial update of the user's profile.
// Nil fields are left untouched; set fields overwrite, later write wins per field.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	PetName  *string `json:"pet_name,omitempty"`
	PetType  *string `json:"pet_type,omitempty"`
	PetBreed *string `json:"pet_breed,omitempty"`
}

// Apply merges the update into the user record (shallow, per-field)
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.PetName != nil {
		u.PetName = *p.PetName
	}
	if p.PetType != nil {
		u.PetType = *p.PetType
	}
	if p.PetBreed != nil {
		u.PetBreed = *p.PetBreed
	}
}
