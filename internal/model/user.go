package model

import "time"

// Profile types.  An admin owns a venue, a player books and joins matches.
const (
	ProfileAdmin  = "admin"
	ProfilePlayer = "player"
)

// Profile represents a row in the `profiles` table.  Every account, admin
// or player, is a profile.  Profiles created by an admin for a walk-in
// player have no credentials and cannot log in.
//
// Fields:
//
//	ID            – primary key identifier.
//	ContactNumber – unique phone number used for lookups.
//	ProfileType   – admin or player.
//	PasswordHash  – bcrypt hash; empty for credential-less profiles.
//	Points/Streak – gamification counters, start at zero.
type Profile struct {
	ID            uint64    `json:"id"`                      // profiles.id
	ContactNumber string    `json:"contact_number"`          // profiles.contact_number
	ProfileType   string    `json:"profile_type"`            // profiles.profile_type
	Name          string    `json:"name"`                    // profiles.name
	Email         *string   `json:"email,omitempty"`         // profiles.email (nullable, unique)
	PasswordHash  string    `json:"-"`                       // profiles.password_hash
	JerseyName    *string   `json:"jersey_name,omitempty"`   // profiles.jersey_name
	JerseyNumber  *int      `json:"jersey_number,omitempty"` // profiles.jersey_number
	SkillLevel    *string   `json:"skill_level,omitempty"`   // profiles.skill_level
	Position      *string   `json:"position,omitempty"`      // profiles.position
	Bio           *string   `json:"bio,omitempty"`           // profiles.bio
	AvatarURL     *string   `json:"avatar_url,omitempty"`    // profiles.avatar_url
	Points        int       `json:"points"`                  // profiles.points
	Streak        int       `json:"streak"`                  // profiles.streak
	CreatedAt     time.Time `json:"created_at"`              // profiles.created_at
	UpdatedAt     time.Time `json:"updated_at"`              // profiles.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	ProfileID uint64     // refresh_tokens.profile_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
