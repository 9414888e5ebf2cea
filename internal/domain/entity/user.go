package entity

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultRating is the rating a profile starts with before any review.
const DefaultRating = 1.0

type User struct {
	ID          string   `json:"id"`
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	NID         string   `json:"nid,omitempty"`
	Bio         string   `json:"bio"`
	Role        string   `json:"role"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"rating_count"`
	Reviews     []Review `json:"reviews"`

	// Verified gates posting and is the only field written by admins.
	// LegacyIsVerified carries an "isVerified" value found on older
	// documents; it is reported, never used for decisions.
	Verified         bool  `json:"verified"`
	LegacyIsVerified *bool `json:"legacy_is_verified,omitempty"`

	Wallet        float64  `json:"wallet"`
	PostedWorks   []string `json:"posted_works"`
	AcceptedWorks []string `json:"accepted_works"`

	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ReviewerID string    `json:"reviewer_id"`
	WorkID     string    `json:"work_id,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Timestamp  time.Time `json:"timestamp"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return "User"
}

// VerificationMismatch reports whether a legacy isVerified flag disagrees
// with the canonical verified flag.
func (u *User) VerificationMismatch() bool {
	return u.LegacyIsVerified != nil && *u.LegacyIsVerified != u.Verified
}
