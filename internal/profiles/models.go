package profiles

import (
	"time"

	"motorlane/internal/session"
)

// Status tracks moderation state for a stand account.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(raw), true
	}
	return "", false
}

// Profile is the public-facing account record mirroring the auth provider's
// identity. The provider remains authoritative for the role; this record
// exists for directories and moderation.
type Profile struct {
	ID        string       `json:"id"`
	FullName  string       `json:"full_name"`
	Email     string       `json:"email"`
	Role      session.Role `json:"role"`
	StandName string       `json:"stand_name,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Status    Status       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}
