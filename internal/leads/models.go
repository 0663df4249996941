package leads

import (
	"time"
)

// Status is the follow-up state of a lead. The set is closed; anything else
// is rejected at the boundary.
type Status string

const (
	StatusPending   Status = "pending"
	StatusContacted Status = "contacted"
	StatusSold      Status = "sold"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusContacted, StatusSold, StatusCancelled:
		return Status(raw), true
	}
	return "", false
}

// Lead is a customer enquiry captured from a listing's contact form.
type Lead struct {
	ID            string    `json:"id"`
	CarID         string    `json:"car_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Message       string    `json:"message,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
