package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	// Actor is the email of the session performing the action, when known.
	Actor string `json:"actor,omitempty"`
	// Subject identifies the record acted upon (listing ID, profile ID, ...).
	Subject string `json:"subject,omitempty"`
	// Outcome distinguishes durable writes from local-only fallback mutations
	// and rejected attempts.
	Outcome   string `json:"outcome,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Device    string `json:"device,omitempty"`
}

type Action string

const (
	ActionLogin          Action = "login"
	ActionLoginFallback  Action = "login_fallback"
	ActionRegister       Action = "register"
	ActionLogout         Action = "logout"
	ActionProfileApprove Action = "profile_approve"
	ActionProfileReject  Action = "profile_reject"
	ActionProfileDelete  Action = "profile_delete"
	ActionListingDelete  Action = "listing_delete"
	ActionArticleCreate  Action = "article_create"
	ActionArticleDelete  Action = "article_delete"
	ActionLeadDelete     Action = "lead_delete"
	ActionLeadStatus     Action = "lead_status"
)
