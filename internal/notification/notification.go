package notification

import "time"

// Notification is the broker payload: who gets it, what it says, and a free
// data map the mobile client uses for deep links.
type Notification struct {
	RecipientUserIDs []string          `json:"recipient_user_ids"`
	Title            string            `json:"title"`
	Body             string            `json:"body"`
	Data             map[string]string `json:"data,omitempty"`
}

// DeviceToken is a registered push target for a user. A user can hold one
// token per device; re-registering the same token refreshes its timestamp.
type DeviceToken struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
