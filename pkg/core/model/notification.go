package model

import "time"

// NotificationType classifies a notification.
type NotificationType string

// Known NotificationType values.
const (
	NotifyBooking   NotificationType = "booking"
	NotifyContact   NotificationType = "contact"
	NotifyOrder     NotificationType = "order"
	NotifyInventory NotificationType = "inventory"
	NotifySystem    NotificationType = "system"
)

// Title returns the heading which is displayed for t.
func (t NotificationType) Title() string {
	switch t {
	case NotifyBooking:
		return "New Booking"
	case NotifyContact:
		return "New Contact Message"
	case NotifyOrder:
		return "New Order"
	case NotifyInventory:
		return "Inventory Update"
	case NotifySystem:
		return "System Notification"
	default:
		return "Notification"
	}
}

// Audience selects the receivers of a notification. It is either a
// role name or AudienceAll.
type Audience string

// AudienceAll addresses every role.
const AudienceAll Audience = "all"

// AudienceOf returns the audience of a single role.
func AudienceOf(r Role) Audience {
	return Audience(r.String())
}

// Notification is a role-targeted message. Whether a user has read it
// is tracked by separate read markers.
type Notification struct {
	ID        int64            `json:"id"`
	Audience  Audience         `json:"role"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	RelatedID *int64           `json:"related_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Title returns the heading of n based on its type.
func (n *Notification) Title() string {
	return n.Type.Title()
}

// ContactSubmission is a message from the public contact form.
type ContactSubmission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
