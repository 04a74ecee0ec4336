package model

import "time"

// Setting is a JSON blob stored under a type key in the generic settings table.
// Every collection except events lives here as one row.
type Setting struct {
	Type      string    `gorm:"column:type;type:varchar(64);primaryKey" json:"type"`
	Data      string    `gorm:"type:text;not null" json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Collection keys of the settings table
const (
	KeyDirectory          = "directory"
	KeyCancelledEvents    = "cancelled_events"
	KeyEventRentals       = "event_rentals"
	KeyCabinetMetadata    = "cabinet_metadata"
	KeyGuestGuides        = "guest_guides"
	KeyReminders          = "reminders"
	KeyParkingList        = "parking_list"
	KeyHelpdeskTickets    = "helpdesk_tickets"
	KeyInventoryItems     = "inventory_items"
	KeyInfoArticles       = "info_articles"
	KeyNotificationConfig = "notification_config"
	KeyUserRegistry       = "user_registry"
)
