package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionSaveEvent        = "SAVE_EVENT"
	ActionDeleteEvent      = "DELETE_EVENT"
	ActionSaveDirectory    = "SAVE_DIRECTORY"
	ActionCreateTicket     = "CREATE_TICKET"
	ActionUpdateTicket     = "UPDATE_TICKET"
	ActionDeleteTicket     = "DELETE_TICKET"
	ActionSaveVehicle      = "SAVE_VEHICLE"
	ActionDeleteVehicle    = "DELETE_VEHICLE"
	ActionSaveInventory    = "SAVE_INVENTORY_ITEM"
	ActionDeleteInventory  = "DELETE_INVENTORY_ITEM"
	ActionUpdateCabinet    = "UPDATE_CABINET"
	ActionSaveArticle      = "SAVE_ARTICLE"
	ActionDeleteArticle    = "DELETE_ARTICLE"
	ActionSaveReminder     = "SAVE_REMINDER"
	ActionDeleteReminder   = "DELETE_REMINDER"
	ActionSaveGuide        = "SAVE_GUIDE"
	ActionDeleteGuide      = "DELETE_GUIDE"
	ActionRegisterUser     = "REGISTER_USER"
	ActionUpdateUser       = "UPDATE_USER"
	ActionDeleteUser       = "DELETE_USER"
	ActionSaveNotification = "SAVE_NOTIFICATION_CONFIG"
)

// AuditLog tracks Who, What, and When for console mutations.
// Users live in a JSON registry, so the actor is denormalised instead of joined.
type AuditLog struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(64);index" json:"user_id"` // empty for system jobs
	Username   string    `gorm:"type:varchar(255)" json:"username"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(64);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:text" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
