package repository

import (
	"console/internal/config"
	"console/internal/model"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Repositories is every store the services are built from
type Repositories struct {
	Tx       TransactionManager
	Settings SettingsStore
	Audit    AuditRepository

	Events    EventRepository
	Cancelled *Registry[bool]
	Rentals   *Registry[[]model.RentedEquipment]

	Directory DirectoryRepository
	Users     UserRepository

	Tickets       *Collection[model.HelpdeskTicket]
	Inventory     *Collection[model.InventoryItem]
	Cabinets      *Registry[model.CabinetMetadata]
	Vehicles      *Collection[model.Vehicle]
	Articles      *Collection[model.InfoArticle]
	Reminders     *Collection[model.Reminder]
	Guides        *Collection[model.GuestGuide]
	Notifications *Document[model.NotificationConfig]
}

// Options carries the non-database inputs of New
type Options struct {
	Seed              config.DirectorySeed
	BootstrapPassword string
	Notifier          Notifier
}

// New builds all repositories over one database handle
func New(db *gorm.DB, log zerolog.Logger, opts Options) *Repositories {
	settings := NewSettingsStore(db)
	return NewWithStore(db, settings, log, opts)
}

// NewWithStore allows the settings store to be swapped, e.g. for a failing store in tests
func NewWithStore(db *gorm.DB, settings SettingsStore, log zerolog.Logger, opts Options) *Repositories {
	blobs := NewBlobs(settings, log, opts.Notifier)
	return &Repositories{
		Tx:       NewTransactionManager(db),
		Settings: settings,
		Audit:    NewAuditRepository(db),

		Events:    NewEventRepository(db, log),
		Cancelled: NewRegistry[bool](blobs, model.KeyCancelledEvents),
		Rentals:   NewRegistry[[]model.RentedEquipment](blobs, model.KeyEventRentals),

		Directory: NewDirectoryRepository(blobs, opts.Seed),
		Users:     NewUserRepository(blobs, opts.BootstrapPassword),

		Tickets:       NewCollection[model.HelpdeskTicket](blobs, model.KeyHelpdeskTickets),
		Inventory:     NewCollection[model.InventoryItem](blobs, model.KeyInventoryItems),
		Cabinets:      NewRegistry[model.CabinetMetadata](blobs, model.KeyCabinetMetadata),
		Vehicles:      NewCollection[model.Vehicle](blobs, model.KeyParkingList),
		Articles:      NewCollection[model.InfoArticle](blobs, model.KeyInfoArticles),
		Reminders:     NewCollection[model.Reminder](blobs, model.KeyReminders),
		Guides:        NewCollection[model.GuestGuide](blobs, model.KeyGuestGuides),
		Notifications: NewDocument[model.NotificationConfig](blobs, model.KeyNotificationConfig),
	}
}
