package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Stored blobs predate this service and carry prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// RentedEquipment is a catalog item booked for a specific event
type RentedEquipment struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Total returns price * quantity; a zero quantity counts as one unit
func (r RentedEquipment) Total() decimal.Decimal {
	qty := r.Quantity
	if qty <= 0 {
		qty = 1
	}
	return r.Price.Mul(decimal.NewFromInt(int64(qty)))
}

// StaffAssignment maps a shift role label to the assigned employee name (may be empty)
type StaffAssignment map[string]string

// ConcertEvent is the row persisted in concert_events.
// IsCancelled and RentedEquipment are overlays kept in separate registries.
type ConcertEvent struct {
	ID             string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	Title          string          `gorm:"type:varchar(255);not null" json:"title"`
	Date           string          `gorm:"type:varchar(10);index;not null" json:"date"` // YYYY-MM-DD
	ArrivalTime    string          `gorm:"type:varchar(5)" json:"arrivalTime"`
	SoundcheckTime string          `gorm:"type:varchar(5)" json:"soundcheckTime"`
	DoorsTime      string          `gorm:"type:varchar(5)" json:"doorsTime"`
	StartTime      string          `gorm:"type:varchar(5)" json:"startTime"`
	Venue          string          `gorm:"type:varchar(255)" json:"venue"`
	Staff          StaffAssignment `gorm:"type:text;serializer:json" json:"staff"`
	Notes          string          `gorm:"type:text" json:"notes"`
	Rider          string          `gorm:"type:text" json:"rider"`
	IsPaid         bool            `gorm:"not null" json:"isPaid"`
	CreatedAt      time.Time       `json:"-"`
	UpdatedAt      time.Time       `json:"-"`

	IsCancelled     bool              `gorm:"-" json:"isCancelled"`
	RentedEquipment []RentedEquipment `gorm:"-" json:"rentedEquipment"`
}

func (ConcertEvent) TableName() string {
	return "concert_events"
}

// RentalTotal sums the rented equipment of the event
func (e *ConcertEvent) RentalTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range e.RentedEquipment {
		total = total.Add(r.Total())
	}
	return total
}

// ParsedDate parses the ISO date; ok is false for malformed rows
func (e *ConcertEvent) ParsedDate() (time.Time, bool) {
	raw := e.Date
	if len(raw) > 10 {
		raw = raw[:10]
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
