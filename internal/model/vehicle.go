package model

type VehicleCategory string

const (
	VehicleStaff     VehicleCategory = "staff"
	VehicleGuest     VehicleCategory = "guest"
	VehicleService   VehicleCategory = "service"
	VehicleEmergency VehicleCategory = "emergency"
)

// Vehicle is an entry of the parking access registry
type Vehicle struct {
	ID              string          `json:"id"`
	OwnerName       string          `json:"ownerName"`
	Department      string          `json:"department"`
	Model           string          `json:"model"`
	PlateNumber     string          `json:"plateNumber"`
	Phone           string          `json:"phone"`
	Category        VehicleCategory `json:"category"`
	ValidUntil      string          `json:"validUntil,omitempty"` // YYYY-MM-DD, empty = permanent pass
	IsExpectedToday bool            `json:"isExpectedToday"`
	IsCallEntry     bool            `json:"isCallEntry"`
	Notes           string          `json:"notes,omitempty"`
}

func ValidVehicleCategory(c VehicleCategory) bool {
	switch c {
	case VehicleStaff, VehicleGuest, VehicleService, VehicleEmergency:
		return true
	}
	return false
}
