package model

type EquipmentType string

const (
	EquipmentPC      EquipmentType = "pc"
	EquipmentMonitor EquipmentType = "monitor"
	EquipmentLaptop  EquipmentType = "laptop"
	EquipmentPrinter EquipmentType = "printer"
	EquipmentUPS     EquipmentType = "ups"
	EquipmentNetwork EquipmentType = "network"
	EquipmentOther   EquipmentType = "other"
)

// EquipmentStatus Enum Simulation
type EquipmentStatus string

const (
	StatusWorking  EquipmentStatus = "working"
	StatusBroken   EquipmentStatus = "broken"
	StatusRepair   EquipmentStatus = "repair"
	StatusWriteOff EquipmentStatus = "write-off"
)

// InventoryHistoryEntry records a change made to an inventory item
type InventoryHistoryEntry struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Action string `json:"action"`
	User   string `json:"user"`
}

// InventoryItem represents a tracked piece of IT equipment.
// ParentID groups one level deep only (a PC and its attached monitor).
type InventoryItem struct {
	ID              string                  `json:"id"`
	Type            EquipmentType           `json:"type"`
	Model           string                  `json:"model"`
	InvNumber       string                  `json:"invNumber"`
	SerialNumber    string                  `json:"serialNumber"`
	IPAddress       string                  `json:"ipAddress,omitempty"`
	Status          EquipmentStatus         `json:"status"`
	Department      string                  `json:"department"`
	Cabinet         string                  `json:"cabinet"`
	ResponsibleName string                  `json:"responsibleName"`
	ParentID        string                  `json:"parentId,omitempty"`
	Notes           string                  `json:"notes"`
	History         []InventoryHistoryEntry `json:"history"`
	UpdatedAt       string                  `json:"updatedAt"`
}

// CabinetMetadata is the audit state of a single cabinet (room)
type CabinetMetadata struct {
	Cabinet       string  `json:"cabinet"`
	Department    string  `json:"department"`
	Problems      string  `json:"problems"`
	LastAuditDate *string `json:"lastAuditDate"`
	IsAudited     bool    `json:"isAudited"`
}

func ValidEquipmentType(t EquipmentType) bool {
	switch t {
	case EquipmentPC, EquipmentMonitor, EquipmentLaptop, EquipmentPrinter, EquipmentUPS, EquipmentNetwork, EquipmentOther:
		return true
	}
	return false
}

func ValidEquipmentStatus(s EquipmentStatus) bool {
	switch s {
	case StatusWorking, StatusBroken, StatusRepair, StatusWriteOff:
		return true
	}
	return false
}
