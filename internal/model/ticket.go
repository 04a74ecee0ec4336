package model

type TicketStatus string

const (
	TicketNew        TicketStatus = "new"
	TicketInProgress TicketStatus = "in-progress"
	TicketDone       TicketStatus = "done"
	TicketRejected   TicketStatus = "rejected"
)

type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

type TicketType string

const (
	TicketEquipment   TicketType = "equipment"
	TicketPrintout    TicketType = "printout"
	TicketEvents      TicketType = "events"
	TicketComputers   TicketType = "computers"
	TicketRecording   TicketType = "recording"
	TicketProcurement TicketType = "procurement"
)

// TicketTypes lists the ticket types in display order
var TicketTypes = []TicketType{
	TicketEquipment, TicketPrintout, TicketEvents, TicketComputers, TicketRecording, TicketProcurement,
}

// TicketNote is an internal comment left by IT staff
type TicketNote struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// HelpdeskTicket is an IT support request
type HelpdeskTicket struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Username       string         `json:"username"`
	Subject        string         `json:"subject"`
	Description    string         `json:"description"`
	Status         TicketStatus   `json:"status"`
	Priority       TicketPriority `json:"priority"`
	Type           TicketType     `json:"type"`
	Department     string         `json:"department"`
	Cabinet        string         `json:"cabinet"`
	AssignedToID   string         `json:"assignedToId,omitempty"`
	AssignedToName string         `json:"assignedToName,omitempty"`
	InternalNotes  []TicketNote   `json:"internalNotes"`

	// type-specific form fields
	EquipmentAction string `json:"equipmentAction,omitempty"` // repair | refill
	EquipmentModel  string `json:"equipmentModel,omitempty"`
	ProcurementItem string `json:"procurementItem,omitempty"`
	PrintType       string `json:"printType,omitempty"` // bw | color
	PrintPages      string `json:"printPages,omitempty"`
	EventSound      bool   `json:"eventSound,omitempty"`
	EventLight      bool   `json:"eventLight,omitempty"`
	EventScreen     bool   `json:"eventScreen,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// IsOpen reports whether the ticket still needs work
func (t *HelpdeskTicket) IsOpen() bool {
	return t.Status == TicketNew || t.Status == TicketInProgress
}

// ValidTicketStatus reports whether s is a known status
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketNew, TicketInProgress, TicketDone, TicketRejected:
		return true
	}
	return false
}

// ValidTicketPriority reports whether p is a known priority
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
