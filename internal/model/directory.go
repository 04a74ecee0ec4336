package model

import "github.com/shopspring/decimal"

// Employee is a staff member that can be assigned to event shifts.
// Roles here are free-text capability tags (shift role labels), not UserRole values.
type Employee struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Phone      string   `json:"phone,omitempty" yaml:"phone"`
	Department string   `json:"department,omitempty" yaml:"department"`
	Cabinet    string   `json:"cabinet,omitempty" yaml:"cabinet"`
	Roles      []string `json:"roles" yaml:"roles"`
}

// EquipmentCatalogItem is a rentable item offered to event organisers
type EquipmentCatalogItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// PhoneRecord is an entry of the internal phone book
type PhoneRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Internal   string `json:"internal,omitempty"`
}

type QuickLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type BirthdayRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Date       string `json:"date"` // YYYY-MM-DD
	Department string `json:"department,omitempty"`
}

// TicketRule routes new helpdesk tickets of Type to a fixed assignee
type TicketRule struct {
	Type         TicketType `json:"type"`
	AssigneeID   string     `json:"assigneeId"`
	AssigneeName string     `json:"assigneeName"`
}

// StaffDirectory is the singleton settings aggregate every view reads from
type StaffDirectory struct {
	Employees        []Employee             `json:"employees"`
	Venues           []string               `json:"venues"`
	Roles            []string               `json:"roles"` // shift role labels, ordered as report columns
	Departments      []string               `json:"departments"`
	Cabinets         []string               `json:"cabinets"`
	EquipmentCatalog []EquipmentCatalogItem `json:"equipmentCatalog"`
	PhoneRecords     []PhoneRecord          `json:"phoneRecords"`
	QuickLinks       []QuickLink            `json:"quickLinks"`
	Birthdays        []BirthdayRecord       `json:"birthdays"`
	TicketRules      []TicketRule           `json:"ticketRules"`
}

// RuleFor returns the routing rule for a ticket type, if one exists
func (d *StaffDirectory) RuleFor(t TicketType) (TicketRule, bool) {
	for _, r := range d.TicketRules {
		if r.Type == t {
			return r, true
		}
	}
	return TicketRule{}, false
}
