package service

import (
	"context"
	"sort"
	"strings"

	"console/internal/access"
	"console/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EmployeeRequest struct {
	Name       string   `json:"name" binding:"required"`
	Phone      string   `json:"phone"`
	Department string   `json:"department"`
	Cabinet    string   `json:"cabinet"`
	Roles      []string `json:"roles"`
}

type TicketRuleRequest struct {
	Type         model.TicketType `json:"type" binding:"required"`
	AssigneeID   string           `json:"assigneeId" binding:"required"`
	AssigneeName string           `json:"assigneeName"`
}

// PhoneBookQuery filters the internal phone book
type PhoneBookQuery struct {
	Department string
	Search     string
}

// DirectoryService exposes the staff directory and its admin edits.
// Every edit reloads the directory, applies one change and saves it whole.
type DirectoryService interface {
	Get(ctx context.Context) model.StaffDirectory
	Save(ctx context.Context, actor *model.User, dir model.StaffDirectory) (model.StaffDirectory, error)
	AddEmployee(ctx context.Context, actor *model.User, req EmployeeRequest) (model.Employee, error)
	UpdateEmployee(ctx context.Context, actor *model.User, id string, req EmployeeRequest) (model.Employee, error)
	RemoveEmployee(ctx context.Context, actor *model.User, id string) error
	AddVenue(ctx context.Context, actor *model.User, venue string) error
	RemoveVenue(ctx context.Context, actor *model.User, venue string) error
	SetTicketRule(ctx context.Context, actor *model.User, req TicketRuleRequest) (model.TicketRule, error)
	RemoveTicketRule(ctx context.Context, actor *model.User, t model.TicketType) error
	PhoneBook(ctx context.Context, q PhoneBookQuery) []model.PhoneRecord
}

type directoryService struct {
	Deps
}

func NewDirectoryService(deps Deps) DirectoryService {
	return &directoryService{Deps: deps}
}

func (s *directoryService) Get(ctx context.Context) model.StaffDirectory {
	return s.Repos.Directory.Load(ctx)
}

func (s *directoryService) Save(ctx context.Context, actor *model.User, dir model.StaffDirectory) (model.StaffDirectory, error) {
	if !access.IsAdmin(actor) {
		return dir, ErrForbidden
	}
	for i := range dir.Employees {
		if dir.Employees[i].ID == "" {
			dir.Employees[i].ID = uuid.NewString()
		}
	}
	for i := range dir.EquipmentCatalog {
		if dir.EquipmentCatalog[i].ID == "" {
			dir.EquipmentCatalog[i].ID = uuid.NewString()
		}
		if dir.EquipmentCatalog[i].Price.LessThan(decimal.Zero) {
			return dir, invalidf("catalog price of %q is negative", dir.EquipmentCatalog[i].Name)
		}
	}
	if err := s.update(ctx, actor, "directory", func(d *model.StaffDirectory) error {
		*d = dir
		return nil
	}); err != nil {
		return dir, err
	}
	return s.Repos.Directory.Load(ctx), nil
}

// update applies fn to a freshly loaded directory and saves it with an audit row
func (s *directoryService) update(ctx context.Context, actor *model.User, what string, fn func(d *model.StaffDirectory) error) error {
	if !access.IsAdmin(actor) {
		return ErrForbidden
	}
	dir, err := s.Repos.Directory.LoadForUpdate(ctx)
	if err != nil {
		return err
	}
	if err := fn(&dir); err != nil {
		return err
	}
	return s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Directory.Save(txCtx, dir)
	}, actor, model.ActionSaveDirectory, model.KeyDirectory, what, nil)
}

func employeeFrom(req EmployeeRequest) model.Employee {
	roles := req.Roles
	if roles == nil {
		roles = []string{}
	}
	return model.Employee{
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		Department: req.Department,
		Cabinet:    req.Cabinet,
		Roles:      roles,
	}
}

func (s *directoryService) AddEmployee(ctx context.Context, actor *model.User, req EmployeeRequest) (model.Employee, error) {
	emp := employeeFrom(req)
	if emp.Name == "" {
		return emp, invalidf("employee name is required")
	}
	emp.ID = uuid.NewString()
	err := s.update(ctx, actor, "employee: "+emp.Name, func(d *model.StaffDirectory) error {
		d.Employees = append(d.Employees, emp)
		return nil
	})
	return emp, err
}

func (s *directoryService) UpdateEmployee(ctx context.Context, actor *model.User, id string, req EmployeeRequest) (model.Employee, error) {
	emp := employeeFrom(req)
	emp.ID = id
	if emp.Name == "" {
		return emp, invalidf("employee name is required")
	}
	err := s.update(ctx, actor, "employee: "+emp.Name, func(d *model.StaffDirectory) error {
		for i := range d.Employees {
			if d.Employees[i].ID == id {
				d.Employees[i] = emp
				return nil
			}
		}
		return notFoundf("employee %s", id)
	})
	return emp, err
}

func (s *directoryService) RemoveEmployee(ctx context.Context, actor *model.User, id string) error {
	return s.update(ctx, actor, "employee removed", func(d *model.StaffDirectory) error {
		kept := make([]model.Employee, 0, len(d.Employees))
		for _, e := range d.Employees {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(d.Employees) {
			return notFoundf("employee %s", id)
		}
		d.Employees = kept
		return nil
	})
}

func (s *directoryService) AddVenue(ctx context.Context, actor *model.User, venue string) error {
	venue = strings.TrimSpace(venue)
	if venue == "" {
		return invalidf("venue name is required")
	}
	return s.update(ctx, actor, "venue: "+venue, func(d *model.StaffDirectory) error {
		for _, v := range d.Venues {
			if v == venue {
				return nil
			}
		}
		d.Venues = append(d.Venues, venue)
		return nil
	})
}

func (s *directoryService) RemoveVenue(ctx context.Context, actor *model.User, venue string) error {
	return s.update(ctx, actor, "venue removed: "+venue, func(d *model.StaffDirectory) error {
		kept := make([]string, 0, len(d.Venues))
		for _, v := range d.Venues {
			if v != venue {
				kept = append(kept, v)
			}
		}
		d.Venues = kept
		return nil
	})
}

// SetTicketRule routes a ticket type to one assignee, replacing any earlier rule for the type.
// The assignee name is a snapshot taken now.
func (s *directoryService) SetTicketRule(ctx context.Context, actor *model.User, req TicketRuleRequest) (model.TicketRule, error) {
	if !access.IsAdmin(actor) {
		return model.TicketRule{}, ErrForbidden
	}
	if !validTicketType(req.Type) {
		return model.TicketRule{}, invalidf("unknown ticket type %q", req.Type)
	}
	rule := model.TicketRule{Type: req.Type, AssigneeID: req.AssigneeID, AssigneeName: strings.TrimSpace(req.AssigneeName)}
	if rule.AssigneeName == "" {
		u, found := s.Repos.Users.GetByID(ctx, req.AssigneeID)
		if !found {
			return rule, notFoundf("user %s", req.AssigneeID)
		}
		rule.AssigneeName = u.Username
	}

	err := s.update(ctx, actor, "ticket rule: "+string(rule.Type), func(d *model.StaffDirectory) error {
		rules := make([]model.TicketRule, 0, len(d.TicketRules)+1)
		for _, r := range d.TicketRules {
			if r.Type != rule.Type {
				rules = append(rules, r)
			}
		}
		d.TicketRules = append(rules, rule)
		return nil
	})
	return rule, err
}

func (s *directoryService) RemoveTicketRule(ctx context.Context, actor *model.User, t model.TicketType) error {
	return s.update(ctx, actor, "ticket rule removed: "+string(t), func(d *model.StaffDirectory) error {
		rules := make([]model.TicketRule, 0, len(d.TicketRules))
		for _, r := range d.TicketRules {
			if r.Type != t {
				rules = append(rules, r)
			}
		}
		d.TicketRules = rules
		return nil
	})
}

// PhoneBook filters by department and a case-insensitive search, sorted by name
func (s *directoryService) PhoneBook(ctx context.Context, q PhoneBookQuery) []model.PhoneRecord {
	dir := s.Repos.Directory.Load(ctx)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]model.PhoneRecord, 0, len(dir.PhoneRecords))
	for _, r := range dir.PhoneRecords {
		if q.Department != "" && r.Department != q.Department {
			continue
		}
		if search != "" && !containsFold(search, r.Name, r.Position, r.Phone, r.Internal, r.Department) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// containsFold reports whether any field contains the lower-cased needle
func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func validTicketType(t model.TicketType) bool {
	for _, known := range model.TicketTypes {
		if known == t {
			return true
		}
	}
	return false
}
