package repository

import (
	"context"
	"strings"

	"console/internal/config"
	"console/internal/model"

	"github.com/google/uuid"
)

// DirectoryRepository loads and saves the singleton staff directory
type DirectoryRepository interface {
	// Load never fails: transport errors yield a default directory
	Load(ctx context.Context) model.StaffDirectory
	// LoadForUpdate returns the healed directory an edit is applied to.
	// A missing record yields the defaults, an unreadable one an error.
	LoadForUpdate(ctx context.Context) (model.StaffDirectory, error)
	Save(ctx context.Context, dir model.StaffDirectory) error
}

type directoryRepository struct {
	blobs *Blobs
	seed  config.DirectorySeed
}

func NewDirectoryRepository(blobs *Blobs, seed config.DirectorySeed) DirectoryRepository {
	return &directoryRepository{blobs: blobs, seed: seed}
}

func (r *directoryRepository) Load(ctx context.Context) model.StaffDirectory {
	var dir model.StaffDirectory
	found, err := r.blobs.load(ctx, model.KeyDirectory, &dir)
	if err != nil {
		r.blobs.warn(err, model.KeyDirectory)
		return DefaultDirectory(r.seed)
	}
	if !found {
		dir = DefaultDirectory(r.seed)
		if err := r.Save(ctx, dir); err != nil {
			r.blobs.log.Warn().Err(err).Msg("failed to persist default directory")
		}
		return dir
	}

	if HealDirectory(&dir, r.seed) {
		if err := r.Save(ctx, dir); err != nil {
			r.blobs.log.Warn().Err(err).Msg("failed to write back healed directory")
		}
	}
	return dir
}

func (r *directoryRepository) LoadForUpdate(ctx context.Context) (model.StaffDirectory, error) {
	var dir model.StaffDirectory
	found, err := r.blobs.load(ctx, model.KeyDirectory, &dir)
	if err != nil {
		return model.StaffDirectory{}, err
	}
	if !found {
		return DefaultDirectory(r.seed), nil
	}
	HealDirectory(&dir, r.seed)
	return dir, nil
}

func (r *directoryRepository) Save(ctx context.Context, dir model.StaffDirectory) error {
	backfill(&dir)
	return r.blobs.write(ctx, model.KeyDirectory, dir)
}

// DefaultDirectory builds the directory a fresh deployment starts with
func DefaultDirectory(seed config.DirectorySeed) model.StaffDirectory {
	dir := model.StaffDirectory{
		Venues: append([]string{}, seed.Venues...),
		Roles:  append([]string{}, seed.Roles...),
	}
	HealDirectory(&dir, seed)
	return dir
}

// HealDirectory repairs a stored directory in place and reports whether anything changed.
// The tech employee is matched by phone or name substring, never by id, so
// edits made to it elsewhere do not cause a duplicate.
func HealDirectory(dir *model.StaffDirectory, seed config.DirectorySeed) bool {
	changed := backfill(dir)

	if seed.TechEmployee.Name != "" && !hasTechEmployee(dir.Employees, seed) {
		emp := seed.TechEmployee
		emp.Roles = append([]string{}, seed.TechEmployee.Roles...)
		if emp.ID == "" || employeeIDTaken(dir.Employees, emp.ID) {
			emp.ID = uuid.NewString()
		}
		dir.Employees = append(dir.Employees, emp)
		changed = true
	}

	if seed.RequiredRole != "" && !containsString(dir.Roles, seed.RequiredRole) {
		idx := seed.RequiredRoleIndex
		if idx > len(dir.Roles) {
			idx = len(dir.Roles)
		}
		dir.Roles = append(dir.Roles, "")
		copy(dir.Roles[idx+1:], dir.Roles[idx:])
		dir.Roles[idx] = seed.RequiredRole
		changed = true
	}

	return changed
}

// backfill replaces nil list fields with empty ones
func backfill(dir *model.StaffDirectory) bool {
	changed := false
	if dir.Employees == nil {
		dir.Employees, changed = []model.Employee{}, true
	}
	if dir.Venues == nil {
		dir.Venues, changed = []string{}, true
	}
	if dir.Roles == nil {
		dir.Roles, changed = []string{}, true
	}
	if dir.Departments == nil {
		dir.Departments, changed = []string{}, true
	}
	if dir.Cabinets == nil {
		dir.Cabinets, changed = []string{}, true
	}
	if dir.EquipmentCatalog == nil {
		dir.EquipmentCatalog, changed = []model.EquipmentCatalogItem{}, true
	}
	if dir.PhoneRecords == nil {
		dir.PhoneRecords, changed = []model.PhoneRecord{}, true
	}
	if dir.QuickLinks == nil {
		dir.QuickLinks, changed = []model.QuickLink{}, true
	}
	if dir.Birthdays == nil {
		dir.Birthdays, changed = []model.BirthdayRecord{}, true
	}
	if dir.TicketRules == nil {
		dir.TicketRules, changed = []model.TicketRule{}, true
	}
	for i := range dir.Employees {
		if dir.Employees[i].Roles == nil {
			dir.Employees[i].Roles, changed = []string{}, true
		}
	}
	return changed
}

func hasTechEmployee(employees []model.Employee, seed config.DirectorySeed) bool {
	phone := normalizePhone(seed.TechEmployee.Phone)
	match := strings.ToLower(seed.TechNameMatch)
	for _, e := range employees {
		if phone != "" && normalizePhone(e.Phone) == phone {
			return true
		}
		if match != "" && strings.Contains(strings.ToLower(e.Name), match) {
			return true
		}
	}
	return false
}

func normalizePhone(p string) string {
	var b strings.Builder
	for _, r := range p {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func employeeIDTaken(employees []model.Employee, id string) bool {
	for _, e := range employees {
		if e.ID == id {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
