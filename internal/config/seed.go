package config

import (
	"fmt"
	"os"
	"strings"

	"console/internal/model"

	"gopkg.in/yaml.v3"
)

// DirectorySeed describes the defaults a fresh directory starts from and the
// entries every directory read must contain.
type DirectorySeed struct {
	Venues []string `yaml:"venues"`
	// Roles is the ordered list of shift role labels of a new directory
	Roles []string `yaml:"roles"`
	// RequiredRole is force-inserted at RequiredRoleIndex when missing
	RequiredRole      string `yaml:"required_role"`
	RequiredRoleIndex int    `yaml:"required_role_index"`
	// TechEmployee is force-inserted when no employee matches its phone or TechNameMatch
	TechEmployee  model.Employee `yaml:"tech_employee"`
	TechNameMatch string         `yaml:"tech_name_match"`
}

// DefaultDirectorySeed returns the built-in seed
func DefaultDirectorySeed() DirectorySeed {
	return DirectorySeed{
		Venues: []string{},
		Roles: []string{
			"Администратор",
			"Отв. за безопасность",
			"Техподдержка",
			"Звукорежиссер",
			"Художник по свету",
			"Видеоинженер",
			"Электрик",
			"Дежурный",
		},
		RequiredRole:      "Техподдержка",
		RequiredRoleIndex: 2,
		TechEmployee: model.Employee{
			ID:         "tech-support",
			Name:       "Техподдержка (дежурный инженер)",
			Phone:      "+7 (900) 000-00-01",
			Department: "IT",
			Roles:      []string{"Техподдержка"},
		},
		TechNameMatch: "Техподдержка",
	}
}

// LoadDirectorySeed reads a YAML seed file; fields it omits keep their built-in values
func LoadDirectorySeed(path string) (DirectorySeed, error) {
	seed := DefaultDirectorySeed()
	if path == "" {
		return seed, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("read seed file: %w", err)
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return seed, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	seed.RequiredRole = strings.TrimSpace(seed.RequiredRole)
	if seed.RequiredRoleIndex < 0 {
		seed.RequiredRoleIndex = 0
	}
	if seed.TechEmployee.Roles == nil {
		seed.TechEmployee.Roles = []string{}
	}
	return seed, nil
}
