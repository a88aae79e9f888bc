package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document file names inside the knowledge directory.
const (
	companyFile  = "company.json"
	servicesFile = "services.json"
	pricingFile  = "pricing.json"
	hoursFile    = "hours.json"
)

// Store holds all reference data. It is built once by Load and must be
// treated as read-only afterwards.
type Store struct {
	Company  Company
	Services []Service
	Pricing  PricingTable
	Hours    Schedule

	// PricingSource records which document supplied the table, for
	// quote provenance in replies and outcome records.
	PricingSource string
}

// Load reads, validates and decodes every reference document under dir.
// Any missing or malformed document fails the whole load; callers are
// expected to run the engine fail-closed in that case.
func Load(dir string) (*Store, error) {
	store := &Store{PricingSource: filepath.Join(dir, pricingFile)}

	if err := loadDocument(dir, companyFile, companySchema, &store.Company); err != nil {
		return nil, err
	}

	var services struct {
		Services []Service `json:"services"`
	}
	if err := loadDocument(dir, servicesFile, servicesSchema, &services); err != nil {
		return nil, err
	}
	store.Services = services.Services

	if err := loadDocument(dir, pricingFile, pricingSchema, &store.Pricing); err != nil {
		return nil, err
	}

	if err := loadDocument(dir, hoursFile, hoursSchema, &store.Hours); err != nil {
		return nil, err
	}

	return store, nil
}

func loadDocument(dir, name, schema string, out any) error {
	contents, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("knowledge: reading %s: %w", name, err)
	}
	if err := validateDocument(name, schema, contents); err != nil {
		return err
	}
	if err := json.Unmarshal(contents, out); err != nil {
		return fmt.Errorf("knowledge: decoding %s: %w", name, err)
	}
	return nil
}

// ServiceByID returns the catalog entry with the given id, or nil.
func (s *Store) ServiceByID(id string) *Service {
	for i := range s.Services {
		if s.Services[i].ID == id {
			return &s.Services[i]
		}
	}
	return nil
}

// ResolveService matches a lowercased utterance against each service's
// keyword list and returns the first service with a keyword hit, or nil.
func (s *Store) ResolveService(message string) *Service {
	normalized := strings.ToLower(message)
	for i := range s.Services {
		for _, keyword := range s.Services[i].Keywords {
			if keyword != "" && strings.Contains(normalized, strings.ToLower(keyword)) {
				return &s.Services[i]
			}
		}
	}
	return nil
}
