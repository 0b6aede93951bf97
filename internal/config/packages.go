// internal/config/packages.go
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/javajoker/gearguard-backend/internal/models"
)

// Catalog is the on-disk form of the subscription packages.
type Catalog struct {
	Packages []models.Package `yaml:"packages"`
}

// DefaultPackages is the catalog used when no file is configured.
func DefaultPackages() []models.Package {
	return []models.Package{
		{
			Name:          "Basic",
			EmployeeLimit: 5,
			Price:         5,
			Features:      []string{"Asset Tracking", "Employee Management", "Basic Support"},
		},
		{
			Name:          "Standard",
			EmployeeLimit: 10,
			Price:         12,
			Features:      []string{"All Basic features", "Team Collaboration", "Company Branding"},
		},
		{
			Name:          "Premium",
			EmployeeLimit: 20,
			Price:         20,
			Features:      []string{"All Standard features", "Advanced Reporting", "Priority Support"},
		},
	}
}

// LoadCatalog reads packages from a YAML file, or returns the defaults when
// path is empty.
func LoadCatalog(path string) ([]models.Package, error) {
	if path == "" {
		return DefaultPackages(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read package catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) ([]models.Package, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse package catalog: %w", err)
	}
	if len(catalog.Packages) == 0 {
		return nil, fmt.Errorf("package catalog is empty")
	}

	seen := make(map[string]bool, len(catalog.Packages))
	for _, pkg := range catalog.Packages {
		key := strings.ToLower(strings.TrimSpace(pkg.Name))
		if key == "" {
			return nil, fmt.Errorf("package without a name")
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate package %q", pkg.Name)
		}
		if pkg.EmployeeLimit <= 0 {
			return nil, fmt.Errorf("package %q must have a positive employee limit", pkg.Name)
		}
		if pkg.Price <= 0 {
			return nil, fmt.Errorf("package %q must have a positive price", pkg.Name)
		}
		seen[key] = true
	}
	return catalog.Packages, nil
}
