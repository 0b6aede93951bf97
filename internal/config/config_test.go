package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ENFORCE_SEAT_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 60, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "usd", cfg.Payment.Currency)
	assert.False(t, cfg.EnforceSeatLimit)
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		JWT:         JWTConfig{SecretKey: defaultJWTSecret, AccessTokenTTL: 60},
		Database:    DatabaseConfig{Driver: DriverSQLite},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.SecretKey = "rotated"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		JWT:      JWTConfig{SecretKey: "s", AccessTokenTTL: 60},
		Database: DatabaseConfig{Driver: "oracle"},
	}
	assert.Error(t, cfg.Validate())
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
packages:
  - name: Basic
    employeeLimit: 5
    price: 5
    features: ["Up to 5 employees"]
  - name: Standard
    employeeLimit: 10
    price: 12
`)
	packages, err := ParseCatalog(data)
	require.NoError(t, err)
	require.Len(t, packages, 2)
	assert.Equal(t, "Standard", packages[1].Name)
	assert.Equal(t, 10, packages[1].EmployeeLimit)
	assert.Equal(t, []string{"Up to 5 employees"}, []string(packages[0].Features))
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	data := []byte(`
packages:
  - {name: Basic, employeeLimit: 5, price: 5}
  - {name: basic, employeeLimit: 10, price: 12}
`)
	_, err := ParseCatalog(data)
	assert.Error(t, err)
}

func TestDefaultPackages(t *testing.T) {
	packages, err := LoadCatalog("")
	require.NoError(t, err)
	require.Len(t, packages, 3)
	assert.Equal(t, int64(1200), packages[1].AmountCents())
}
