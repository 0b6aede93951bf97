// internal/config/database.go
package config

import (
	"fmt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

func (d *DatabaseConfig) IsSQL() bool {
	return d.Driver == DriverPostgres || d.Driver == DriverSQLite
}
