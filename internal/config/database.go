// internal/config/database.go
package config

import (
	"fmt"
)

// Configured reports whether a catalog store was configured at all.
func (d *DatabaseConfig) Configured() bool {
	return d.Host != ""
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
