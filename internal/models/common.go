// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields. Catalog rows are hard-deleted, so there is no
// DeletedAt column.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
}

// Enums
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

// DefaultCurrency is the fixed currency of every product. It is not editable.
const DefaultCurrency = "BDT"
