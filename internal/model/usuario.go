package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is an operator account. Rol: "cajero" | "admin".
// There is no credential path outside this table — the administrative account
// is seeded with cmd/seedadmin and authenticates like everyone else.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null;default:'cajero'"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
