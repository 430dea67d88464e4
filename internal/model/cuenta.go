package model

import (
	"time"

	"github.com/google/uuid"
)

// Cuenta is a ledger bucket. The business keeps its books separate from the
// owner's personal finances; every cuenta lives in exactly one ambito.
// Ambito: "negocio" | "personal"
type Cuenta struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Ambito    string    `gorm:"type:varchar(20);not null;index"`
	Activa    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
