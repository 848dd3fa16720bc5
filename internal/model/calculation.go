package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Operands is the ordered operand list of a calculation, stored as a JSON
// column. Order matters: reductions fold left to right.
type Operands []float64

// Value implements driver.Valuer.
func (o Operands) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan implements sql.Scanner.
func (o *Operands) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*o = nil
		return nil
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("unsupported operands column type %T", value)
	}
}

// GormDataType tells GORM to map Operands onto a JSON column.
func (Operands) GormDataType() string {
	return "json"
}

// Calculation is a single arithmetic record owned by one user. Type holds the
// lowercase variant tag; Result stays nil until the reduction has run.
type Calculation struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Type      string    `json:"type" gorm:"size:50;not null"`
	Inputs    Operands  `json:"inputs" gorm:"not null"`
	Result    *float64  `json:"result"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Calculation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
