package types

import (
	"time"

	"github.com/google/uuid"
)

// Client is a therapy client in the clinician's caseload. Only display
// fields are read by the report pipeline; everything else is directory data.
type Client struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerUserID    uuid.UUID  `gorm:"type:uuid;not null;index;column:owner_user_id" json:"owner_user_id"`
	FirstName      string     `gorm:"not null;column:first_name" json:"first_name"`
	LastName       string     `gorm:"not null;column:last_name" json:"last_name"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	GuardianName   string     `gorm:"column:guardian_name" json:"guardian_name"`
	DiagnosisNotes string     `gorm:"column:diagnosis_notes" json:"diagnosis_notes"`
	Active         bool       `gorm:"not null;default:true;column:active" json:"active"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Client) TableName() string {
	return "client"
}

func (c *Client) DisplayName() string {
	if c == nil {
		return ""
	}
	name := c.FirstName
	if c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += c.LastName
	}
	return name
}
