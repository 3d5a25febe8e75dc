package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusReviewed  ReportStatus = "reviewed"
)

// Status transitions happen only through explicit user/service action:
// draft -> submitted -> reviewed.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	switch s {
	case ReportStatusDraft:
		return next == ReportStatusSubmitted
	case ReportStatusSubmitted:
		return next == ReportStatusReviewed
	default:
		return false
	}
}

func ParseReportStatus(raw string) (ReportStatus, error) {
	switch ReportStatus(raw) {
	case ReportStatusDraft, ReportStatusSubmitted, ReportStatusReviewed:
		return ReportStatus(raw), nil
	}
	return "", fmt.Errorf("unknown report status %q", raw)
}

// SessionReport is the persisted form of a generated session report.
// FullContent is the markdown narrative; Sections is the parsed
// section-name -> text mapping as a JSON column.
type SessionReport struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ClientID        uuid.UUID      `gorm:"type:uuid;not null;index;column:client_id" json:"client_id"`
	ClientName      string         `gorm:"not null;column:client_name" json:"client_name"`
	RBTName         string         `gorm:"not null;column:rbt_name" json:"rbt_name"`
	SessionDate     string         `gorm:"not null;column:session_date" json:"session_date"`
	SessionDuration string         `gorm:"column:session_duration" json:"session_duration"`
	Location        string         `gorm:"column:location" json:"location"`
	FullContent     string         `gorm:"type:text;not null;column:full_content" json:"full_content"`
	Sections        datatypes.JSON `gorm:"column:sections" json:"sections"`
	Status          ReportStatus   `gorm:"not null;default:'draft';column:status" json:"status"`
	SubmittedAt     *time.Time     `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time     `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (SessionReport) TableName() string {
	return "session_report"
}
