package models

import "time"

// Appointment statuses. Any status may follow any other; the set itself is
// closed and enforced on every status write.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment optionally links to a Patient. PatientName/Email/Phone are a
// snapshot taken at booking time and are never re-synced afterwards, so the
// record stays meaningful when PatientID is nil or later cleared.
// AppointmentTime is stored as zero-padded "HH:MM", which keeps lexical
// ordering equal to chronological ordering.
type Appointment struct {
	ID              uint      `gorm:"primaryKey"`
	PatientID       *uint     `gorm:"index"`
	PatientName     string    `gorm:"size:100;not null"`
	PatientEmail    string    `gorm:"size:120"`
	PatientPhone    string    `gorm:"size:20"`
	AppointmentDate time.Time `gorm:"type:date;not null"`
	AppointmentTime string    `gorm:"size:10;not null"`
	Doctor          string    `gorm:"size:50;not null"`
	Department      string    `gorm:"size:50"`
	Reason          string    `gorm:"type:text;not null"`
	Status          string    `gorm:"size:20;default:pending"`
	Notes           string    `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
