package models

import "time"

// Patient is a registry record. PatientID is the human-readable "P#####"
// identifier, assigned once at intake and never reused; the unique index is
// what makes a concurrent collision a constraint violation instead of a
// silent duplicate.
type Patient struct {
	ID               uint       `gorm:"primaryKey"`
	PatientID        string     `gorm:"size:20;unique;index"`
	FirstName        string     `gorm:"size:50;not null"`
	LastName         string     `gorm:"size:50;not null"`
	DateOfBirth      *time.Time `gorm:"type:date"`
	Gender           string     `gorm:"size:10"`
	Phone            string     `gorm:"size:20"`
	Email            string     `gorm:"size:120"`
	Address          string     `gorm:"type:text"`
	EmergencyContact string     `gorm:"size:100"`
	EmergencyPhone   string     `gorm:"size:20"`
	BloodType        string     `gorm:"size:5"`
	Allergies        string     `gorm:"type:text"`
	MedicalNotes     string     `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Appointments []Appointment `gorm:"foreignKey:PatientID;references:ID"`
}

// FullName joins first and last name for display and denormalization.
// Value receiver so templates can call it while ranging over patient slices.
func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
