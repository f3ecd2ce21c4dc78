package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/models"
)

const dateLayout = "2006-01-02"

// PatientRegistry owns patient records and identifier assignment.
type PatientRegistry struct{ DB *gorm.DB }

func NewPatientRegistry(db *gorm.DB) *PatientRegistry { return &PatientRegistry{DB: db} }

// PatientInput carries the intake / edit form fields. DateOfBirth is an ISO
// date string or empty.
type PatientInput struct {
	FirstName        string
	LastName         string
	DateOfBirth      string
	Gender           string
	Phone            string
	Email            string
	Address          string
	EmergencyContact string
	EmergencyPhone   string
	BloodType        string
	Allergies        string
	MedicalNotes     string
}

// nextPatientID derives the next "P#####" identifier as max(numeric suffix)+1
// over all assigned identifiers, P00001 when the registry is empty. It runs
// inside the creating transaction; the unique index on patient_id turns a
// concurrent collision into a rollback instead of a stored duplicate.
func nextPatientID(tx *gorm.DB) (string, error) {
	var ids []string
	if err := tx.Model(&models.Patient{}).Where("patient_id <> ''").Pluck("patient_id", &ids).Error; err != nil {
		return "", err
	}
	max := 0
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimPrefix(id, "P"))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("P%05d", max+1), nil
}

// Create validates the intake form, assigns the next identifier and persists,
// all in one transaction.
func (s *PatientRegistry) Create(in PatientInput) (*models.Patient, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, ErrValidation
	}
	dob, err := parseOptionalDate(in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	patient := models.Patient{
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		DateOfBirth:      dob,
		Gender:           in.Gender,
		Phone:            in.Phone,
		Email:            in.Email,
		Address:          in.Address,
		EmergencyContact: in.EmergencyContact,
		EmergencyPhone:   in.EmergencyPhone,
		BloodType:        in.BloodType,
		Allergies:        in.Allergies,
		MedicalNotes:     in.MedicalNotes,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		pid, err := nextPatientID(tx)
		if err != nil {
			return err
		}
		patient.PatientID = pid
		if err := tx.Create(&patient).Error; err != nil {
			if isDuplicateErr(err) {
				return ErrDuplicateIdentifier
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// Search matches term case-insensitively against first name, last name or
// patient identifier. Empty term returns everything, newest first.
func (s *PatientRegistry) Search(term string) ([]models.Patient, error) {
	q := s.DB.Model(&models.Patient{}).Order("created_at desc")
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(patient_id) LIKE ?", like, like, like)
	}
	var patients []models.Patient
	if err := q.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// Get fetches one patient by primary key.
func (s *PatientRegistry) Get(id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := s.DB.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// GetByPatientID resolves a "P#####" identifier to a patient.
func (s *PatientRegistry) GetByPatientID(pid string) (*models.Patient, error) {
	var patient models.Patient
	if err := s.DB.Where("patient_id = ?", strings.TrimSpace(pid)).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// Update overwrites all mutable fields; the identifier never changes.
func (s *PatientRegistry) Update(id uint, in PatientInput) (*models.Patient, error) {
	patient, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, ErrValidation
	}
	dob, err := parseOptionalDate(in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	patient.FirstName = strings.TrimSpace(in.FirstName)
	patient.LastName = strings.TrimSpace(in.LastName)
	patient.DateOfBirth = dob
	patient.Gender = in.Gender
	patient.Phone = in.Phone
	patient.Email = in.Email
	patient.Address = in.Address
	patient.EmergencyContact = in.EmergencyContact
	patient.EmergencyPhone = in.EmergencyPhone
	patient.BloodType = in.BloodType
	patient.Allergies = in.Allergies
	patient.MedicalNotes = in.MedicalNotes
	patient.UpdatedAt = time.Now().UTC()
	if err := s.DB.Save(patient).Error; err != nil {
		return nil, err
	}
	return patient, nil
}

// Delete removes the patient and clears the patient link on its appointments.
// The appointment rows themselves survive with their denormalized snapshot.
func (s *PatientRegistry) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&models.Appointment{}).Where("patient_id = ?", id).Update("patient_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&patient).Error
	})
}

// Appointments returns the patient's visit history, most recent date first.
func (s *PatientRegistry) Appointments(id uint) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := s.DB.Where("patient_id = ?", id).Order("appointment_date desc").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// parseOptionalDate parses an ISO date, mapping empty to nil and any parse
// failure to ErrInvalidDate.
func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}
