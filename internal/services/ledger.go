package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/models"
)

// AppointmentLedger owns appointment records and their status lifecycle.
type AppointmentLedger struct{ DB *gorm.DB }

func NewAppointmentLedger(db *gorm.DB) *AppointmentLedger { return &AppointmentLedger{DB: db} }

// AppointmentInput carries the booking form fields. Date is an ISO date
// string; Time is a time-of-day in HH:MM (a missing leading zero is
// tolerated on input and normalized before storage).
type AppointmentInput struct {
	Name       string
	Email      string
	Phone      string
	Date       string
	Time       string
	Doctor     string
	Department string
	Reason     string
	Notes      string
}

// Book creates a staff-booked appointment for a known patient. The patient's
// current name/email/phone are copied onto the record; from then on they are
// a frozen snapshot. Status starts as confirmed.
func (s *AppointmentLedger) Book(patientID uint, in AppointmentInput) (*models.Appointment, error) {
	var patient models.Patient
	if err := s.DB.First(&patient, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	date, err := parseRequiredDate(in.Date)
	if err != nil {
		return nil, err
	}
	tod, err := normalizeTimeOfDay(in.Time)
	if err != nil {
		return nil, err
	}
	appt := models.Appointment{
		PatientID:       &patient.ID,
		PatientName:     patient.FullName(),
		PatientEmail:    patient.Email,
		PatientPhone:    patient.Phone,
		AppointmentDate: date,
		AppointmentTime: tod,
		Doctor:          in.Doctor,
		Department:      in.Department,
		Reason:          in.Reason,
		Status:          models.StatusConfirmed,
		Notes:           in.Notes,
	}
	if err := s.DB.Create(&appt).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

// SubmitPublicRequest handles unauthenticated self-service booking. If
// patientRef resolves to a known "P#####" identifier the record is linked and
// any contact field left blank on the form is inherited from the patient;
// an unknown or empty ref leaves the record unlinked. Status is always
// pending, to be triaged by staff.
func (s *AppointmentLedger) SubmitPublicRequest(in AppointmentInput, patientRef string) (*models.Appointment, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, ErrValidation
	}
	date, err := parseRequiredDate(in.Date)
	if err != nil {
		return nil, err
	}
	tod, err := normalizeTimeOfDay(in.Time)
	if err != nil {
		return nil, err
	}
	appt := models.Appointment{
		PatientName:     strings.TrimSpace(in.Name),
		PatientEmail:    in.Email,
		PatientPhone:    in.Phone,
		AppointmentDate: date,
		AppointmentTime: tod,
		Doctor:          in.Doctor,
		Department:      in.Department,
		Reason:          in.Reason,
		Status:          models.StatusPending,
		Notes:           in.Notes,
	}
	if ref := strings.TrimSpace(patientRef); ref != "" {
		var patient models.Patient
		if err := s.DB.Where("patient_id = ?", ref).First(&patient).Error; err == nil {
			appt.PatientID = &patient.ID
			if appt.PatientName == "" {
				appt.PatientName = patient.FullName()
			}
			if appt.PatientEmail == "" {
				appt.PatientEmail = patient.Email
			}
			if appt.PatientPhone == "" {
				appt.PatientPhone = patient.Phone
			}
		}
		// Unknown refs are not an error: the request still lands as pending.
	}
	if err := s.DB.Create(&appt).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

// List applies optional exact-match status and date filters, ordered by date
// descending then time-of-day descending. Time order is lexical, which the
// enforced HH:MM format makes chronological. An unparsable date filter is
// ignored rather than failing the listing.
func (s *AppointmentLedger) List(statusFilter, dateFilter string) ([]models.Appointment, error) {
	q := s.DB.Model(&models.Appointment{})
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}
	if dateFilter != "" {
		if d, err := time.Parse(dateLayout, dateFilter); err == nil {
			q = q.Where("appointment_date = ?", d)
		}
	}
	var appts []models.Appointment
	if err := q.Order("appointment_date desc").Order("appointment_time desc").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// Get fetches one appointment.
func (s *AppointmentLedger) Get(id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.DB.First(&appt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

// UpdateStatus sets a new status. The status set is closed: an unrecognized
// value is rejected with ErrValidation and nothing is written.
func (s *AppointmentLedger) UpdateStatus(id uint, status string) (*models.Appointment, error) {
	if !models.ValidStatus(status) {
		return nil, ErrValidation
	}
	appt, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	appt.Status = status
	appt.UpdatedAt = time.Now().UTC()
	if err := s.DB.Save(appt).Error; err != nil {
		return nil, err
	}
	return appt, nil
}

// Delete removes an appointment.
func (s *AppointmentLedger) Delete(id uint) error {
	res := s.DB.Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// parseRequiredDate parses an ISO date, failing with ErrInvalidDate on empty
// or unparsable input.
func parseRequiredDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// normalizeTimeOfDay validates a time-of-day string and rewrites it as
// zero-padded HH:MM so lexical sort order matches clock order.
func normalizeTimeOfDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		// tolerate a missing leading zero ("9:30")
		t, err = time.Parse("3:04", s)
		if err != nil {
			return "", ErrInvalidDate
		}
	}
	return t.Format("15:04"), nil
}
