package services

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/models"
)

// Reports computes point-in-time aggregates for the dashboard and the
// reports page. Every call re-scans; nothing is cached. Acceptable only
// because a front office stays small.
type Reports struct{ DB *gorm.DB }

func NewReports(db *gorm.DB) *Reports { return &Reports{DB: db} }

// GroupCount is one bucket of a group-by summary.
type GroupCount struct {
	Label string
	Count int64
}

// MonthlyCount is the appointment volume for one calendar month.
type MonthlyCount struct {
	Year  int
	Month time.Month
	Count int64
}

// Label renders the bucket as e.g. "Jan 2026".
func (m MonthlyCount) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
}

// Overview is the full report snapshot.
type Overview struct {
	TotalPatients         int64
	PatientsByGender      []GroupCount
	PatientsByBloodType   []GroupCount
	TotalAppointments     int64
	PendingAppointments   int64
	ConfirmedAppointments int64
	CancelledAppointments int64
	AppointmentsByMonth   []MonthlyCount
}

// Overview gathers all counts as of now. An empty database yields zero
// counts and empty groups, never an error.
func (s *Reports) Overview() (*Overview, error) {
	var o Overview
	if err := s.DB.Model(&models.Patient{}).Count(&o.TotalPatients).Error; err != nil {
		return nil, err
	}
	var err error
	if o.PatientsByGender, err = s.groupPatients("gender"); err != nil {
		return nil, err
	}
	if o.PatientsByBloodType, err = s.groupPatients("blood_type"); err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Appointment{}).Count(&o.TotalAppointments).Error; err != nil {
		return nil, err
	}
	for status, dst := range map[string]*int64{
		models.StatusPending:   &o.PendingAppointments,
		models.StatusConfirmed: &o.ConfirmedAppointments,
		models.StatusCancelled: &o.CancelledAppointments,
	} {
		if err := s.DB.Model(&models.Appointment{}).Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}
	if o.AppointmentsByMonth, err = s.appointmentsByMonth(); err != nil {
		return nil, err
	}
	return &o, nil
}

// TodayCount returns the number of appointments on the given calendar day.
func (s *Reports) TodayCount(day time.Time) (int64, error) {
	var n int64
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	err := s.DB.Model(&models.Appointment{}).Where("appointment_date = ?", d).Count(&n).Error
	return n, err
}

// Recent returns the most recently created appointments for the dashboard.
func (s *Reports) Recent(limit int) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := s.DB.Order("created_at desc").Limit(limit).Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// groupPatients counts patients per distinct value of column, excluding
// empty values, sorted by label for stable output.
func (s *Reports) groupPatients(column string) ([]GroupCount, error) {
	var rows []GroupCount
	err := s.DB.Model(&models.Patient{}).
		Select(column+" as label, count(*) as count").
		Where(column+" <> ''").
		Group(column).
		Order(column + " asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// appointmentsByMonth buckets appointments by calendar month-year. Grouping
// happens in Go after a single date scan so sqlite and postgres behave
// identically, and ordering is chronological rather than lexical.
func (s *Reports) appointmentsByMonth() ([]MonthlyCount, error) {
	var dates []time.Time
	if err := s.DB.Model(&models.Appointment{}).Pluck("appointment_date", &dates).Error; err != nil {
		return nil, err
	}
	buckets := map[[2]int]int64{}
	for _, d := range dates {
		buckets[[2]int{d.Year(), int(d.Month())}]++
	}
	out := make([]MonthlyCount, 0, len(buckets))
	for key, n := range buckets {
		out = append(out, MonthlyCount{Year: key[0], Month: time.Month(key[1]), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}
