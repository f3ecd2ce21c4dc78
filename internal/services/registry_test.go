package services

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Patient{}, &models.Appointment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPatientIDsSequential(t *testing.T) {
	reg := NewPatientRegistry(setupTestDB(t))
	for i := 1; i <= 5; i++ {
		p, err := reg.Create(PatientInput{FirstName: "Pat", LastName: fmt.Sprintf("Num%d", i)})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		want := fmt.Sprintf("P%05d", i)
		if p.PatientID != want {
			t.Fatalf("patient %d: expected id %s got %s", i, want, p.PatientID)
		}
	}
}

func TestPatientIDAfterDeletion(t *testing.T) {
	// A, B, C then delete B: the next id continues from the max, so D gets
	// P00004 and B's slot is never reused.
	reg := NewPatientRegistry(setupTestDB(t))
	var b *models.Patient
	for _, name := range []string{"A", "B", "C"} {
		p, err := reg.Create(PatientInput{FirstName: name, LastName: "Test"})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if name == "B" {
			b = p
		}
	}
	if err := reg.Delete(b.ID); err != nil {
		t.Fatalf("delete B: %v", err)
	}
	d, err := reg.Create(PatientInput{FirstName: "D", LastName: "Test"})
	if err != nil {
		t.Fatalf("create D: %v", err)
	}
	if d.PatientID != "P00004" {
		t.Fatalf("expected P00004 got %s", d.PatientID)
	}
}

func TestPatientCreateValidation(t *testing.T) {
	reg := NewPatientRegistry(setupTestDB(t))
	if _, err := reg.Create(PatientInput{FirstName: "", LastName: "X"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation got %v", err)
	}
	if _, err := reg.Create(PatientInput{FirstName: "A", LastName: "B", DateOfBirth: "31-12-1990"}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate got %v", err)
	}
	p, err := reg.Create(PatientInput{FirstName: "A", LastName: "B", DateOfBirth: "1990-12-31"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.DateOfBirth == nil || p.DateOfBirth.Year() != 1990 {
		t.Fatalf("dob not stored: %+v", p.DateOfBirth)
	}
}

func TestPatientSearch(t *testing.T) {
	reg := NewPatientRegistry(setupTestDB(t))
	if _, err := reg.Create(PatientInput{FirstName: "Alice", LastName: "Martin"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := reg.Create(PatientInput{FirstName: "Bob", LastName: "Stone"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := reg.Search("aLiCe")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Alice" {
		t.Fatalf("expected Alice, got %+v", got)
	}

	// Identifier matching included.
	got, err = reg.Search("p00002")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Bob" {
		t.Fatalf("expected Bob via id search, got %+v", got)
	}

	// Empty term returns everything.
	got, err = reg.Search("")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 got %d", len(got))
	}
}

func TestPatientUpdateNotFound(t *testing.T) {
	reg := NewPatientRegistry(setupTestDB(t))
	if _, err := reg.Update(999, PatientInput{FirstName: "A", LastName: "B"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if err := reg.Delete(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestPatientDeleteKeepsAppointments(t *testing.T) {
	db := setupTestDB(t)
	reg := NewPatientRegistry(db)
	ledger := NewAppointmentLedger(db)

	p, err := reg.Create(PatientInput{FirstName: "Carol", LastName: "Jones", Email: "carol@example.com", Phone: "555-0101"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	appt, err := ledger.Book(p.ID, AppointmentInput{Date: "2026-09-10", Time: "10:30", Doctor: "Dr. Lee", Reason: "checkup"})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := reg.Delete(p.ID); err != nil {
		t.Fatalf("delete patient: %v", err)
	}

	var got models.Appointment
	if err := db.First(&got, appt.ID).Error; err != nil {
		t.Fatalf("appointment was deleted with the patient: %v", err)
	}
	if got.PatientID != nil {
		t.Fatalf("expected nil patient link, got %v", *got.PatientID)
	}
	if got.PatientName != "Carol Jones" || got.PatientEmail != "carol@example.com" {
		t.Fatalf("denormalized snapshot corrupted: %+v", got)
	}
}
