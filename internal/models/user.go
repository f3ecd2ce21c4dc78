package models

import "time"

// Staff roles. Stored as plain strings but validated against this closed set
// at write time; free-text roles are rejected.
const (
	RoleAdmin  = "admin"
	RoleNurse  = "nurse"
	RoleDoctor = "doctor"
	RoleIT     = "it"
)

// ValidRole reports whether r is one of the known staff roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleNurse, RoleDoctor, RoleIT:
		return true
	}
	return false
}

// User is a staff identity. Password always holds a bcrypt hash, never
// plaintext; LastLogin is touched on every successful authentication.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:80;unique;not null;index"`
	Email     string `gorm:"size:120;unique;not null"`
	Password  string `gorm:"size:255;not null"`
	FullName  string `gorm:"size:100;not null"`
	Role      string `gorm:"size:20;not null"`
	Phone     string `gorm:"size:20"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	LastLogin *time.Time
}

// CanManageStaff reports whether the user's role grants staff management.
func (u *User) CanManageStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleIT
}
