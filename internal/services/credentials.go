package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/g3company/healthclinic/internal/models"
)

// CredentialStore owns staff identities and password verification.
// Single-attempt checks only: no lockout, no rate limiting.
type CredentialStore struct{ DB *gorm.DB }

func NewCredentialStore(db *gorm.DB) *CredentialStore { return &CredentialStore{DB: db} }

// HashPassword returns a salted bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Authenticate looks up by exact username and checks the password.
// A missing user and a wrong password both yield ErrInvalidCredentials so
// callers cannot probe for usernames; a correct password on a deactivated
// account yields ErrAccountDisabled. On success LastLogin is updated.
func (s *CredentialStore) Authenticate(username, plain string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(plain, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	now := time.Now().UTC()
	if err := s.DB.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return &user, nil
}

// CreateUserInput carries the fields for a new staff account. Password is
// plaintext here and hashed before persisting.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
	Phone    string
}

// CreateUser validates and persists a staff account. Duplicate username or
// email surfaces as ErrDuplicateIdentifier.
func (s *CredentialStore) CreateUser(in CreateUserInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.FullName == "" || in.Password == "" {
		return nil, ErrValidation
	}
	if !models.ValidRole(in.Role) {
		return nil, ErrValidation
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		FullName: in.FullName,
		Role:     in.Role,
		Phone:    in.Phone,
		IsActive: true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateIdentifier
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUserInput carries the mutable profile fields of a staff account.
// Password is optional; empty means keep the current hash.
type UpdateUserInput struct {
	Email    string
	FullName string
	Role     string
	Phone    string
	IsActive bool
	Password string
}

// UpdateUser overwrites the mutable fields of an existing account.
func (s *CredentialStore) UpdateUser(id uint, in UpdateUserInput) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if in.Email == "" || in.FullName == "" {
		return nil, ErrValidation
	}
	if !models.ValidRole(in.Role) {
		return nil, ErrValidation
	}
	user.Email = strings.TrimSpace(in.Email)
	user.FullName = in.FullName
	user.Role = in.Role
	user.Phone = in.Phone
	user.IsActive = in.IsActive
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if err := s.DB.Save(&user).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateIdentifier
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword rehashes after verifying the current password.
func (s *CredentialStore) ChangePassword(id uint, current, newPass string) error {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !VerifyPassword(current, user.Password) {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(newPass)
	if err != nil {
		return err
	}
	return s.DB.Model(&user).Update("password", hash).Error
}

// SetPassword force-sets a password without checking the current one.
// Used by the bootstrap CLI's reset mode.
func (s *CredentialStore) SetPassword(id uint, newPass string) error {
	hash, err := HashPassword(newPass)
	if err != nil {
		return err
	}
	res := s.DB.Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUser fetches one staff account.
func (s *CredentialStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all staff accounts, oldest first.
func (s *CredentialStore) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes a staff account.
func (s *CredentialStore) DeleteUser(id uint) error {
	res := s.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateErr detects unique-constraint violations across the postgres
// and sqlite drivers.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
