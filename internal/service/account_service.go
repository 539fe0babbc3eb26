package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lifehub/internal/db"
	"github.com/lifehub/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for unknown email or bad password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountNotFound is returned when a user id has no account.
	ErrAccountNotFound = errors.New("account not found")
)

const minPasswordLength = 8

// AccountService owns account registration and credential checks. It also
// seeds the initial document for new accounts so their profile carries the
// registered name.
type AccountService struct {
	db    *gorm.DB
	store DocumentStore
}

// NewAccountService constructs an AccountService.
func NewAccountService(gdb *gorm.DB, store DocumentStore) *AccountService {
	return &AccountService{db: gdb, store: store}
}

// Register creates an account and its initial document.
func (s *AccountService) Register(email, password, firstName, lastName string) (*db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	var existing db.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := db.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	seed := domain.UserData{
		Profile: &domain.Profile{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	}.Normalized()
	if err := s.store.Save(user.ID, seed); err != nil {
		// The bridge recreates a default document on first login, so a
		// failed seed is not fatal to registration.
		log.Printf("failed to seed document for user %d: %v", user.ID, err)
	}

	return &user, nil
}

// Authenticate checks the credentials and returns the matching account.
func (s *AccountService) Authenticate(email, password string) (*db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user db.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetByID loads an account by id.
func (s *AccountService) GetByID(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &user, nil
}
