// Package user defines the user domain entity
package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/macrotrack/api/internal/domain/shared"
)

// Domain errors for user operations
var (
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmailTooLong     = errors.New("email too long")
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameLength   = errors.New("username must be between 3 and 50 characters")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrNameTooLong      = errors.New("name too long")
	ErrContactTooLong   = errors.New("contact too long")
	ErrPasswordHashing  = errors.New("failed to hash password")
	ErrPasswordMismatch = errors.New("invalid password")
)

// User represents a registered account
type User struct {
	shared.AggregateRoot

	id           uuid.UUID
	firstName    string
	lastName     string
	contact      string
	username     string
	email        string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time
}

// Registration carries the signup form fields
type Registration struct {
	FirstName string
	LastName  string
	Contact   string
	Username  string
	Email     string
	Password  string
}

// ContactDetails holds the editable profile fields
type ContactDetails struct {
	FirstName string
	LastName  string
	Contact   string
}

// NewUser validates a registration and hashes the password with the given
// bcrypt cost. A cost of zero uses bcrypt.DefaultCost.
func NewUser(reg Registration, bcryptCost int) (*User, error) {
	if err := validateEmail(reg.Email); err != nil {
		return nil, err
	}

	if err := validateUsername(reg.Username); err != nil {
		return nil, err
	}

	if err := validatePassword(reg.Password); err != nil {
		return nil, err
	}

	details := ContactDetails{FirstName: reg.FirstName, LastName: reg.LastName, Contact: reg.Contact}
	if err := validateContactDetails(details); err != nil {
		return nil, err
	}

	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcryptCost)
	if err != nil {
		return nil, ErrPasswordHashing
	}

	now := time.Now().UTC()
	u := &User{
		id:           uuid.New(),
		firstName:    strings.TrimSpace(details.FirstName),
		lastName:     strings.TrimSpace(details.LastName),
		contact:      strings.TrimSpace(details.Contact),
		username:     strings.TrimSpace(reg.Username),
		email:        strings.ToLower(strings.TrimSpace(reg.Email)),
		passwordHash: string(hashedPassword),
		createdAt:    now,
		updatedAt:    now,
	}
	u.AddEvent(RegisteredEvent{
		BaseEvent: shared.BaseEvent{User: u.id, At: now},
		Username:  u.username,
	})
	return u, nil
}

// Snapshot is the persisted form of a user
type Snapshot struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Contact      string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// Reconstitute rebuilds a user from storage without re-validating
func Reconstitute(s Snapshot) *User {
	return &User{
		id:           s.ID,
		firstName:    s.FirstName,
		lastName:     s.LastName,
		contact:      s.Contact,
		username:     s.Username,
		email:        s.Email,
		passwordHash: s.PasswordHash,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		lastLoginAt:  s.LastLoginAt,
	}
}

// Snapshot exports the user's state for persistence
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		ID:           u.id,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		Contact:      u.contact,
		Username:     u.username,
		Email:        u.email,
		PasswordHash: u.passwordHash,
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
		LastLoginAt:  u.lastLoginAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID {
	return u.id
}

// FirstName returns the user's first name
func (u *User) FirstName() string {
	return u.firstName
}

// LastName returns the user's last name
func (u *User) LastName() string {
	return u.lastName
}

// Contact returns the user's contact number
func (u *User) Contact() string {
	return u.contact
}

// Username returns the login name
func (u *User) Username() string {
	return u.username
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the user was last updated
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// LastLoginAt returns when the user last logged in
func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

// CheckPassword verifies if the provided password matches
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// UpdateContactDetails replaces the editable profile fields
func (u *User) UpdateContactDetails(details ContactDetails) error {
	if err := validateContactDetails(details); err != nil {
		return err
	}

	u.firstName = strings.TrimSpace(details.FirstName)
	u.lastName = strings.TrimSpace(details.LastName)
	u.contact = strings.TrimSpace(details.Contact)
	u.updatedAt = time.Now().UTC()
	return nil
}

// RecordLogin records a login timestamp
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.lastLoginAt = &now
	u.updatedAt = now
}

// Validation functions
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	if len(email) > 255 {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	return nil
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}

	if len(username) < 3 || len(username) > 50 {
		return ErrUsernameLength
	}

	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	if len(password) > 72 {
		return ErrPasswordTooLong
	}

	return nil
}

func validateContactDetails(d ContactDetails) error {
	if len(d.FirstName) > 100 || len(d.LastName) > 100 {
		return ErrNameTooLong
	}

	if len(d.Contact) > 32 {
		return ErrContactTooLong
	}

	return nil
}
