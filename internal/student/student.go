package student

import (
	"errors"
	"time"
)

// Student is a directory record. The password hash never serializes.
type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RollNumber   string    `json:"rollNumber"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var (
	// ErrNotFound means no student matches the lookup.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("student with this email already exists")
	// ErrDuplicateRoll means the roll number is already registered.
	ErrDuplicateRoll = errors.New("student with this roll number already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
