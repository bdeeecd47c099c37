package student

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/ankita-1110/smart-attendance/internal/auth"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, s Student) (Student, error)
	GetByID(ctx context.Context, id string) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	RollExists(ctx context.Context, rollNumber string) (bool, error)
	Update(ctx context.Context, id string, name, email *string) error
	List(ctx context.Context) ([]Student, error)
}

// PhotoStore uploads a profile photo and returns its public URL.
type PhotoStore interface {
	Upload(ctx context.Context, data []byte, publicID string) (string, error)
}

// Service implements the student directory.
type Service struct {
	store         Store
	photos        PhotoStore
	adminEmail    string
	adminPassword string
}

// NewService creates a directory service. photos may be nil when object
// storage is not configured; registration then skips the photo.
func NewService(store Store, photos PhotoStore, adminEmail, adminPassword string) *Service {
	return &Service{store: store, photos: photos, adminEmail: adminEmail, adminPassword: adminPassword}
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name       string
	RollNumber string
	Email      string
	Password   string
	Photo      []byte
	PhotoName  string
}

// Register creates a student. The photo, when present, is uploaded before
// the row is inserted so a stored record never references a missing photo.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Student, error) {
	if in.Name == "" || in.RollNumber == "" || in.Email == "" || in.Password == "" {
		return Student{}, errors.New("all fields are required")
	}

	// Friendly pre-checks; the UNIQUE constraints remain the real guard.
	if exists, err := s.store.EmailExists(ctx, in.Email); err != nil {
		return Student{}, err
	} else if exists {
		return Student{}, ErrDuplicateEmail
	}
	if exists, err := s.store.RollExists(ctx, in.RollNumber); err != nil {
		return Student{}, err
	} else if exists {
		return Student{}, ErrDuplicateRoll
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Student{}, err
	}

	photoURL := ""
	if len(in.Photo) > 0 && s.photos != nil {
		publicID := fmt.Sprintf("%s_%d_%s", in.RollNumber, time.Now().UnixMilli(), in.PhotoName)
		photoURL, err = s.photos.Upload(ctx, in.Photo, publicID)
		if err != nil {
			return Student{}, fmt.Errorf("photo upload failed: %w", err)
		}
	}

	return s.store.Insert(ctx, Student{
		Name:         in.Name,
		RollNumber:   in.RollNumber,
		Email:        in.Email,
		PasswordHash: hash,
		PhotoURL:     photoURL,
		Role:         auth.RoleStudent,
	})
}

// Login verifies credentials and returns the stored student.
func (s *Service) Login(ctx context.Context, email, password string) (Student, error) {
	if email == "" || password == "" {
		return Student{}, ErrInvalidCredentials
	}
	stored, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Student{}, ErrInvalidCredentials
		}
		return Student{}, err
	}
	if !auth.CheckPassword(password, stored.PasswordHash) {
		return Student{}, ErrInvalidCredentials
	}
	if stored.Role == "" {
		stored.Role = auth.RoleStudent
	}
	return *stored, nil
}

// AdminLogin checks the configured admin credentials. The admin is not a
// directory record; its identity is the synthetic user id "admin".
func (s *Service) AdminLogin(email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !emailOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// Get returns a student profile by id.
func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	return s.store.GetByID(ctx, id)
}

// Update applies a partial profile update; nil fields are left unchanged.
func (s *Service) Update(ctx context.Context, id string, name, email *string) error {
	return s.store.Update(ctx, id, name, email)
}

// List returns all students.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.store.List(ctx)
}
