package student

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists student records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const studentCols = `id, name, roll_number, email, password_hash, photo_url, role, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.Name, &s.RollNumber, &s.Email, &s.PasswordHash,
		&s.PhotoURL, &s.Role, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Insert writes a new student. Unique violations on email or roll_number
// surface as ErrDuplicateEmail / ErrDuplicateRoll, which makes registration
// safe even when two identical requests race past the pre-checks.
func (r *Repository) Insert(ctx context.Context, s Student) (Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Role == "" {
		s.Role = "student"
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, name, roll_number, email, password_hash, photo_url, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, s.ID, s.Name, s.RollNumber, s.Email, s.PasswordHash, s.PhotoURL, s.Role)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return Student{}, mapUniqueViolation(err)
	}
	return s, nil
}

// GetByID returns a student by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE id = $1`, id)
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByEmail returns a student by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE email = $1`, email)
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// EmailExists reports whether any student has the given email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// RollExists reports whether any student has the given roll number.
func (r *Repository) RollExists(ctx context.Context, rollNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE roll_number = $1)`, rollNumber).Scan(&exists)
	return exists, err
}

// Update applies a partial profile update and refreshes updated_at.
func (r *Repository) Update(ctx context.Context, id string, name, email *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    updated_at = $4
		WHERE id = $1
	`, id, name, email, time.Now())
	if err != nil {
		return mapUniqueViolation(err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// List returns all students ordered by roll number.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentCols+` FROM students ORDER BY roll_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var students []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "students_email_key":
			return ErrDuplicateEmail
		case "students_roll_number_key":
			return ErrDuplicateRoll
		}
		return ErrDuplicateEmail
	}
	return err
}
