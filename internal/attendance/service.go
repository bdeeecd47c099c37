package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/ankita-1110/smart-attendance/internal/auth"
	"github.com/ankita-1110/smart-attendance/internal/student"
)

// Store is the ledger persistence surface.
type Store interface {
	GetByDay(ctx context.Context, studentID, date string) (*Record, error)
	InsertOnce(ctx context.Context, rec Record) (Record, bool, error)
	ListForStudent(ctx context.Context, studentID string) ([]Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
}

// Directory resolves student identities for mark-time snapshots.
type Directory interface {
	GetByID(ctx context.Context, id string) (*student.Student, error)
}

// Service implements the attendance ledger.
type Service struct {
	store    Store
	students Directory
	loc      *time.Location
	now      func() time.Time
}

// NewService creates a ledger service. loc is the zone used to compute the
// calendar date; it decides which side of midnight a mark lands on.
func NewService(store Store, students Directory, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, students: students, loc: loc, now: time.Now}
}

// Mark records today's attendance for a student. The first successful mark
// of a calendar day wins; later attempts get AlreadyMarkedError with the
// winning record. Students may only mark themselves.
func (s *Service) Mark(ctx context.Context, studentID, method string, claims auth.Claims) (Record, error) {
	if studentID == "" {
		return Record{}, ErrMissingStudentID
	}
	if claims.Role == auth.RoleStudent && claims.UserID != studentID {
		return Record{}, ErrForbidden
	}

	stu, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return Record{}, ErrStudentNotFound
		}
		return Record{}, err
	}

	now := s.now().In(s.loc)
	today := now.Format(DateLayout)

	if existing, err := s.store.GetByDay(ctx, studentID, today); err != nil {
		return Record{}, err
	} else if existing != nil {
		return Record{}, &AlreadyMarkedError{Existing: *existing}
	}

	if method == "" {
		method = "manual"
	}
	rec := Record{
		StudentID:   studentID,
		RollNumber:  stu.RollNumber,
		StudentName: stu.Name,
		Date:        today,
		Timestamp:   now,
		Method:      method,
		MarkedAt:    now,
	}
	inserted, ok, err := s.store.InsertOnce(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		// Lost the race to a concurrent mark; the stored record wins.
		existing, err := s.store.GetByDay(ctx, studentID, today)
		if err != nil {
			return Record{}, err
		}
		if existing == nil {
			return Record{}, errors.New("attendance insert conflicted but no record found")
		}
		return Record{}, &AlreadyMarkedError{Existing: *existing}
	}
	return inserted, nil
}

// ForStudent returns a student's records, most recent first. Non-admin
// callers may only read their own.
func (s *Service) ForStudent(ctx context.Context, studentID string, claims auth.Claims) ([]Record, error) {
	if claims.Role == auth.RoleStudent && claims.UserID != studentID {
		return nil, ErrForbidden
	}
	return s.store.ListForStudent(ctx, studentID)
}

// List returns admin-wide records matching the filter, capped at 1000.
func (s *Service) List(ctx context.Context, f Filter) ([]Record, error) {
	return s.store.List(ctx, f)
}
