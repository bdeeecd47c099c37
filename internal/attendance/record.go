package attendance

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used as the idempotency key.
const DateLayout = "2006-01-02"

// Record is one attendance entry: at most one exists per student per
// calendar day. Records are immutable once written.
type Record struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	RollNumber  string    `json:"rollNumber"`
	StudentName string    `json:"studentName"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
	Method      string    `json:"method"`
	MarkedAt    time.Time `json:"markedAt"`
}

var (
	// ErrMissingStudentID means the mark request carried no student id.
	ErrMissingStudentID = errors.New("student ID is required")
	// ErrForbidden means a student tried to act on another student's records.
	ErrForbidden = errors.New("you can only access your own attendance")
	// ErrStudentNotFound means the referenced student does not exist.
	ErrStudentNotFound = errors.New("student not found")
)

// AlreadyMarkedError reports a duplicate daily mark and carries the
// record that won, so clients can display it.
type AlreadyMarkedError struct {
	Existing Record
}

func (e *AlreadyMarkedError) Error() string {
	return fmt.Sprintf("attendance already marked for %s", e.Existing.Date)
}
