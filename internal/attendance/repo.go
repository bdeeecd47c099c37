package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordCols = `id, student_id, roll_number, student_name, date, ts, method, marked_at`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var rec Record
	var day time.Time
	err := row.Scan(&rec.ID, &rec.StudentID, &rec.RollNumber, &rec.StudentName,
		&day, &rec.Timestamp, &rec.Method, &rec.MarkedAt)
	if err != nil {
		return Record{}, err
	}
	rec.Date = day.Format(DateLayout)
	return rec, nil
}

// GetByDay returns the record for (studentID, date), or nil when absent.
func (r *Repository) GetByDay(ctx context.Context, studentID, date string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordCols+` FROM attendance_records
		WHERE student_id = $1 AND date = $2
	`, studentID, date)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// InsertOnce writes a record unless one already exists for the same
// (student_id, date). The UNIQUE constraint decides ties between
// concurrent inserts; a lost race reports inserted=false.
func (r *Repository) InsertOnce(ctx context.Context, rec Record) (Record, bool, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_records (id, student_id, roll_number, student_name, date, ts, method, marked_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (student_id, date) DO NOTHING
		RETURNING id
	`, rec.ID, rec.StudentID, rec.RollNumber, rec.StudentName, rec.Date, rec.Timestamp, rec.Method, rec.MarkedAt)
	if err := row.Scan(&rec.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return rec, true, nil
}

// ListForStudent returns a student's records, most recent first.
func (r *Repository) ListForStudent(ctx context.Context, studentID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordCols+` FROM attendance_records
		WHERE student_id = $1
		ORDER BY ts DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Filter narrows admin-wide record listing. Date wins over the range when
// both are supplied, matching the admin query semantics. Limit 0 applies
// the default cap of 1000; a negative Limit means no cap (reporting).
type Filter struct {
	Date      string
	StudentID string
	StartDate string
	EndDate   string
	Limit     int
}

// List returns records matching the filter, most recent first, capped at
// Filter.Limit. Records beyond the cap are silently omitted.
func (r *Repository) List(ctx context.Context, f Filter) ([]Record, error) {
	if f.Limit == 0 {
		f.Limit = 1000
	}
	query := `SELECT ` + recordCols + ` FROM attendance_records`
	args := []any{}
	clauses := []string{}
	if f.Date != "" {
		clauses = append(clauses, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, f.Date)
	} else if f.StartDate != "" && f.EndDate != "" {
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, f.StartDate)
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, f.EndDate)
	}
	if f.StudentID != "" {
		clauses = append(clauses, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, f.StudentID)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY ts DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]Record, error) {
	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
