package attendance

import (
	"context"
	"strings"
	"time"
)

// Stats aggregates a record set into per-date, per-student and per-method
// tallies. Each breakdown sums to TotalRecords.
type Stats struct {
	TotalRecords int            `json:"totalRecords"`
	ByDate       map[string]int `json:"byDate"`
	ByStudent    map[string]int `json:"byStudent"`
	ByMethod     map[string]int `json:"byMethod"`
}

// ComputeStats tallies records for the optional date range in one pass.
func (s *Service) ComputeStats(ctx context.Context, startDate, endDate string) (Stats, error) {
	records, err := s.store.List(ctx, Filter{StartDate: startDate, EndDate: endDate, Limit: -1})
	if err != nil {
		return Stats{}, err
	}
	return Tally(records), nil
}

// Tally folds records into aggregate counts.
func Tally(records []Record) Stats {
	stats := Stats{
		TotalRecords: len(records),
		ByDate:       map[string]int{},
		ByStudent:    map[string]int{},
		ByMethod:     map[string]int{},
	}
	for _, rec := range records {
		stats.ByDate[rec.Date]++
		stats.ByStudent[rec.StudentID]++
		stats.ByMethod[rec.Method]++
	}
	return stats
}

// ExportCSV renders the optional date range as CSV, most recent first.
// Every field is double-quoted, with embedded quotes doubled.
func (s *Service) ExportCSV(ctx context.Context, startDate, endDate string) (string, error) {
	records, err := s.store.List(ctx, Filter{StartDate: startDate, EndDate: endDate, Limit: -1})
	if err != nil {
		return "", err
	}
	return RenderCSV(records, s.loc), nil
}

// RenderCSV formats records into the export layout. Times are rendered in
// the given timezone.
func RenderCSV(records []Record, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	b.WriteString("Student Name,Roll Number,Date,Time,Method\n")
	for i, rec := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		fields := []string{
			rec.StudentName,
			rec.RollNumber,
			rec.Date,
			rec.Timestamp.In(loc).Format("15:04:05"),
			rec.Method,
		}
		for j, field := range fields {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}
