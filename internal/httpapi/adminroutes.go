package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ankita-1110/smart-attendance/internal/attendance"
	"github.com/ankita-1110/smart-attendance/internal/student"
)

// getAllStudents returns the full directory for the admin view.
func (h *Handlers) getAllStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if students == nil {
		students = []student.Student{}
	}
	c.JSON(http.StatusOK, gin.H{
		"students": students,
		"total":    len(students),
	})
}

// getStats aggregates the ledger for an optional date range.
func (h *Handlers) getStats(c *gin.Context) {
	stats, err := h.ledger.ComputeStats(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getTodayTally serves the live counter maintained by the worker.
func (h *Handlers) getTodayTally(c *gin.Context) {
	if h.live == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live tally not available"})
		return
	}
	today := time.Now().In(h.loc).Format(attendance.DateLayout)
	snap, err := h.live.ForDate(c.Request.Context(), today)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live tally not available"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// exportCSV streams the attendance export as a CSV attachment.
func (h *Handlers) exportCSV(c *gin.Context) {
	csv, err := h.ledger.ExportCSV(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=attendance.csv")
	c.Data(http.StatusOK, "text/csv", []byte(csv))
}

// getAdminAttendance lists records with the full filter set.
func (h *Handlers) getAdminAttendance(c *gin.Context) {
	records, err := h.ledger.List(c.Request.Context(), attendance.Filter{
		Date:      c.Query("date"),
		StudentID: c.Query("studentId"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{
		"attendance":   records,
		"totalRecords": len(records),
	})
}
