package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ankita-1110/smart-attendance/internal/attendance"
	"github.com/ankita-1110/smart-attendance/internal/auth"
	"github.com/ankita-1110/smart-attendance/internal/queue"
)

// markAttendance records today's attendance for a student.
func (h *Handlers) markAttendance(c *gin.Context) {
	var req struct {
		StudentID string `json:"studentId"`
		Method    string `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := auth.FromContext(c)
	rec, err := h.ledger.Mark(c.Request.Context(), req.StudentID, req.Method, claims)
	if err != nil {
		respondError(c, err)
		return
	}

	marksTotal.WithLabelValues(metricMethod(rec.Method)).Inc()
	if h.marks != nil {
		evt := queue.MarkEvent{
			RecordID:  rec.ID,
			StudentID: rec.StudentID,
			Date:      rec.Date,
			Method:    rec.Method,
		}
		if err := h.marks.Publish(c.Request.Context(), evt); err != nil {
			log.Printf("mark event publish failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Attendance marked successfully",
		"attendance": rec,
	})
}

// getStudentAttendance lists one student's records, most recent first.
func (h *Handlers) getStudentAttendance(c *gin.Context) {
	studentID := c.Param("studentId")
	claims := auth.FromContext(c)

	records, err := h.ledger.ForStudent(c.Request.Context(), studentID, claims)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{
		"studentId":  studentID,
		"attendance": records,
		"totalDays":  len(records),
	})
}

// getAllAttendance lists records with optional date/student filters,
// capped at 1000.
func (h *Handlers) getAllAttendance(c *gin.Context) {
	records, err := h.ledger.List(c.Request.Context(), attendance.Filter{
		Date:      c.Query("date"),
		StudentID: c.Query("studentId"),
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
