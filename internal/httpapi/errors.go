package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ankita-1110/smart-attendance/internal/attendance"
	"github.com/ankita-1110/smart-attendance/internal/student"
)

// respondError maps service errors onto the HTTP taxonomy. Anything not
// recognized is an internal failure; its detail is logged and echoed in
// the details field.
func respondError(c *gin.Context, err error) {
	var marked *attendance.AlreadyMarkedError
	switch {
	case errors.As(err, &marked):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Attendance already marked for today",
			"attendance": marked.Existing,
		})
	case errors.Is(err, attendance.ErrMissingStudentID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, student.ErrDuplicateEmail), errors.Is(err, student.ErrDuplicateRoll):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, student.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, attendance.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, attendance.ErrStudentNotFound), errors.Is(err, student.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal error",
			"details": err.Error(),
		})
	}
}
