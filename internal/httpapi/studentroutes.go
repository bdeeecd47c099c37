package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ankita-1110/smart-attendance/internal/auth"
	"github.com/ankita-1110/smart-attendance/internal/student"
)

// getProfile returns the caller's own directory record.
func (h *Handlers) getProfile(c *gin.Context) {
	claims := auth.FromContext(c)
	stu, err := h.students.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": stu})
}

// updateProfile applies a partial update to the caller's own record.
func (h *Handlers) updateProfile(c *gin.Context) {
	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := auth.FromContext(c)
	if err := h.students.Update(c.Request.Context(), claims.UserID, req.Name, req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// getQRCode renders the caller's mark-attendance QR code as a data URL.
func (h *Handlers) getQRCode(c *gin.Context) {
	claims := auth.FromContext(c)
	dataURL, err := student.QRCode(claims.UserID, claims.RollNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"qrCode":     dataURL,
		"studentId":  claims.UserID,
		"rollNumber": claims.RollNumber,
	})
}
