package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ankita-1110/smart-attendance/internal/auth"
	"github.com/ankita-1110/smart-attendance/internal/student"
)

// register handles multipart student registration with an optional photo.
func (h *Handlers) register(c *gin.Context) {
	in := student.RegisterInput{
		Name:       c.PostForm("name"),
		RollNumber: c.PostForm("rollNumber"),
		Email:      c.PostForm("email"),
		Password:   c.PostForm("password"),
	}
	if in.Name == "" || in.RollNumber == "" || in.Email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	if file, header, err := c.Request.FormFile("photo"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
			return
		}
		in.Photo = data
		in.PhotoName = header.Filename
	}

	created, err := h.students.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.issueToken(created.ID, created.Email, created.Role, created.RollNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	registrationsTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Student registered successfully",
		"token":   token,
		"student": created,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login authenticates a student by email and password.
func (h *Handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	stu, err := h.students.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.issueToken(stu.ID, stu.Email, stu.Role, stu.RollNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"student": stu,
	})
}

// adminLogin authenticates against the configured admin credentials. The
// admin is not a directory record; its user id is the fixed "admin".
func (h *Handlers) adminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	if err := h.students.AdminLogin(req.Email, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin credentials"})
		return
	}

	token, err := h.issueToken("admin", h.adminEmail, auth.RoleAdmin, "")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin login successful",
		"token":   token,
		"admin": gin.H{
			"email": h.adminEmail,
			"role":  auth.RoleAdmin,
		},
	})
}
