// Package httpapi wires the REST surface: route registration, request
// decoding, error mapping and metrics. All domain behavior lives in the
// service packages.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ankita-1110/smart-attendance/internal/attendance"
	"github.com/ankita-1110/smart-attendance/internal/auth"
	"github.com/ankita-1110/smart-attendance/internal/queue"
	"github.com/ankita-1110/smart-attendance/internal/student"
	"github.com/ankita-1110/smart-attendance/internal/tally"
)

// Directory is the student-service surface the handlers need.
type Directory interface {
	Register(ctx context.Context, in student.RegisterInput) (student.Student, error)
	Login(ctx context.Context, email, password string) (student.Student, error)
	AdminLogin(email, password string) error
	Get(ctx context.Context, id string) (*student.Student, error)
	Update(ctx context.Context, id string, name, email *string) error
	List(ctx context.Context) ([]student.Student, error)
}

// Ledger is the attendance-service surface the handlers need.
type Ledger interface {
	Mark(ctx context.Context, studentID, method string, claims auth.Claims) (attendance.Record, error)
	ForStudent(ctx context.Context, studentID string, claims auth.Claims) ([]attendance.Record, error)
	List(ctx context.Context, f attendance.Filter) ([]attendance.Record, error)
	ComputeStats(ctx context.Context, startDate, endDate string) (attendance.Stats, error)
	ExportCSV(ctx context.Context, startDate, endDate string) (string, error)
}

// LiveTally serves the dashboard's live counter.
type LiveTally interface {
	ForDate(ctx context.Context, date string) (tally.Snapshot, error)
}

// Handlers holds the wired services and token configuration.
type Handlers struct {
	students   Directory
	ledger     Ledger
	live       LiveTally
	marks      queue.Queue
	jwtSecret  string
	jwtIssuer  string
	tokenTTL   time.Duration
	adminEmail string
	loc        *time.Location
}

// New creates the handler set. live and marks may be nil; the endpoints
// they back then degrade gracefully.
func New(students Directory, ledger Ledger, live LiveTally, marks queue.Queue,
	jwtSecret, jwtIssuer string, tokenTTL time.Duration, adminEmail string, loc *time.Location) *Handlers {
	if loc == nil {
		loc = time.Local
	}
	return &Handlers{
		students:   students,
		ledger:     ledger,
		live:       live,
		marks:      marks,
		jwtSecret:  jwtSecret,
		jwtIssuer:  jwtIssuer,
		tokenTTL:   tokenTTL,
		adminEmail: adminEmail,
		loc:        loc,
	}
}

// Mount registers all API routes under /api.
func (h *Handlers) Mount(r gin.IRouter) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.POST("/admin/login", h.adminLogin)

	authed := api.Group("", auth.Authenticated(h.jwtSecret, h.jwtIssuer))

	students := authed.Group("/students")
	students.GET("/profile", h.getProfile)
	students.PUT("/profile", h.updateProfile)
	students.GET("/qr-code", h.getQRCode)

	att := authed.Group("/attendance")
	att.POST("/mark", h.markAttendance)
	att.GET("/student/:studentId", h.getStudentAttendance)
	att.GET("/all", h.getAllAttendance)

	admin := authed.Group("/admin", auth.AdminOnly())
	admin.GET("/students", h.getAllStudents)
	admin.GET("/stats", h.getStats)
	admin.GET("/stats/today", h.getTodayTally)
	admin.GET("/export", h.exportCSV)
	admin.GET("/attendance", h.getAdminAttendance)
}

func (h *Handlers) issueToken(userID, email, role, rollNumber string) (string, error) {
	return auth.Issue(userID, email, role, rollNumber, h.jwtIssuer, h.jwtSecret, h.tokenTTL)
}
