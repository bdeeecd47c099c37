package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ankita-1110/smart-attendance/internal/attendance"
	"github.com/ankita-1110/smart-attendance/internal/auth"
	"github.com/ankita-1110/smart-attendance/internal/student"
)

const (
	testSecret = "test-secret"
	testIssuer = "smart-attendance"
)

type fakeDirectory struct {
	students map[string]student.Student
}

func (f *fakeDirectory) Register(_ context.Context, in student.RegisterInput) (student.Student, error) {
	s := student.Student{ID: "new", Name: in.Name, RollNumber: in.RollNumber, Email: in.Email, Role: auth.RoleStudent}
	f.students[s.ID] = s
	return s, nil
}

func (f *fakeDirectory) Login(_ context.Context, email, password string) (student.Student, error) {
	for _, s := range f.students {
		if s.Email == email && password == "good-pass" {
			return s, nil
		}
	}
	return student.Student{}, student.ErrInvalidCredentials
}

func (f *fakeDirectory) AdminLogin(email, password string) error {
	if email == "admin@school.test" && password == "adminpass" {
		return nil
	}
	return student.ErrInvalidCredentials
}

func (f *fakeDirectory) Get(_ context.Context, id string) (*student.Student, error) {
	if s, ok := f.students[id]; ok {
		return &s, nil
	}
	return nil, student.ErrNotFound
}

func (f *fakeDirectory) Update(_ context.Context, id string, name, email *string) error {
	s, ok := f.students[id]
	if !ok {
		return student.ErrNotFound
	}
	if name != nil {
		s.Name = *name
	}
	if email != nil {
		s.Email = *email
	}
	f.students[id] = s
	return nil
}

func (f *fakeDirectory) List(_ context.Context) ([]student.Student, error) {
	var out []student.Student
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, nil
}

type fakeLedger struct {
	mu    sync.Mutex
	byDay map[string]attendance.Record
	seq   int
}

func (f *fakeLedger) Mark(_ context.Context, studentID, method string, claims auth.Claims) (attendance.Record, error) {
	if studentID == "" {
		return attendance.Record{}, attendance.ErrMissingStudentID
	}
	if claims.Role == auth.RoleStudent && claims.UserID != studentID {
		return attendance.Record{}, attendance.ErrForbidden
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	today := time.Now().UTC().Format(attendance.DateLayout)
	k := studentID + "|" + today
	if existing, ok := f.byDay[k]; ok {
		return attendance.Record{}, &attendance.AlreadyMarkedError{Existing: existing}
	}
	if method == "" {
		method = "manual"
	}
	f.seq++
	rec := attendance.Record{
		ID:        fmt.Sprintf("rec-%d", f.seq),
		StudentID: studentID,
		Date:      today,
		Timestamp: time.Now().UTC(),
		Method:    method,
	}
	f.byDay[k] = rec
	return rec, nil
}

func (f *fakeLedger) ForStudent(_ context.Context, studentID string, claims auth.Claims) ([]attendance.Record, error) {
	if claims.Role == auth.RoleStudent && claims.UserID != studentID {
		return nil, attendance.ErrForbidden
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, rec := range f.byDay {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeLedger) List(_ context.Context, _ attendance.Filter) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, rec := range f.byDay {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeLedger) ComputeStats(_ context.Context, _, _ string) (attendance.Stats, error) {
	records, _ := f.List(nil, attendance.Filter{})
	return attendance.Tally(records), nil
}

func (f *fakeLedger) ExportCSV(_ context.Context, _, _ string) (string, error) {
	records, _ := f.List(nil, attendance.Filter{})
	return attendance.RenderCSV(records, time.UTC), nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeDirectory, *fakeLedger) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := &fakeDirectory{students: map[string]student.Student{
		"u1": {ID: "u1", Name: "Ankita", RollNumber: "R1", Email: "ankita@school.test", Role: auth.RoleStudent},
	}}
	ledger := &fakeLedger{byDay: map[string]attendance.Record{}}
	h := New(dir, ledger, nil, nil, testSecret, testIssuer, time.Hour, "admin@school.test", time.UTC)
	r := gin.New()
	h.Mount(r)
	return r, dir, ledger
}

func studentToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.Issue(userID, "ankita@school.test", auth.RoleStudent, "R1", testIssuer, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.Issue("admin", "admin@school.test", auth.RoleAdmin, "", testIssuer, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func doJSON(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterMissingFields(t *testing.T) {
	r, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("name=Only+Name"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAdminLoginEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/admin/login", "",
		`{"email":"admin@school.test","password":"adminpass"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Admin struct {
			Role string `json:"role"`
		} `json:"admin"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Admin.Role != "admin" || resp.Token == "" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	claims, err := auth.Parse(resp.Token, testSecret, testIssuer)
	if err != nil || !claims.IsAdmin() {
		t.Fatalf("issued token is not an admin token: %v", err)
	}

	w = doJSON(r, http.MethodPost, "/api/auth/admin/login", "",
		`{"email":"admin@school.test","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMarkThenConflict(t *testing.T) {
	r, _, _ := newTestRouter(t)
	token := studentToken(t, "u1")

	w := doJSON(r, http.MethodPost, "/api/attendance/mark", token, `{"studentId":"u1","method":"qr"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var first struct {
		Attendance attendance.Record `json:"attendance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Attendance.ID == "" {
		t.Fatalf("missing record id: %s", w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/api/attendance/mark", token, `{"studentId":"u1"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	var second struct {
		Attendance attendance.Record `json:"attendance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second.Attendance.ID != first.Attendance.ID {
		t.Fatalf("conflict must return the first record: got %s want %s",
			second.Attendance.ID, first.Attendance.ID)
	}
}

func TestMarkForbiddenForOtherStudent(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := doJSON(r, http.MethodPost, "/api/attendance/mark", studentToken(t, "u1"), `{"studentId":"u2"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestStudentAttendanceTotals(t *testing.T) {
	r, _, _ := newTestRouter(t)
	token := studentToken(t, "u1")
	doJSON(r, http.MethodPost, "/api/attendance/mark", token, `{"studentId":"u1"}`)

	w := doJSON(r, http.MethodGet, "/api/attendance/student/u1", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		TotalDays  int                 `json:"totalDays"`
		Attendance []attendance.Record `json:"attendance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalDays != 1 || len(resp.Attendance) != 1 {
		t.Fatalf("unexpected totals: %s", w.Body.String())
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r, _, _ := newTestRouter(t)
	for _, path := range []string{"/api/admin/students", "/api/admin/stats", "/api/admin/export", "/api/admin/attendance"} {
		w := doJSON(r, http.MethodGet, path, studentToken(t, "u1"), "")
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403 for student token, got %d", path, w.Code)
		}
		w = doJSON(r, http.MethodGet, path, "", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", path, w.Code)
		}
	}
}

func TestExportCSVHeaders(t *testing.T) {
	r, _, _ := newTestRouter(t)
	token := studentToken(t, "u1")
	doJSON(r, http.MethodPost, "/api/attendance/mark", token, `{"studentId":"u1"}`)

	w := doJSON(r, http.MethodGet, "/api/admin/export", adminToken(t), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attendance.csv") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "Student Name,Roll Number,Date,Time,Method") {
		t.Fatalf("unexpected body: %.80s", w.Body.String())
	}
}

func TestGetProfileStripsPassword(t *testing.T) {
	r, dir, _ := newTestRouter(t)
	s := dir.students["u1"]
	s.PasswordHash = "$2a$10$hash"
	dir.students["u1"] = s

	w := doJSON(r, http.MethodGet, "/api/students/profile", studentToken(t, "u1"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "$2a$10$hash") || strings.Contains(w.Body.String(), "password") {
		t.Fatalf("password leaked: %s", w.Body.String())
	}
}

func TestQRCodeEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api/students/qr-code", studentToken(t, "u1"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		QRCode     string `json:"qrCode"`
		StudentID  string `json:"studentId"`
		RollNumber string `json:"rollNumber"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.QRCode, "data:image/png;base64,") {
		t.Fatalf("expected data URL, got %.40s", resp.QRCode)
	}
	if resp.StudentID != "u1" || resp.RollNumber != "R1" {
		t.Fatalf("unexpected identity: %s", w.Body.String())
	}
}
