package student

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ankita-1110/smart-attendance/internal/auth"
)

type fakeStore struct {
	mu       sync.Mutex
	byID     map[string]Student
	byEmail  map[string]string
	byRoll   map[string]string
	inserted int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byID:    map[string]Student{},
		byEmail: map[string]string{},
		byRoll:  map[string]string{},
	}
}

func (f *fakeStore) Insert(_ context.Context, s Student) (Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[s.Email]; ok {
		return Student{}, ErrDuplicateEmail
	}
	if _, ok := f.byRoll[s.RollNumber]; ok {
		return Student{}, ErrDuplicateRoll
	}
	f.inserted++
	if s.ID == "" {
		s.ID = fmt.Sprintf("id-%d", f.inserted)
	}
	f.byID[s.ID] = s
	f.byEmail[s.Email] = s.ID
	f.byRoll[s.RollNumber] = s.ID
	return s, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	s := f.byID[id]
	return &s, nil
}

func (f *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeStore) RollExists(_ context.Context, roll string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byRoll[roll]
	return ok, nil
}

func (f *fakeStore) Update(_ context.Context, id string, name, email *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	if name != nil {
		s.Name = *name
	}
	if email != nil {
		s.Email = *email
	}
	f.byID[id] = s
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Student
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

type fakePhotos struct {
	lastID string
	fail   bool
}

func (f *fakePhotos) Upload(_ context.Context, _ []byte, publicID string) (string, error) {
	if f.fail {
		return "", errors.New("upload failed")
	}
	f.lastID = publicID
	return "https://photos.test/" + publicID, nil
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:       "Ankita",
		RollNumber: "R1",
		Email:      "ankita@school.test",
		Password:   "s3cret-pass",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := NewService(newFakeStore(), nil, "admin@school.test", "adminpass")
	created, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.PasswordHash == "s3cret-pass" || created.PasswordHash == "" {
		t.Fatal("password stored unhashed")
	}
	if !auth.CheckPassword("s3cret-pass", created.PasswordHash) {
		t.Fatal("stored hash does not verify")
	}
	if created.Role != auth.RoleStudent {
		t.Fatalf("expected student role, got %q", created.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeStore(), nil, "admin@school.test", "adminpass")
	if _, err := svc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	dup := validInput()
	dup.RollNumber = "R2"
	if _, err := svc.Register(context.Background(), dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRegisterDuplicateRoll(t *testing.T) {
	svc := NewService(newFakeStore(), nil, "admin@school.test", "adminpass")
	if _, err := svc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	dup := validInput()
	dup.Email = "other@school.test"
	if _, err := svc.Register(context.Background(), dup); !errors.Is(err, ErrDuplicateRoll) {
		t.Fatalf("expected ErrDuplicateRoll, got %v", err)
	}
}

func TestRegisterUploadsPhotoBeforeInsert(t *testing.T) {
	store := newFakeStore()
	photos := &fakePhotos{}
	svc := NewService(store, photos, "admin@school.test", "adminpass")

	in := validInput()
	in.Photo = []byte{1, 2, 3}
	in.PhotoName = "face.jpg"
	created, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.PhotoURL == "" {
		t.Fatal("photo url not stored")
	}

	// A failed upload must leave no student behind.
	photos.fail = true
	in2 := validInput()
	in2.Email = "two@school.test"
	in2.RollNumber = "R2"
	in2.Photo = []byte{1}
	if _, err := svc.Register(context.Background(), in2); err == nil {
		t.Fatal("expected upload error")
	}
	if ok, _ := store.EmailExists(context.Background(), "two@school.test"); ok {
		t.Fatal("student inserted despite failed photo upload")
	}
}

func TestLogin(t *testing.T) {
	svc := NewService(newFakeStore(), nil, "admin@school.test", "adminpass")
	if _, err := svc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	stu, err := svc.Login(context.Background(), "ankita@school.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if stu.RollNumber != "R1" {
		t.Fatalf("unexpected student: %+v", stu)
	}

	if _, err := svc.Login(context.Background(), "ankita@school.test", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@school.test", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	svc := NewService(newFakeStore(), nil, "admin@school.test", "adminpass")
	if err := svc.AdminLogin("admin@school.test", "adminpass"); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if err := svc.AdminLogin("admin@school.test", "bad"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.AdminLogin("other@school.test", "adminpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, "admin@school.test", "adminpass")
	created, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	name := "New Name"
	if err := svc.Update(context.Background(), created.ID, &name, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "New Name" || got.Email != "ankita@school.test" {
		t.Fatalf("partial update broke fields: %+v", got)
	}
}
