package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"motor_rental/internal/model"
	"motor_rental/internal/repository/repotest"
)

// password "admin123"
const admin123Hash = "pbkdf2:sha256:1000$abcdefghijklmnop$c076c837c77f84bd968c14c8d07252136f663b51f3ad7ffe980ee4228a703430"

type fakeImages struct {
	mu      sync.Mutex
	saveErr error
	n       int
	stored  map[string]bool
	deleted []string
}

func newFakeImages() *fakeImages {
	return &fakeImages{stored: make(map[string]bool)}
}

func (f *fakeImages) Save(fh *multipart.FileHeader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.n++
	name := fmt.Sprintf("img%d.jpg", f.n)
	f.stored[name] = true
	return name, nil
}

func (f *fakeImages) Delete(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, name)
	f.deleted = append(f.deleted, name)
	return true
}

func (f *fakeImages) has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored[name]
}

func seedUsers(store *repotest.Store) (superID, adminID int) {
	superID = store.AddUser(model.User{Username: "superadmin", PasswordHash: admin123Hash, Role: model.RoleSuperadmin})
	adminID = store.AddUser(model.User{Username: "budi", PasswordHash: admin123Hash, Role: model.RoleAdmin})
	return superID, adminID
}

func testFile() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "vario.png", Size: 10}
}

func validInput(plate string) model.MotorInput {
	return model.MotorInput{Name: "Honda Vario", Plate: plate, Status: model.MotorAvailable}
}

var ctx = context.Background()
