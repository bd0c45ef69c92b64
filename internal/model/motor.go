package model

import (
	"strings"
	"time"
)

// MotorStatus is the rental state of a motor.
type MotorStatus string

const (
	MotorAvailable   MotorStatus = "available"
	MotorRented      MotorStatus = "rented"
	MotorMaintenance MotorStatus = "maintenance"
)

// MotorStatuses lists every status in display order.
var MotorStatuses = []MotorStatus{MotorAvailable, MotorRented, MotorMaintenance}

// ParseMotorStatus converts a stored value into a MotorStatus.
func ParseMotorStatus(s string) (MotorStatus, bool) {
	for _, st := range MotorStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Label returns the user-facing name of the status.
func (s MotorStatus) Label() string {
	switch s {
	case MotorAvailable:
		return "Tersedia"
	case MotorRented:
		return "Disewa"
	case MotorMaintenance:
		return "Perawatan"
	}
	return string(s)
}

// Motor represents a rentable vehicle owned by an admin
type Motor struct {
	ID          int         `json:"id"`
	Name        string      `json:"nama_motor"`
	Plate       string      `json:"plat_nomor"`
	Status      MotorStatus `json:"status"`
	Description string      `json:"deskripsi"`
	Image       *string     `json:"gambar,omitempty"` // stored filename inside the upload directory
	OwnerID     int         `json:"admin_id"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ImageName returns the stored image filename or an empty string.
func (m *Motor) ImageName() string {
	if m.Image == nil {
		return ""
	}
	return *m.Image
}

// MotorInput carries the editable fields of the motor forms.
type MotorInput struct {
	Name        string      `form:"nama_motor" validate:"required,max=100"`
	Plate       string      `form:"plat_nomor" validate:"required,max=20"`
	Status      MotorStatus `form:"status" validate:"required,oneof=available rented maintenance"`
	Description string      `form:"deskripsi" validate:"max=1000"`
}

// Normalize trims surrounding whitespace from the text fields.
func (in MotorInput) Normalize() MotorInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Plate = strings.TrimSpace(in.Plate)
	in.Status = MotorStatus(strings.TrimSpace(string(in.Status)))
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// DashboardStats is the role-dependent summary shown on the dashboard.
type DashboardStats struct {
	// superadmin view
	AdminCount      int
	SuperadminCount int

	// admin view
	MotorTotal     int
	MotorsByStatus map[MotorStatus]int
}
