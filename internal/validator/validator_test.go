package validator

import (
	"regexp"
	"strings"
	"testing"

	"motor_rental/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	digits := regexp.MustCompile(`[0-9]+`)

	tests := []struct {
		name    string
		value   string
		max     int
		pattern *regexp.Regexp
		want    bool
	}{
		{"plain", "hello", 10, nil, true},
		{"empty", "", 10, nil, false},
		{"blank", "   ", 10, nil, false},
		{"at limit", "abcde", 5, nil, true},
		{"over limit", "abcdef", 5, nil, false},
		{"multibyte counted as characters", "ééééé", 5, nil, true},
		{"pattern at start", "123abc", 10, digits, true},
		{"pattern not at start", "abc123", 10, digits, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.value, tt.max, tt.pattern))
		})
	}
}

func TestUsername(t *testing.T) {
	assert.True(t, Username("budi"))
	assert.True(t, Username("Admin_01"))
	assert.True(t, Username(strings.Repeat("a", 50)))

	assert.False(t, Username(""))
	assert.False(t, Username(strings.Repeat("a", 51)))
	assert.False(t, Username("budi santoso"))
	assert.False(t, Username("budi-01"))
	assert.False(t, Username("budi'; DROP TABLE users;--"))
	assert.False(t, Username("budi\n"))
}

func TestPasswords(t *testing.T) {
	assert.False(t, NewPassword("12345"))
	assert.True(t, NewPassword("123456"))
	assert.True(t, NewPassword(strings.Repeat("x", 100)))
	assert.False(t, NewPassword(strings.Repeat("x", 101)))

	assert.False(t, SuppliedPassword(""))
	assert.True(t, SuppliedPassword("a"))
	assert.True(t, SuppliedPassword(strings.Repeat("x", 200)))
	assert.False(t, SuppliedPassword(strings.Repeat("x", 201)))
}

func TestFilename(t *testing.T) {
	assert.True(t, Filename("photo.jpg"))
	assert.False(t, Filename(""))
	assert.False(t, Filename(strings.Repeat("a", 97)+".jpg"))
}

func TestStruct_MotorInput(t *testing.T) {
	valid := model.MotorInput{Name: "Honda Vario", Plate: "DK1234AB", Status: model.MotorAvailable}
	assert.NoError(t, Struct(valid))

	tests := []struct {
		name   string
		mutate func(*model.MotorInput)
		field  string
	}{
		{"missing name", func(in *model.MotorInput) { in.Name = "" }, "Name"},
		{"long name", func(in *model.MotorInput) { in.Name = strings.Repeat("n", 101) }, "Name"},
		{"missing plate", func(in *model.MotorInput) { in.Plate = "" }, "Plate"},
		{"long plate", func(in *model.MotorInput) { in.Plate = strings.Repeat("P", 21) }, "Plate"},
		{"unknown status", func(in *model.MotorInput) { in.Status = "sold" }, "Status"},
		{"long description", func(in *model.MotorInput) { in.Description = strings.Repeat("d", 1001) }, "Description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := Struct(in)
			assert.Error(t, err)
			assert.Equal(t, tt.field, InvalidField(err))
		})
	}

	assert.Empty(t, InvalidField(nil))
}
