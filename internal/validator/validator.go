// Package validator holds the shape checks applied to user input.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	UsernameMaxLength         = 50
	NewPasswordMinLength      = 6
	NewPasswordMaxLength      = 100
	SuppliedPasswordMaxLength = 200
	FilenameMaxLength         = 100
)

// UsernamePattern allows letters, digits and underscore.
var UsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Text rejects values that are blank after trimming, longer than maxLength
// characters, or (when pattern is set) not matching pattern at the start.
func Text(value string, maxLength int, pattern *regexp.Regexp) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	if err := validate.Var(value, fmt.Sprintf("max=%d", maxLength)); err != nil {
		return false
	}
	if pattern != nil {
		loc := pattern.FindStringIndex(value)
		if loc == nil || loc[0] != 0 {
			return false
		}
	}
	return true
}

// Username checks the account name shape.
func Username(s string) bool {
	return Text(s, UsernameMaxLength, UsernamePattern)
}

// NewPassword checks the length bounds of a password being set.
func NewPassword(s string) bool {
	return validate.Var(s, fmt.Sprintf("min=%d,max=%d", NewPasswordMinLength, NewPasswordMaxLength)) == nil
}

// SuppliedPassword checks a password typed for login or confirmation.
func SuppliedPassword(s string) bool {
	return validate.Var(s, fmt.Sprintf("required,max=%d", SuppliedPasswordMaxLength)) == nil
}

// Filename checks an already sanitized filename.
func Filename(s string) bool {
	return Text(s, FilenameMaxLength, nil)
}

// Struct runs the `validate` tags of v.
func Struct(v any) error {
	return validate.Struct(v)
}

// InvalidField returns the struct field name of the first rule that failed
// in an error returned by Struct, or "" for any other error.
func InvalidField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].StructField()
	}
	return ""
}
