package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 2000
	maxURLLength         = 500
	minPasswordLength    = 8
	maxPasswordLength    = 128
)

var (
	namePattern = regexp.MustCompile(`^[\p{L}0-9\s\-']+$`)
	fieldCheck  = validator.New()
)

// fieldErrors collects every problem of one input before failing.
type fieldErrors struct {
	err error
}

func (f *fieldErrors) add(format string, args ...interface{}) {
	f.err = multierr.Append(f.err, fmt.Errorf(format, args...))
}

func (f *fieldErrors) name(field, value string) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		f.add("%s cannot be empty", field)
	case len(value) > maxNameLength:
		f.add("%s must not exceed %d characters", field, maxNameLength)
	case !namePattern.MatchString(value):
		f.add("%s can only contain letters, numbers, spaces, hyphens, and apostrophes", field)
	}
}

func (f *fieldErrors) required(field, value string, max int) {
	value = strings.TrimSpace(value)
	if value == "" {
		f.add("%s cannot be empty", field)
		return
	}
	f.maxLen(field, value, max)
}

func (f *fieldErrors) maxLen(field, value string, max int) {
	if len(value) > max {
		f.add("%s must not exceed %d characters", field, max)
	}
}

func (f *fieldErrors) email(value string) {
	if err := fieldCheck.Var(normalizeEmail(value), "required,email,max=255"); err != nil {
		f.add("email must be a valid address")
	}
}

func (f *fieldErrors) optionalURL(field, value string) {
	if value == "" {
		return
	}
	if len(value) > maxURLLength {
		f.add("%s must not exceed %d characters", field, maxURLLength)
		return
	}
	if err := fieldCheck.Var(value, "url,startswith=http"); err != nil {
		f.add("%s must be a valid http or https URL", field)
	}
}

func (f *fieldErrors) password(value string) {
	if len(value) < minPasswordLength {
		f.add("password must be at least %d characters", minPasswordLength)
		return
	}
	if len(value) > maxPasswordLength {
		f.add("password must not exceed %d characters", maxPasswordLength)
		return
	}
	var letter, digit bool
	for _, r := range value {
		letter = letter || unicode.IsLetter(r)
		digit = digit || unicode.IsDigit(r)
	}
	if !letter {
		f.add("password must contain at least one letter")
	}
	if !digit {
		f.add("password must contain at least one number")
	}
}

func (f *fieldErrors) nonNegativeInt(field string, v *int) {
	if v != nil && *v < 0 {
		f.add("%s must be a positive integer", field)
	}
}

func (f *fieldErrors) nonNegativeFloat(field string, v *float64) {
	if v != nil && *v < 0 {
		f.add("%s must be a positive number", field)
	}
}

func (f *fieldErrors) floatRange(field string, v *float64, min, max float64) {
	if v != nil && (*v < min || *v > max) {
		f.add("%s must be between %g and %g", field, min, max)
	}
}

// result wraps the collected problems into one ErrValidation error.
func (f *fieldErrors) result() error {
	if f.err == nil {
		return nil
	}
	errs := multierr.Errors(f.err)
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return wrapError(ErrValidation, strings.Join(msgs, "; "), f.err)
}
