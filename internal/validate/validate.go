// Package validate wires go-playground/validator into echo and adds the
// domain tags used by request DTOs:
//
//	slot     "HH:MM-HH:MM" on whole hours
//	phone10  exactly ten digits
//	hhmm     "HH:MM" 24-hour clock
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maidaan/maidaan/internal/timeslot"
)

var (
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	hhmmRe  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	slotRe  = regexp.MustCompile(`^\d{2}:00-\d{2}:00$`)
)

// Validator implements echo.Validator.
type Validator struct {
	v *validator.Validate
}

// New builds a validator with the domain tags registered.  Field names in
// errors follow the json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return Phone10(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slot", validSlot)
	return &Validator{v: v}
}

// Phone10 reports whether s is exactly ten ASCII digits.  Callers that check
// contacts outside a tagged DTO use it so both paths agree.
func Phone10(s string) bool { return phoneRe.MatchString(s) }

func validSlot(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !slotRe.MatchString(s) {
		return false
	}
	h, err := timeslot.StartHour(s)
	if err != nil {
		return false
	}
	return s == fmt.Sprintf("%02d:00-%02d:00", h, h+1)
}

// Validate implements echo.Validator.  The first failing field is reported.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return &FieldError{Field: verrs[0].Field(), Tag: verrs[0].Tag(), Param: verrs[0].Param()}
}

// FieldError describes the first failing field of a request.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return e.Field + " is required"
	case "phone10":
		return e.Field + " must be a 10 digit number"
	case "hhmm":
		return e.Field + " must be a HH:MM time"
	case "slot":
		return e.Field + " must be a one-hour HH:00-HH:00 slot"
	case "oneof":
		return e.Field + " must be one of " + e.Param
	case "min", "gte":
		return e.Field + " must be at least " + e.Param
	case "max", "lte":
		return e.Field + " must be at most " + e.Param
	case "email":
		return e.Field + " must be an email address"
	default:
		return e.Field + " is invalid"
	}
}
