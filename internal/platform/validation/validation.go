// Package validation wraps go-playground/validator and turns its failures into
// the field-path/message pairs shown next to console form fields.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ClockLayout is the wall-clock format accepted for time fields ("09:30").
const ClockLayout = "15:04"

// PasswordSpecials lists the only non-alphanumeric characters a password may contain.
const PasswordSpecials = "@$!%*?&"

var phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}$`)

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// FieldError is a single failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the structured result of a failed form check. A nil Errors means
// the input passed.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Has reports whether any error was recorded against field.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Message returns the first message recorded against field, or "".
func (e Errors) Message(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Messages maps "<field path without indices>.<tag>" to the text shown to the
// user, e.g. "timeSlots.endTime.after_start".
type Messages map[string]string

// Validator evaluates declarative struct tags plus the console's custom rules.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the shared rules registered:
//   - hhmm: a wall-clock time in ClockLayout
//   - phone: a 10 to 12 digit phone number with optional separators
//   - password: lower, upper, digit and special character, nothing else
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	val := &Validator{v: v}
	val.mustRegister("hhmm", ValidClock)
	val.mustRegister("phone", ValidPhone)
	val.mustRegister("password", ValidPassword)
	return val
}

func (val *Validator) mustRegister(tag string, fn func(string) bool) {
	if err := val.RegisterRule(tag, fn); err != nil {
		panic(err)
	}
}

// RegisterRule adds a custom tag that checks a string field.
func (val *Validator) RegisterRule(tag string, fn func(string) bool) error {
	return val.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
}

// RegisterStructRule adds a cross-field rule run for every value of the given types.
func (val *Validator) RegisterStructRule(fn validator.StructLevelFunc, types ...interface{}) {
	val.v.RegisterStructValidation(fn, types...)
}

// Validate checks s and returns nil when every constraint holds.
func (val *Validator) Validate(s interface{}, msgs Messages) Errors {
	return val.collect(val.v.Struct(s), msgs)
}

// ValidateExcept is Validate with the named Go fields skipped.
func (val *Validator) ValidateExcept(s interface{}, msgs Messages, fields ...string) Errors {
	return val.collect(val.v.StructExcept(s, fields...), msgs)
}

func (val *Validator) collect(err error, msgs Messages) Errors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Message: err.Error()}}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		msg, ok := msgs[indexPattern.ReplaceAllString(path, "")+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		out = append(out, FieldError{Field: path, Message: msg})
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ValidClock reports whether s is a wall-clock time in ClockLayout.
func ValidClock(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// ValidPhone reports whether s looks like a phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidPassword reports whether s is at least 8 characters drawn from letters,
// digits and PasswordSpecials, with at least one of each class.
func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}
