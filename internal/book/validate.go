package book

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator checks incoming book requests before anything touches the
// store. The published-year upper bound is the calendar year at the
// moment of validation, so the clock is injected instead of read from a
// package global; tests pass a fixed clock.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator builds a request validator using the given clock. A nil
// clock falls back to time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{
		validate: validator.New(),
		now:      now,
	}
	_ = v.validate.RegisterValidation("published_year", v.currentYearOrEarlier)
	return v
}

func (v *Validator) currentYearOrEarlier(fl validator.FieldLevel) bool {
	return int(fl.Field().Int()) <= v.now().Year()
}

// Check validates a request and returns a field name to message map,
// empty when the request is valid. Field names use the wire spelling.
func (v *Validator) Check(req *Request) map[string]string {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": "Invalid request"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		if _, seen := out[name]; !seen {
			out[name] = messageFor(fe)
		}
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " must not be blank"
	case "gte":
		return "Published year must be no earlier than 1500"
	case "published_year":
		return "Published year must not be in the future"
	default:
		return fe.Field() + " is invalid"
	}
}
