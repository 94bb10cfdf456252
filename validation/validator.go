// Package validation checks records against the field constraints declared in
// their `validate` struct tags and reports the outcome as a typed Result.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"movie-catalog-backend/common"
)

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// FieldProblem describes one violated constraint.
type FieldProblem struct {
	Field  string `json:"field"`
	Tag    string `json:"tag"`
	Reason string `json:"reason"`
}

// Result is the outcome of validating one record.
type Result struct {
	Problems []FieldProblem
}

func (r Result) Valid() bool {
	return len(r.Problems) == 0
}

// Reason joins the problems into a single message.
func (r Result) Reason() string {
	parts := make([]string, 0, len(r.Problems))
	for _, p := range r.Problems {
		parts = append(parts, p.Reason)
	}
	return strings.Join(parts, "; ")
}

// Error wraps a failed Result. It matches common.ErrValidation with errors.Is.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	return "validation error: " + e.Result.Reason()
}

func (e *Error) Is(target error) bool {
	return target == common.ErrValidation
}

// Check validates a struct and returns its Result.
func Check(record any) Result {
	err := get().Struct(record)
	if err == nil {
		return Result{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Problems: []FieldProblem{{Reason: err.Error()}}}
	}

	res := Result{Problems: make([]FieldProblem, 0, len(verrs))}
	for _, fe := range verrs {
		res.Problems = append(res.Problems, FieldProblem{
			Field:  fe.Field(),
			Tag:    fe.Tag(),
			Reason: translate(fe),
		})
	}
	return res
}

// Validate is Check returning an error, nil when the record is valid.
func Validate(record any) error {
	res := Check(record)
	if res.Valid() {
		return nil
	}
	return &Error{Result: res}
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
