package cba

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DomainError reports an input parameter outside its documented range.
// Field is the JSON name of the offending parameter.
type DomainError struct {
	Value any
	Field string
	Range string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("invalid parameter %q: got %v, valid range is %s", e.Field, e.Value, e.Range)
}

// validate is shared across calls; the validator is stateless after
// construction and safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so error messages match the wire
	// format callers actually use.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

// Valid-range descriptions per constraint tag, used in DomainError
// messages. TimeReductionPercent carries two constraints; either one
// failing maps to the combined range.
func rangeDescription(fe validator.FieldError) string {
	if fe.Field() == "time_reduction_percent" {
		return "0 <= value < 100"
	}
	switch fe.Tag() {
	case "gte":
		return ">= " + fe.Param()
	case "gt":
		return "> " + fe.Param()
	case "lt":
		return "< " + fe.Param()
	default:
		return fe.Tag()
	}
}

// Validate checks every parameter against its documented range and
// returns a *DomainError naming the first offending field. The engine
// calls this itself before computing, so it stays safe as a standalone
// library even when the presentation layer already validated.
func Validate(p Params) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate parameters: %w", err)
	}

	fe := verrs[0]
	return &DomainError{
		Field: fe.Field(),
		Range: rangeDescription(fe),
		Value: fe.Value(),
	}
}
