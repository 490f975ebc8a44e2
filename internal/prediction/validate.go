package prediction

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mr1hm/go-quake-magnitude/internal/models"
)

// ErrInvalidInput matches every *InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports a field outside its allowed range.
type InputError struct {
	Detail string
}

func (e *InputError) Error() string { return "invalid input: " + e.Detail }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// newValidator reads the same `binding` tags gin uses, so range rules live
// in one place on models.Fields.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func (s *Service) validateFields(f models.Fields) error {
	finite := []struct {
		name string
		v    float64
	}{
		{"latitude", f.Latitude},
		{"longitude", f.Longitude},
		{"depth", f.Depth},
	}
	for _, c := range finite {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return &InputError{Detail: c.name + " must be a finite number"}
		}
	}

	err := s.validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &InputError{Detail: err.Error()}
	}
	return &InputError{Detail: DescribeValidationErrors(verrs)}
}

// DescribeValidationErrors renders validator errors as "latitude must be at most 90; ...".
func DescribeValidationErrors(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
