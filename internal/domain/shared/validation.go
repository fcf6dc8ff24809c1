package shared

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldNamer maps a validator field name to the name reported to clients
type FieldNamer func(field string) string

// ValidationErrorFrom converts validator failures into a ValidationError.
// It returns nil when err carries no field failures.
func ValidationErrorFrom(err error, name FieldNamer) *ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	v := NewValidationError()
	for _, fe := range verrs {
		field := fe.Field()
		if name != nil {
			field = name(field)
		}
		v.Add(field, FieldMessage(fe))
	}
	return v
}

// FieldMessage is the reason reported for a failed validation tag
func FieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "required"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + strings.Join(oneOfValues(fe.Param()), ", ")
	case "numeric":
		return "must be a number"
	case "excludes":
		if fe.Param() == "-" {
			return "must not be negative"
		}
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return fe.Tag()
}

// oneOfValues splits a oneof parameter, keeping 'quoted values' whole
func oneOfValues(param string) []string {
	var values []string
	for param != "" {
		param = strings.TrimLeft(param, " ")
		if param == "" {
			break
		}
		if param[0] == '\'' {
			end := strings.IndexByte(param[1:], '\'')
			if end >= 0 {
				values = append(values, param[1:end+1])
				param = param[end+2:]
				continue
			}
		}
		value, rest, _ := strings.Cut(param, " ")
		values = append(values, value)
		param = rest
	}
	return values
}
