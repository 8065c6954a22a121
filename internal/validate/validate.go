// Package validate checks decoded request bodies against a resource's required-field set.
package validate

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldError reports a missing or malformed body field. Its message names the field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Missing returns the error reported for an absent required field.
func Missing(field string) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("%s is required", field)}
}

// Invalid returns a field error with a custom message.
func Invalid(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// Required confirms that each named field of body is present and not blank. Fields are
// looked up by their JSON name. The first missing field is reported.
func Required(body any, fields ...string) error {
	return check(body, fields, false)
}

// NotBlank confirms that each named field, when supplied, is not blank. Absent fields pass.
// Updates use it so required fields may be omitted but never cleared.
func NotBlank(body any, fields ...string) error {
	return check(body, fields, true)
}

func check(body any, fields []string, allowAbsent bool) error {
	value := reflect.ValueOf(body)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			if allowAbsent {
				return nil
			}
			if len(fields) > 0 {
				return Missing(fields[0])
			}
			return nil
		}
		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		return fmt.Errorf("validate: expected struct body, got %s", value.Kind())
	}

	for _, field := range fields {
		fieldValue, ok := lookupJSONField(value, field)
		if !ok {
			return fmt.Errorf("validate: body has no field %q", field)
		}

		present, blank := inspect(fieldValue)
		if !present {
			if allowAbsent {
				continue
			}
			return Missing(field)
		}
		if blank {
			return Missing(field)
		}
	}

	return nil
}

func lookupJSONField(value reflect.Value, name string) (reflect.Value, bool) {
	valueType := value.Type()
	for i := 0; i < valueType.NumField(); i++ {
		structField := valueType.Field(i)
		if !structField.IsExported() {
			continue
		}

		if structField.Anonymous && structField.Type.Kind() == reflect.Struct {
			if nested, ok := lookupJSONField(value.Field(i), name); ok {
				return nested, true
			}
			continue
		}

		tagName := strings.Split(structField.Tag.Get("json"), ",")[0]
		if tagName == "" {
			tagName = structField.Name
		}
		if tagName == name {
			return value.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// inspect reports whether a field was supplied and whether its value is blank.
func inspect(value reflect.Value) (present bool, blank bool) {
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return false, true
		}
		_, blank = inspect(value.Elem())
		return true, blank
	case reflect.String:
		trimmed := strings.TrimSpace(value.String())
		return trimmed != "", trimmed == ""
	case reflect.Slice, reflect.Map:
		if value.IsNil() {
			return false, true
		}
		return true, value.Len() == 0
	default:
		return true, value.IsZero()
	}
}
