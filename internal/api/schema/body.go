package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
)

var (
	errRequestBodyInvalidJSON = func(err string) *Error {
		return &Error{
			Type:    "validation.requestBody.invalidJSON",
			Message: "Request body is not a valid JSON input.",
			Details: map[string]any{
				"error": err,
			},
		}
	}
	errRequestBodyParameterInvalidType = func(name, expectedType string) *Error {
		return &Error{
			Type:    "validation.requestBody.parameter.invalidType",
			Message: fmt.Sprintf("The request body parameter '%s' could not be assigned to the required type (%s).", name, expectedType),
			Details: map[string]any{
				"parameter":     name,
				"expected_type": expectedType,
			},
		}
	}
	errRequestBodyParameterMissing = func(name string) *Error {
		return &Error{
			Type:    "validation.requestBody.parameter.missing",
			Message: fmt.Sprintf("The request body parameter '%s' is required but was not present in the request.", name),
			Details: map[string]any{
				"parameter": name,
			},
		}
	}
)

// UnmarshalBody parses and decodes a JSON request body and validates the presence
// of every field tagged with required:"true". Required fields have to be pointers
// or strings; a missing pointer is nil and a missing string is empty.
func UnmarshalBody[T any](request *http.Request) (*T, []*Error, error) {
	body, err := io.ReadAll(request.Body)
	if err != nil {
		return nil, nil, err
	}

	target := new(T)
	if err := json.Unmarshal(body, target); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, []*Error{errRequestBodyParameterInvalidType(typeErr.Field, typeErr.Type.String())}, nil
		}
		return nil, []*Error{errRequestBodyInvalidJSON(err.Error())}, nil
	}

	var errs []*Error
	typ := reflect.TypeOf(target).Elem()
	ref := reflect.ValueOf(target).Elem()
	for i := 0; i < typ.NumField(); i++ {
		fieldDef := typ.Field(i)
		if !strings.EqualFold(fieldDef.Tag.Get("required"), "true") {
			continue
		}

		field := ref.Field(i)
		missing := false
		switch field.Kind() {
		case reflect.Pointer:
			missing = field.IsNil()
		case reflect.String:
			missing = field.String() == ""
		}
		if missing {
			errs = append(errs, errRequestBodyParameterMissing(fieldName(fieldDef)))
		}
	}
	return target, errs, nil
}

func fieldName(def reflect.StructField) string {
	jsonVal, ok := def.Tag.Lookup("json")
	if !ok || jsonVal == "-" {
		return def.Name
	}
	name, _, _ := strings.Cut(jsonVal, ",")
	return name
}
