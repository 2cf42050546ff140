package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/menu-api/models"
)

// CategoryTag is the binding tag that restricts a field to models.Categories.
const CategoryTag = "menu_category"

// Request parts reported in ValidationDetail.Loc.
const (
	LocBody  = "body"
	LocQuery = "query"
	LocPath  = "path"
)

// ValidationDetail describes one rejected input.
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

var registerOnce sync.Once

// RegisterValidators installs the custom tags on gin's validator and makes
// field errors report json/form names instead of Go field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			ErrorLogger.Error("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(wireFieldName)
		if err := v.RegisterValidation(CategoryTag, func(fl validator.FieldLevel) bool {
			return models.Category(fl.Field().String()).Valid()
		}); err != nil {
			ErrorLogger.Errorf("register %s validator: %v", CategoryTag, err)
		}
	})
}

func wireFieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// FieldDetail builds a single-entry detail list.
func FieldDetail(location, field, msg, typ string) []ValidationDetail {
	return []ValidationDetail{{Loc: []string{location, field}, Msg: msg, Type: typ}}
}

// ValidationDetails converts a binding error into client-facing details.
func ValidationDetails(location string, err error) []ValidationDetail {
	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	switch {
	case errors.As(err, &fieldErrs):
		details := make([]ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, ValidationDetail{
				Loc:  []string{location, fe.Field()},
				Msg:  fieldErrorMessage(fe),
				Type: fieldErrorType(fe),
			})
		}
		return details
	case errors.As(err, &typeErr):
		return FieldDetail(location, typeErr.Field, "must be of type "+kindName(typeErr.Type), "type_error")
	case errors.As(err, &syntaxErr):
		return []ValidationDetail{{Loc: []string{location}, Msg: "invalid JSON: " + syntaxErr.Error(), Type: "json_invalid"}}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return []ValidationDetail{{Loc: []string{location}, Msg: "invalid JSON: unexpected end of input", Type: "json_invalid"}}
	case errors.Is(err, io.EOF):
		return []ValidationDetail{{Loc: []string{location}, Msg: "request body is required", Type: "missing"}}
	default:
		return []ValidationDetail{{Loc: []string{location}, Msg: err.Error(), Type: "value_error"}}
	}
}

func fieldErrorMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "field required"
	case CategoryTag:
		names := make([]string, 0, len(models.Categories()))
		for _, c := range models.Categories() {
			names = append(names, string(c))
		}
		return "must be one of: " + strings.Join(names, ", ")
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s:%s", fe.Tag(), fe.Param())
		}
		return "failed " + fe.Tag()
	}
}

func fieldErrorType(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "missing"
	case CategoryTag:
		return "enum"
	default:
		return fe.Tag()
	}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	default:
		return t.Kind().String()
	}
}
