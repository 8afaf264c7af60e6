package webutil

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is the shared validator instance. Field names in error
// messages come from json tags rather than Go field names.
var Validator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
