package webutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"pocket_study/internal/model"
)

// DecodeJSONBody decodes and validates a request body into dst.
func DecodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return model.NewAppError("INVALID_BODY", "Request body is required.", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return model.NewAppError("INVALID_BODY", "Request body is not valid JSON.", "", model.ErrInvalidInput)
	}

	if err := Validator.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return NewValidationError(validationErrs)
		}
		return model.NewAppError("INVALID_BODY", "Request body failed validation.", "", model.ErrInvalidInput)
	}
	return nil
}
