package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"pocket_study/internal/model"
)

// HandleError interprets an error and writes the matching JSON error
// response. Compile errors keep their full ordered message batch.
func HandleError(w http.ResponseWriter, err error) {
	statusCode := MapErrorToStatusCode(err)

	var detail model.ErrorDetail
	var appErr *model.AppError
	var compileErr *model.CompileError

	switch {
	case errors.As(err, &compileErr):
		detail = model.ErrorDetail{
			Code:    "COMPILE_ERROR",
			Message: "Course compilation failed.",
			Details: compileErr.Messages,
		}
	case errors.As(err, &appErr):
		detail = appErr.Detail
	default:
		slog.Error("Unhandled error", "error", err)
		detail = model.ErrorDetail{
			Code:    "INTERNAL_SERVER_ERROR",
			Message: "An internal error occurred.",
		}
	}

	RespondWithJSON(w, statusCode, model.APIErrorResponse{Error: detail})
}

// MapErrorToStatusCode maps application errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var appErr *model.AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		err = appErr.Err
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON writes a JSON payload with the given status code.
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"Failed to encode response."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// NewValidationError converts validator failures into a single AppError
// listing every offending field.
func NewValidationError(errs validator.ValidationErrors) *model.AppError {
	var fields []string
	var messages []string
	for _, err := range errs {
		fields = append(fields, err.Field())
		messages = append(messages, fmt.Sprintf("Field validation for %q failed on the %q tag", err.Field(), err.Tag()))
	}
	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, "; "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}
