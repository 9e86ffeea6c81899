package api

import (
	"errors"
	"net/http"

	"admissions-explorer/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case domain.ErrorKind(err) != "":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code      int    `json:"code"`
	Kind      string `json:"kind,omitempty"`
	Dataset   string `json:"dataset,omitempty"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
