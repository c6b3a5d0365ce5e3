package errs

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an error to the status code and machine-readable code
// written to clients. Wrapped errors are unwrapped.
func HTTPStatus(err error) (int, string) {
	var (
		notFound     *NotFoundError
		validation   *ValidationError
		unauthorized *UnauthorizedError
		badLink      *BadLinkError
		external     *ExternalServiceError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &validation):
		return http.StatusBadRequest, "invalid_input"
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.As(err, &badLink):
		return http.StatusBadRequest, "bad_link"
	case errors.As(err, &external):
		if external.Transient {
			return http.StatusServiceUnavailable, "service_unavailable"
		}
		return http.StatusBadGateway, "service_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
