package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the flattened shape handlers feed into the response envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP converts any error into an HTTPError. Unknown errors collapse to a
// generic 500 so internal messages never leak to clients; the original error
// is still available to the caller for logging.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		httpErr := HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if appErr.Err != nil && appErr.HTTPStatus < http.StatusInternalServerError {
			httpErr.Details = appErr.Err.Error()
		}
		return httpErr
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
