package usecase

import (
	"errors"
	"net/http"

	"github.com/djjoel12/talksellr/internal/validator"
)

// handlerがそのままHTTPレスポンスにできるエラー
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// validatorのエラーを400にする
func badRequest(err error) error {
	return NewHTTPError(http.StatusBadRequest, validator.Message(err))
}
