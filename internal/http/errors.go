package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
	applog "github.com/hugomepuich/playafterlife-sub001/internal/log"
	"github.com/hugomepuich/playafterlife-sub001/internal/upload"
	"github.com/hugomepuich/playafterlife-sub001/internal/validate"
)

const (
	authRequiredMessage  = "Authentication required"
	adminRequiredMessage = "Admin access required"
	invalidBodyMessage   = "Invalid request body"
	rateLimitMessage     = "Too many requests. Please wait a moment and try again."
	internalErrorMessage = "Internal server error"
)

// apiError is the body of every error response.
type apiError struct {
	status  int
	Message string   `json:"error" doc:"Human-readable error message"`
	Details string   `json:"details,omitempty" doc:"Underlying cause, omitted in production"`
	Errors  []string `json:"errors,omitempty" doc:"Individual validation failures"`
}

func (e *apiError) Error() string {
	return e.Message
}

func (e *apiError) GetStatus() int {
	return e.status
}

var _ huma.StatusError = (*apiError)(nil)

func init() {
	huma.NewError = newAPIError
}

// newAPIError replaces Huma's default problem+json errors. Schema violations are reported as
// plain 400s so every rejected body looks the same to clients.
func newAPIError(status int, message string, errs ...error) huma.StatusError {
	apiErr := &apiError{status: status, Message: message}

	if status == stdhttp.StatusUnprocessableEntity {
		apiErr.status = stdhttp.StatusBadRequest
		apiErr.Message = invalidBodyMessage
	}

	for _, err := range errs {
		if err != nil {
			apiErr.Errors = append(apiErr.Errors, err.Error())
		}
	}

	return apiErr
}

func badRequest(message string) error {
	return &apiError{status: stdhttp.StatusBadRequest, Message: message}
}

func unauthorized(message string) error {
	return &apiError{status: stdhttp.StatusUnauthorized, Message: message}
}

func notFound(message string) error {
	return &apiError{status: stdhttp.StatusNotFound, Message: message}
}

// internalError builds a 500 response. The cause is only exposed outside production.
func (s *Server) internalError(message string, cause error) error {
	apiErr := &apiError{status: stdhttp.StatusInternalServerError, Message: message}
	if cause != nil && !s.production {
		apiErr.Details = cause.Error()
	}
	return apiErr
}

// authError converts an authorization predicate failure into a 401.
func authError(err error) error {
	if eris.Is(err, auth.ErrAuthorizationDenied) {
		return unauthorized(adminRequiredMessage)
	}
	return unauthorized(authRequiredMessage)
}

// errorMessages names the entity in not-found, duplicate and failure messages.
type errorMessages struct {
	Label     string
	Duplicate string
}

// translateError maps domain errors to responses at the handler boundary. Unexpected errors are
// logged and captured before becoming 500s.
func (s *Server) translateError(ctx context.Context, err error, action string, messages errorMessages, fields logrus.Fields) error {
	var fieldErr *validate.FieldError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &fieldErr):
		return badRequest(fieldErr.Message)
	case eris.Is(err, auth.ErrAuthenticationRequired), eris.Is(err, auth.ErrAuthorizationDenied):
		return authError(err)
	case eris.Is(err, content.ErrNotFound):
		return notFound(fmt.Sprintf("%s not found", messages.Label))
	case eris.Is(err, content.ErrDuplicate):
		if messages.Duplicate != "" {
			return badRequest(messages.Duplicate)
		}
		return badRequest(fmt.Sprintf("%s already exists", messages.Label))
	case eris.Is(err, content.ErrInvalidReference):
		return badRequest(err.Error())
	case eris.Is(err, upload.ErrUnsupportedMediaType):
		return badRequest(upload.UnsupportedMessage())
	}

	s.recordError(ctx, err, action, fields)
	return s.internalError(fmt.Sprintf("Failed to %s", action), err)
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	applog.Capture(ctx, s.sentry, err)
}
