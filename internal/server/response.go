package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"zenith/internal/domain/errors"
	"zenith/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
)

const (
	codeValidation         = "VALIDATION_ERROR"
	codeInvalidArgument    = "INVALID_ARGUMENT"
	codeWeakPassword       = "WEAK_PASSWORD"
	codeDuplicateEmail     = "DUPLICATE_EMAIL"
	codeNoToken            = "NO_TOKEN"
	codeInvalidToken       = "INVALID_TOKEN"
	codeTokenExpired       = "TOKEN_EXPIRED"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeNotFound           = "NOT_FOUND"
	codeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	codeRateLimited        = "RATE_LIMITED"
	codeServerError        = "SERVER_ERROR"

	serverErrorMessage = "Server error"
)

// requestError tags a field error with the kind of rejection while keeping
// the field message for the client.
type requestError struct {
	kind error
	err  error
}

func (e *requestError) Error() string { return e.err.Error() }

func (e *requestError) Unwrap() []error { return []error{e.kind, e.err} }

func invalidField(err error) error {
	return &requestError{kind: errors.ErrValidationFailed, err: err}
}

func invalidArgument(err error) error {
	return &requestError{kind: errors.ErrInvalidArgument, err: err}
}

func errorStatus(err error) (int, string) {
	switch {
	case stderrors.Is(err, errors.ErrInvalidArgument):
		return http.StatusBadRequest, codeInvalidArgument
	case stderrors.Is(err, errors.ErrWeakPassword):
		return http.StatusBadRequest, codeWeakPassword
	case stderrors.Is(err, errors.ErrDuplicateEmail):
		return http.StatusBadRequest, codeDuplicateEmail
	case stderrors.Is(err, errors.ErrValidationFailed), stderrors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest, codeValidation
	case stderrors.Is(err, errors.ErrNoToken):
		return http.StatusUnauthorized, codeNoToken
	case stderrors.Is(err, errors.ErrTokenExpired):
		return http.StatusUnauthorized, codeTokenExpired
	case stderrors.Is(err, errors.ErrTokenMalformed):
		return http.StatusUnauthorized, codeInvalidToken
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		return http.StatusUnauthorized, codeInvalidCredentials
	case stderrors.Is(err, errors.ErrNotFound), stderrors.Is(err, errors.ErrUserNotFound):
		return http.StatusNotFound, codeNotFound
	case stderrors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests, codeRateLimited
	default:
		return http.StatusInternalServerError, codeServerError
	}
}

func errorBody(err error) (int, gin.H) {
	status, code := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = serverErrorMessage
	}
	return status, gin.H{"success": false, "message": message, "error": code}
}

// fail writes the error envelope. Unexpected errors are logged and replaced
// by a generic message.
func fail(ctx *gin.Context, err error) {
	status, body := errorBody(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", ctx.Request.Method, "path", ctx.FullPath(), "err", err)
	}
	ctx.JSON(status, body)
}

func abort(ctx *gin.Context, err error) {
	status, body := errorBody(err)
	ctx.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the body. A type mismatch on a field is reported as a
// validation failure of that field.
func bindJSON(ctx *gin.Context, dst any) error {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && typeErr.Field == "ids" {
			return invalidArgument(errors.ErrInvalidIDs)
		}
		return invalidField(errors.ErrInvalidInput)
	}
	return nil
}

func validationErrorToErrorResponse(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			switch verr.Field() {
			case "Name":
				return invalidField(errors.ErrInvalidName)
			case "Email":
				return invalidField(errors.ErrInvalidEmail)
			case "Password", "CurrentPassword":
				return invalidField(errors.ErrInvalidPassword)
			case "Avatar":
				return invalidField(errors.ErrInvalidAvatar)
			case "Theme":
				return invalidField(errors.ErrInvalidTheme)
			case "Title":
				return invalidField(errors.ErrInvalidTitle)
			case "Description":
				return invalidField(errors.ErrInvalidDescription)
			case "Content":
				return invalidField(errors.ErrInvalidContent)
			case "Priority":
				return invalidField(errors.ErrInvalidPriority)
			case "Category":
				return invalidField(errors.ErrInvalidCategory)
			case "Color":
				return invalidField(errors.ErrInvalidColor)
			case "EstimatedTime", "ActualTime":
				return invalidField(errors.ErrInvalidTime)
			case "Mode":
				return invalidField(errors.ErrInvalidMode)
			case "Notes":
				return invalidField(errors.ErrInvalidNotes)
			case "Interruptions":
				return invalidField(errors.ErrInvalidInterruptions)
			}
		}
	}
	return invalidField(errors.ErrValidationFailed)
}
