package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fylgde141/bookswap-api/internal/api/shared"
	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/service"
	"github.com/fylgde141/bookswap-api/internal/service/auth"
	"github.com/fylgde141/bookswap-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Duplicate username keeps the original API's 400 contract
	case store.IsDuplicateError(err):
		return http.StatusBadRequest

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrDealNotCancellable),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	// Authorization errors
	case errors.Is(err, service.ErrNotDealRecipient):
		return "Only the deal recipient may accept it"

	case errors.Is(err, service.ErrNotDealParticipant):
		return "Only a deal participant may perform this operation"

	case errors.Is(err, service.ErrNotSelf):
		return "Users may only list their own deals"

	case errors.Is(err, service.ErrNotAdmin):
		return "Admin privileges required"

	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, domain.ErrUnauthorized):
		return "Access denied"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrBookNotFound):
		return "Book not found"

	case errors.Is(err, store.ErrDealNotFound):
		return "Deal not found"

	case store.IsNotFoundError(err):
		return "Not found"

	// Duplicates
	case errors.Is(err, store.ErrUsernameExists):
		return "User already exists"

	// Bad request errors
	case errors.Is(err, service.ErrDealNotCancellable):
		return "Only deals in Created status can be cancelled"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case isDomainValidationError(err):
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to an HTTP status and a safe message, then writes
// the response, logging the underlying error. For generic server errors the
// non-empty fallbackMessage replaces the derived message so the client sees
// which operation failed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// isDomainValidationError checks whether err is one of the field-level
// validation sentinels declared by the domain entities.
func isDomainValidationError(err error) bool {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return true
	}

	for _, sentinel := range []error{
		domain.ErrEmptyUsername,
		domain.ErrEmptyPassword,
		domain.ErrEmptyBookTitle,
		domain.ErrEmptyBookOwner,
		domain.ErrEmptyReviewText,
		domain.ErrEmptyReviewAuthor,
		domain.ErrEmptyReviewBook,
		domain.ErrEmptyDealSender,
		domain.ErrEmptyDealRecipient,
		domain.ErrEmptyDealRecipientBook,
		domain.ErrDealSelfExchange,
		domain.ErrInvalidDealStatus,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format:
	// "Key: 'LoginRequest.Username' Error:Field validation for 'Username' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
