package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

// debugMode controls whether 5xx responses carry the underlying error text.
// It is off in production.
var debugMode = false

// SetDebugMode toggles debug info in server error responses
func SetDebugMode(enabled bool) {
	debugMode = enabled
}

// HandleAPIError maps an application error to the HTTP response envelope.
// Controllers call this from every error path.
func HandleAPIError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.ErrorDetail, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, dto.FieldError(fieldName(fe), validationMessage(fe)))
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(details))
		return
	}

	status, code := classify(err)
	detail := dto.NewErrorDetail(code, err.Error())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		detail.Message = "An internal server error occurred"
		if debugMode {
			detail.DebugInfo = err.Error()
		}
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrAccountLocked):
		return http.StatusForbidden, dto.ErrorCodeAccountLocked
	case errors.Is(err, apperrors.ErrAccountDisabled),
		errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrMembershipNotApproved),
		errors.Is(err, apperrors.ErrMembershipRejected):
		return http.StatusForbidden, dto.ErrorCodeForbidden
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrMemberNotFound),
		errors.Is(err, apperrors.ErrDonationNotFound),
		errors.Is(err, apperrors.ErrContactNotFound),
		errors.Is(err, apperrors.ErrChatMessageNotFound),
		errors.Is(err, apperrors.ErrChatSessionNotFound),
		errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrMemberAlreadyExists),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists
	case errors.Is(err, apperrors.ErrStatusChangeConflict),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict
	case errors.Is(err, apperrors.ErrInvalidStatusChange),
		errors.Is(err, apperrors.ErrNotTaxDeductible),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer
}

func fieldName(fe validator.FieldError) string {
	// StructField is CamelCase; the API speaks lowerCamel.
	f := fe.Field()
	if f == "" {
		return f
	}
	return strings.ToLower(f[:1]) + f[1:]
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is too short or too small (minimum " + fe.Param() + ")"
	case "max":
		return "Value is too long or too large (maximum " + fe.Param() + ")"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "gte":
		return "Must be at least " + fe.Param()
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	}
	return "Invalid value"
}
